package model

import (
	"fmt"
	"sync"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

// Hub type tags handled by InfoOnly.
const (
	TypeInfoOnlyDigital = "infoonlydigital"
	TypeInfoOnlyAnalog  = "infoonlyanalog"
)

// StateValueReading carries an info control's current reading.
const StateValueReading = "value"

// InfoOnly is a read-only value display: a sensor reading or a derived
// value the hub exposes without accepting any commands.
type InfoOnly struct {
	*BaseControl

	mu     sync.RWMutex
	format string
}

func newInfoOnly(cmd Commander, id Identity, desc *wire.ControlDescription, room, cat *Container) Control {
	c := &InfoOnly{BaseControl: NewBaseControl(cmd, id, desc.Type)}
	c.Update(desc, room, cat)
	return c
}

// Update applies a fresh description and captures the analog display
// format, if any.
func (c *InfoOnly) Update(desc *wire.ControlDescription, room, cat *Container) {
	c.BaseControl.Update(desc, room, cat)

	if desc.Details != nil {
		c.mu.Lock()
		c.format = desc.Details.Format
		c.mu.Unlock()
	}
}

// Digital reports whether this is a digital (on/off) info control.
func (c *InfoOnly) Digital() bool {
	return c.TypeTag() == TypeInfoOnlyDigital
}

// Reading returns the numeric reading, false if the hub has not reported
// one.
func (c *InfoOnly) Reading() (float64, bool) {
	cell := c.State(StateValueReading)
	if cell == nil {
		return 0, false
	}
	return cell.Value()
}

// FormattedReading renders the reading with the hub-configured format
// (e.g. "%.1f°"), falling back to the textual reading or a plain number.
// Returns false if no reading was ever reported.
func (c *InfoOnly) FormattedReading() (string, bool) {
	cell := c.State(StateValueReading)
	if cell == nil {
		return "", false
	}

	if text, ok := cell.TextValue(); ok {
		return text, true
	}

	value, ok := cell.Value()
	if !ok {
		return "", false
	}

	c.mu.RLock()
	format := c.format
	c.mu.RUnlock()

	if format == "" {
		format = "%v"
	}
	return fmt.Sprintf(format, value), true
}
