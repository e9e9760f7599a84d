package model

import "github.com/lumen-home/lumen-go/pkg/wire"

// TypeShade is the hub type tag for motorized shading.
const TypeShade = "jalousie"

// StatePosition carries the shade position, 0 (open) to 1 (closed).
const StatePosition = "position"

// Shade command tokens.
const (
	cmdFullUp   = "FullUp"
	cmdFullDown = "FullDown"
	cmdStop     = "Stop"
)

// Shade is a motorized blind or awning.
type Shade struct {
	*BaseControl
}

func newShade(cmd Commander, id Identity, desc *wire.ControlDescription, room, cat *Container) Control {
	s := &Shade{BaseControl: NewBaseControl(cmd, id, TypeShade)}
	s.Update(desc, room, cat)
	return s
}

// FullUp drives the shade fully open.
func (s *Shade) FullUp() error {
	return s.Send(cmdFullUp)
}

// FullDown drives the shade fully closed.
func (s *Shade) FullDown() error {
	return s.Send(cmdFullDown)
}

// Stop halts a running movement.
func (s *Shade) Stop() error {
	return s.Send(cmdStop)
}

// Position returns the shade position in [0, 1], false if the hub has not
// reported one.
func (s *Shade) Position() (float64, bool) {
	cell := s.State(StatePosition)
	if cell == nil {
		return 0, false
	}
	return cell.Value()
}
