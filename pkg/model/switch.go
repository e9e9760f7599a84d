package model

import "github.com/lumen-home/lumen-go/pkg/wire"

// Hub type tags handled by Switch.
const (
	TypeSwitch      = "switch"
	TypeTimedSwitch = "timedswitch"
)

// StateActive carries a binary output state (0 or 1).
const StateActive = "active"

// Switch command tokens.
const (
	cmdSwitchOn  = "On"
	cmdSwitchOff = "Off"
	cmdPulse     = "Pulse"
)

// Switch is a binary output, optionally with a hub-side off timer
// ("timedswitch"). Pulse triggers the timed run; the hub ignores it on
// plain switches.
type Switch struct {
	*BaseControl
}

func newSwitch(cmd Commander, id Identity, desc *wire.ControlDescription, room, cat *Container) Control {
	s := &Switch{BaseControl: NewBaseControl(cmd, id, desc.Type)}
	s.Update(desc, room, cat)
	return s
}

// On switches the output on.
func (s *Switch) On() error {
	return s.Send(cmdSwitchOn)
}

// Off switches the output off.
func (s *Switch) Off() error {
	return s.Send(cmdSwitchOff)
}

// Pulse starts the timed switch-off run.
func (s *Switch) Pulse() error {
	return s.Send(cmdPulse)
}

// Active returns the output state, false if the hub has not reported one.
func (s *Switch) Active() (bool, bool) {
	cell := s.State(StateActive)
	if cell == nil {
		return false, false
	}
	value, ok := cell.Value()
	if !ok {
		return false, false
	}
	return value != 0, true
}
