package model

import (
	"errors"
	"sync"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

// Control errors.
var (
	// ErrNoCommander is returned by Send when the control was built
	// without a command channel.
	ErrNoCommander = errors.New("control has no command channel")
)

// Control is one node in the hub's object tree: an identity, a room and
// category classification, named state cells, and child controls.
//
// Concrete variants (LightController, Switch, ...) embed BaseControl and
// add command methods and derived state. All implementations are safe for
// concurrent use.
type Control interface {
	// ID returns the identity commands are addressed to.
	ID() Identity

	// Name returns the display name from the latest structure update.
	Name() string

	// TypeTag returns the hub type tag this control was built from.
	TypeTag() string

	// Room returns the room classification, nil if unassigned.
	Room() *Container

	// Category returns the category classification, nil if unassigned.
	Category() *Container

	// State returns the named state cell, nil if the hub never
	// described one by that name.
	State(name string) *State

	// StateNames returns the names of all state cells.
	StateNames() []string

	// Child returns the child control with the given identity.
	Child(id Identity) (Control, bool)

	// Children returns all child controls.
	Children() []Control

	// Update applies a fresh description of this control: refreshes
	// name and classification, feeds state readings into the cells, and
	// reconciles the child set. The control's object identity and all
	// state listeners survive the update.
	Update(desc *wire.ControlDescription, room, cat *Container)
}

// BaseControl is the common implementation all control variants embed.
type BaseControl struct {
	cmd     Commander
	id      Identity
	typeTag string

	mu       sync.RWMutex
	name     string
	room     *Container
	category *Container
	states   map[string]*State

	children controlMap
}

// NewBaseControl creates a base control. Variants call this from their
// constructor and then apply the initial description via Update.
func NewBaseControl(cmd Commander, id Identity, typeTag string) *BaseControl {
	return &BaseControl{
		cmd:     cmd,
		id:      id,
		typeTag: typeTag,
		states:  make(map[string]*State),
	}
}

// ID returns the control's identity.
func (c *BaseControl) ID() Identity {
	return c.id
}

// TypeTag returns the hub type tag.
func (c *BaseControl) TypeTag() string {
	return c.typeTag
}

// Name returns the display name.
func (c *BaseControl) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Room returns the room classification, nil if unassigned.
func (c *BaseControl) Room() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

// Category returns the category classification, nil if unassigned.
func (c *BaseControl) Category() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category
}

// State returns the named state cell, nil if unknown.
func (c *BaseControl) State(name string) *State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.states[name]
}

// StateNames returns the names of all state cells.
func (c *BaseControl) StateNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.states))
	for name := range c.states {
		names = append(names, name)
	}
	return names
}

// Child returns the child control with the given identity.
func (c *BaseControl) Child(id Identity) (Control, bool) {
	return c.children.get(id)
}

// Children returns all child controls.
func (c *BaseControl) Children() []Control {
	return c.children.list()
}

// Send addresses an action string to this control over the command
// channel. The transport's failure is returned to the caller; the model
// never retries.
func (c *BaseControl) Send(action string) error {
	if c.cmd == nil {
		return ErrNoCommander
	}
	return c.cmd.SendAction(c.id, action)
}

// Update applies a fresh description: name, classification, state
// readings, then the child reconciliation pass.
func (c *BaseControl) Update(desc *wire.ControlDescription, room, cat *Container) {
	c.mu.Lock()
	c.name = desc.Name
	c.room = room
	c.category = cat
	c.mu.Unlock()

	c.applyStates(desc.States)

	// The parent's classification wins over whatever the sub-control
	// description carries.
	for _, sub := range desc.SubControls {
		sub.Room = desc.Room
		sub.Cat = desc.Cat
	}
	syncControls(c.cmd, &c.children, desc.SubControls,
		func(*wire.ControlDescription) (*Container, *Container) {
			return room, cat
		})
}

// applyStates feeds readings into the cells, creating cells on first
// sight. Existing cells are updated in place so listeners stay attached.
// Fan-out happens via each cell's own lock; c.mu is never held across a
// listener callback.
func (c *BaseControl) applyStates(readings map[string]wire.StateValue) {
	for name, reading := range readings {
		cell := c.ensureState(name)
		if reading.Value != nil {
			cell.Set(*reading.Value)
		}
		if reading.Text != nil {
			cell.SetText(*reading.Text)
		}
	}
}

// ensureState returns the named cell, creating an unset one if needed.
func (c *BaseControl) ensureState(name string) *State {
	c.mu.Lock()
	defer c.mu.Unlock()

	cell, ok := c.states[name]
	if !ok {
		cell = NewState(name)
		c.states[name] = cell
	}
	return cell
}
