package model

import "sync"

// Container is a named grouping the hub assigns to controls: a room or a
// category. Containers are identified by the hub like controls are, and
// keep their object identity across structure updates.
type Container struct {
	mu   sync.RWMutex
	id   Identity
	name string
	kind string
}

// NewContainer creates a container with the given identity and name.
func NewContainer(id Identity, name string) *Container {
	return &Container{id: id, name: name}
}

// ID returns the container's identity.
func (c *Container) ID() Identity {
	return c.id
}

// Name returns the display name.
func (c *Container) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetName updates the display name. Used during structure updates so that
// a renamed room keeps its object identity.
func (c *Container) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// Kind returns the category kind (e.g. "lights"), empty for rooms.
func (c *Container) Kind() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kind
}

// SetKind updates the category kind.
func (c *Container) SetKind(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = kind
}
