package model

import (
	"sort"
	"sync"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

// Hub is the root of the client-side object tree. It owns the room and
// category containers and the top-level controls, and applies the full
// structure files the transport delivers.
//
// ApplyStructure is a replace-by-comparison pass: controls present in both
// the old and new structure are updated in place (keeping their object
// identity and state listeners), new ones are constructed, and ones absent
// from the push are removed together with their subtrees. The same holds
// for rooms and categories.
type Hub struct {
	cmd Commander

	mu         sync.RWMutex
	info       wire.HubInfo
	rooms      map[Identity]*Container
	categories map[Identity]*Container

	controls controlMap
}

// NewHub creates an empty hub model. Commands issued by controls in the
// tree go through cmd; pass nil for a read-only model.
func NewHub(cmd Commander) *Hub {
	return &Hub{
		cmd:        cmd,
		rooms:      make(map[Identity]*Container),
		categories: make(map[Identity]*Container),
	}
}

// ApplyStructure applies a full structure push. Safe to call from the
// transport's delivery goroutine while consumers read the tree.
func (h *Hub) ApplyStructure(sf *wire.StructureFile) {
	if sf == nil {
		return
	}

	h.mu.Lock()
	h.info = sf.HubInfo
	syncContainers(h.rooms, sf.Rooms)
	syncContainers(h.categories, sf.Categories)
	rooms := h.rooms
	categories := h.categories
	h.mu.Unlock()

	syncControls(h.cmd, &h.controls, sf.Controls,
		func(desc *wire.ControlDescription) (*Container, *Container) {
			h.mu.RLock()
			defer h.mu.RUnlock()
			return rooms[NewIdentity(desc.Room)], categories[NewIdentity(desc.Cat)]
		})
}

// syncContainers reconciles a container map against a wire description:
// update in place, insert newcomers, sweep the rest. Caller holds h.mu.
func syncContainers(current map[Identity]*Container, descs map[string]*wire.Container) {
	seen := make(map[Identity]bool, len(descs))

	for _, desc := range descs {
		id := NewIdentity(desc.UUID)
		if id.IsZero() {
			continue
		}
		if existing, ok := current[id]; ok {
			existing.SetName(desc.Name)
			existing.SetKind(desc.Kind)
		} else {
			c := NewContainer(id, desc.Name)
			c.SetKind(desc.Kind)
			current[id] = c
		}
		seen[id] = true
	}

	for id := range current {
		if !seen[id] {
			delete(current, id)
		}
	}
}

// Info returns the hub identification from the latest structure push.
func (h *Hub) Info() wire.HubInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.info
}

// Room returns the room with the given identity.
func (h *Hub) Room(id Identity) (*Container, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[id]
	return room, ok
}

// Rooms returns all rooms, sorted by name.
func (h *Hub) Rooms() []*Container {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sortedContainers(h.rooms)
}

// Categories returns all categories, sorted by name.
func (h *Hub) Categories() []*Container {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sortedContainers(h.categories)
}

func sortedContainers(m map[Identity]*Container) []*Container {
	list := make([]*Container, 0, len(m))
	for _, c := range m {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Control returns the top-level control with the given identity.
func (h *Hub) Control(id Identity) (Control, bool) {
	return h.controls.get(id)
}

// Controls returns all top-level controls.
func (h *Hub) Controls() []Control {
	return h.controls.list()
}

// FindControl searches the whole tree, sub-controls included, for the
// given identity.
func (h *Hub) FindControl(id Identity) (Control, bool) {
	return findControl(h.controls.list(), id)
}

func findControl(controls []Control, id Identity) (Control, bool) {
	for _, ctrl := range controls {
		if ctrl.ID() == id {
			return ctrl, true
		}
		if found, ok := findControl(ctrl.Children(), id); ok {
			return found, true
		}
	}
	return nil, false
}
