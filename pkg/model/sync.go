package model

import (
	"sync"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

// controlMap is a concurrency-safe set of controls keyed by identity.
// BaseControl uses one for its children and Hub for the top-level controls,
// so both levels share the same reconciliation pass.
type controlMap struct {
	mu sync.RWMutex
	m  map[Identity]Control
}

func (cm *controlMap) get(id Identity) (Control, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	ctrl, ok := cm.m[id]
	return ctrl, ok
}

func (cm *controlMap) put(id Identity, ctrl Control) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.m == nil {
		cm.m = make(map[Identity]Control)
	}
	cm.m[id] = ctrl
}

func (cm *controlMap) list() []Control {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	controls := make([]Control, 0, len(cm.m))
	for _, ctrl := range cm.m {
		controls = append(controls, ctrl)
	}
	return controls
}

func (cm *controlMap) len() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.m)
}

// sweep removes every control whose identity is not in keep.
func (cm *controlMap) sweep(keep map[Identity]bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for id := range cm.m {
		if !keep[id] {
			delete(cm.m, id)
		}
	}
}

// resolveFunc maps a control description to its room and category.
// Either result may be nil when the description references nothing known.
type resolveFunc func(desc *wire.ControlDescription) (room, cat *Container)

// syncControls reconciles a control set against a freshly received
// collection of descriptions:
//
//   - a description whose identity is already present updates that control
//     in place (recursively, so its own children are reconciled the same
//     way), preserving object identity and state listeners;
//   - a new identity constructs a control via the type-tag registry and
//     inserts it; descriptions with unknown type tags produce no node and
//     do not fail the pass;
//   - controls absent from the descriptions are removed afterwards,
//     disposing of their own subtree by unreachability.
//
// The "seen this pass" bookkeeping is local to the call; identities carry
// no sync state between passes. The pass is idempotent but not atomic: a
// panicking state listener aborts it partway with adds/updates applied and
// removals not yet done.
func syncControls(cmd Commander, cm *controlMap, descs map[string]*wire.ControlDescription, resolve resolveFunc) {
	seen := make(map[Identity]bool, len(descs))

	for _, desc := range descs {
		id := NewIdentity(desc.UUIDAction)
		if id.IsZero() {
			continue
		}
		room, cat := resolve(desc)

		if existing, ok := cm.get(id); ok {
			existing.Update(desc, room, cat)
			seen[id] = true
			continue
		}

		ctrl := newControl(cmd, id, desc, room, cat)
		if ctrl == nil {
			// Unrecognized type tag: drop the node, keep the pass going.
			continue
		}
		cm.put(id, ctrl)
		seen[id] = true
	}

	cm.sweep(seen)
}
