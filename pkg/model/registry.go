package model

import (
	"strings"
	"sync"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

// Constructor builds a concrete control variant from its description.
// The constructor must apply the initial description itself (typically by
// calling Update) and may return nil to reject the description.
type Constructor func(cmd Commander, id Identity, desc *wire.ControlDescription, room, cat *Container) Control

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register binds a hub type tag to a constructor. Tags are matched
// case-insensitively. Registering an already-bound tag replaces the
// previous constructor; the built-in variants are registered at init.
func Register(typeTag string, fn Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(typeTag)] = fn
}

// newControl dispatches construction on the description's type tag.
// Unknown tags yield nil: the caller skips the node rather than failing
// the whole update pass.
func newControl(cmd Commander, id Identity, desc *wire.ControlDescription, room, cat *Container) Control {
	registryMu.RLock()
	fn, ok := registry[strings.ToLower(desc.Type)]
	registryMu.RUnlock()

	if !ok {
		return nil
	}
	return fn(cmd, id, desc, room, cat)
}

func init() {
	Register(TypeLightController, newLightController)
	Register(TypeSwitch, newSwitch)
	Register(TypeTimedSwitch, newSwitch)
	Register(TypeInfoOnlyDigital, newInfoOnly)
	Register(TypeInfoOnlyAnalog, newInfoOnly)
	Register(TypeShade, newShade)
}
