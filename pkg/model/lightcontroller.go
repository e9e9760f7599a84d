package model

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

// NumScenes is the number of scenes a light controller supports.
// Scene indices run from 0 to NumScenes-1.
const NumScenes = 10

// SceneAllOn is the reserved scene index meaning "all outputs on".
const SceneAllOn = 9

// TypeLightController is the hub type tag for multi-scene light controllers.
const TypeLightController = "lightcontroller"

// Light controller state names.
const (
	// StateActiveScene carries the currently active scene number (0-9).
	StateActiveScene = "activescene"

	// StateSceneList carries the scene table as comma-separated
	// index="name" entries.
	StateSceneList = "scenelist"
)

// Command tokens the hub accepts for light controllers. These four tokens
// plus the bare decimal scene number are the entire legal vocabulary.
const (
	cmdAllOn         = "On"
	cmdAllOff        = "Off"
	cmdNextScene     = "plus"
	cmdPreviousScene = "minus"
)

// Scene is one entry of a light controller's scene table.
type Scene struct {
	// Index is the scene index token as sent by the hub ("0" to "9").
	Index string

	// Name is the human-readable scene name.
	Name string
}

// LightController is a multi-scene lighting control. It listens to its own
// scene-list state cell, keeps a parsed scene table, and issues the hub's
// scene command vocabulary.
//
// The scene table is rebuilt wholesale on every scene-list push; readers
// never observe a half-updated table. A "names changed" latch reports
// whether the table changed since the last check; reading the latch clears
// it, so only one poller observes each transition.
type LightController struct {
	*BaseControl

	scenesMu         sync.Mutex
	sceneNames       map[string]string
	namesChanged     bool
	movementScene    int
	hasMovementScene bool
}

// LightController receives its own scene-list changes.
var _ StateListener = (*LightController)(nil)

func newLightController(cmd Commander, id Identity, desc *wire.ControlDescription, room, cat *Container) Control {
	lc := &LightController{
		BaseControl: NewBaseControl(cmd, id, TypeLightController),
		sceneNames:  make(map[string]string),
	}
	lc.Update(desc, room, cat)
	return lc
}

// Update applies a fresh description, then refreshes the movement scene
// designation and makes sure the scene-list cell is being listened to.
func (lc *LightController) Update(desc *wire.ControlDescription, room, cat *Container) {
	lc.BaseControl.Update(desc, room, cat)

	if desc.Details != nil {
		lc.scenesMu.Lock()
		if desc.Details.MovementScene != nil {
			lc.movementScene = *desc.Details.MovementScene
			lc.hasMovementScene = true
		} else {
			lc.hasMovementScene = false
		}
		lc.scenesMu.Unlock()
	}

	if cell := lc.State(StateSceneList); cell != nil {
		if cell.AddListener(lc) {
			// First sight of the cell: it was populated before the
			// listener attached, so pick up any table already there.
			lc.OnStateChange(cell)
		}
	}
}

// OnStateChange parses a freshly pushed scene table. Malformed entries
// (not exactly one "=" after quote stripping) are dropped; a duplicate
// index keeps the last entry. The table is replaced as a whole and the
// changed latch is set.
func (lc *LightController) OnStateChange(cell *State) {
	text, ok := cell.TextValue()
	if !ok {
		return
	}

	names := parseSceneList(text)

	lc.scenesMu.Lock()
	lc.sceneNames = names
	lc.namesChanged = true
	lc.scenesMu.Unlock()
}

// parseSceneList parses comma-separated index="name" entries.
func parseSceneList(text string) map[string]string {
	names := make(map[string]string)
	for _, entry := range strings.Split(text, ",") {
		entry = strings.ReplaceAll(entry, `"`, "")
		parts := strings.Split(entry, "=")
		if len(parts) != 2 {
			continue
		}
		names[parts[0]] = parts[1]
	}
	return names
}

// AllOn sets all outputs to on.
func (lc *LightController) AllOn() error {
	return lc.Send(cmdAllOn)
}

// AllOff sets all outputs to off.
func (lc *LightController) AllOff() error {
	return lc.Send(cmdAllOff)
}

// NextScene selects the next scene.
func (lc *LightController) NextScene() error {
	return lc.Send(cmdNextScene)
}

// PreviousScene selects the previous scene.
func (lc *LightController) PreviousScene() error {
	return lc.Send(cmdPreviousScene)
}

// SetScene selects the given scene. Scene 9 is equivalent to AllOn.
// Indices outside [0, 9] are a silent no-op: the hub has no command for
// them, so nothing is sent and no error is returned.
func (lc *LightController) SetScene(scene int) error {
	if scene == SceneAllOn {
		return lc.AllOn()
	}
	if scene >= 0 && scene < NumScenes {
		return lc.Send(strconv.Itoa(scene))
	}
	return nil
}

// CurrentScene returns the active scene index, false if the hub has not
// reported one yet.
func (lc *LightController) CurrentScene() (int, bool) {
	cell := lc.State(StateActiveScene)
	if cell == nil {
		return 0, false
	}
	value, ok := cell.Value()
	if !ok {
		return 0, false
	}
	return int(value), true
}

// MovementScene returns the scene index designated for motion-triggered
// activation, false if the hub designated none.
func (lc *LightController) MovementScene() (int, bool) {
	lc.scenesMu.Lock()
	defer lc.scenesMu.Unlock()
	return lc.movementScene, lc.hasMovementScene
}

// SceneNames returns a copy of the scene table keyed by index token.
func (lc *LightController) SceneNames() map[string]string {
	lc.scenesMu.Lock()
	defer lc.scenesMu.Unlock()

	names := make(map[string]string, len(lc.sceneNames))
	for index, name := range lc.sceneNames {
		names[index] = name
	}
	return names
}

// Scenes returns the scene table ordered by index token.
func (lc *LightController) Scenes() []Scene {
	lc.scenesMu.Lock()
	defer lc.scenesMu.Unlock()

	scenes := make([]Scene, 0, len(lc.sceneNames))
	for index, name := range lc.sceneNames {
		scenes = append(scenes, Scene{Index: index, Name: name})
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Index < scenes[j].Index
	})
	return scenes
}

// SceneNamesUpdated reports whether the scene table changed since the last
// call and clears the latch. The read-and-clear is a single atomic
// operation, but the latch is single-consumer: with multiple pollers only
// one of them observes each transition.
func (lc *LightController) SceneNamesUpdated() bool {
	lc.scenesMu.Lock()
	defer lc.scenesMu.Unlock()

	changed := lc.namesChanged
	lc.namesChanged = false
	return changed
}
