package model

import (
	"testing"

	"github.com/lumen-home/lumen-go/pkg/wire"
)

func structureFile() *wire.StructureFile {
	scenes := `0="Off",1="Reading"`
	return &wire.StructureFile{
		HubInfo: wire.HubInfo{SerialNumber: "504F11223344", Name: "Main Hub"},
		Rooms: map[string]*wire.Container{
			"room-1": {UUID: "room-1", Name: "Living Room"},
			"room-2": {UUID: "room-2", Name: "Kitchen"},
		},
		Categories: map[string]*wire.Container{
			"cat-1": {UUID: "cat-1", Name: "Lighting", Kind: "lights"},
		},
		Controls: map[string]*wire.ControlDescription{
			"ctl-1": {
				UUIDAction: "ctl-1",
				Name:       "Living Room Light",
				Type:       "LightController",
				Room:       "room-1",
				Cat:        "cat-1",
				States: map[string]wire.StateValue{
					StateSceneList: {Text: &scenes},
				},
			},
			"ctl-2": {
				UUIDAction: "ctl-2",
				Name:       "Kitchen Socket",
				Type:       "Switch",
				Room:       "room-2",
			},
		},
	}
}

func TestHubApplyStructure(t *testing.T) {
	cmd := &recordingCommander{}
	hub := NewHub(cmd)
	hub.ApplyStructure(structureFile())

	t.Run("Info", func(t *testing.T) {
		if hub.Info().SerialNumber != "504F11223344" {
			t.Errorf("serial = %q", hub.Info().SerialNumber)
		}
	})

	t.Run("Rooms", func(t *testing.T) {
		rooms := hub.Rooms()
		if len(rooms) != 2 {
			t.Fatalf("expected 2 rooms, got %d", len(rooms))
		}
		// Sorted by name.
		if rooms[0].Name() != "Kitchen" || rooms[1].Name() != "Living Room" {
			t.Errorf("unexpected room order: %s, %s", rooms[0].Name(), rooms[1].Name())
		}
	})

	t.Run("Classification", func(t *testing.T) {
		ctrl, ok := hub.Control(NewIdentity("ctl-1"))
		if !ok {
			t.Fatal("ctl-1 missing")
		}
		if ctrl.Room() == nil || ctrl.Room().Name() != "Living Room" {
			t.Errorf("room = %v", ctrl.Room())
		}
		if ctrl.Category() == nil || ctrl.Category().Kind() != "lights" {
			t.Errorf("category = %v", ctrl.Category())
		}
	})

	t.Run("VariantDispatch", func(t *testing.T) {
		ctrl, _ := hub.Control(NewIdentity("ctl-1"))
		lc, ok := ctrl.(*LightController)
		if !ok {
			t.Fatalf("ctl-1 is %T, want *LightController", ctrl)
		}
		if lc.SceneNames()["1"] != "Reading" {
			t.Errorf("scene table not parsed on construction: %v", lc.SceneNames())
		}
	})
}

func TestHubReapplyPreservesIdentity(t *testing.T) {
	cmd := &recordingCommander{}
	hub := NewHub(cmd)
	hub.ApplyStructure(structureFile())

	before, _ := hub.Control(NewIdentity("ctl-1"))
	roomBefore, _ := hub.Room(NewIdentity("room-1"))

	hub.ApplyStructure(structureFile())

	after, _ := hub.Control(NewIdentity("ctl-1"))
	roomAfter, _ := hub.Room(NewIdentity("room-1"))

	if before != after {
		t.Error("control recreated by an identical structure push")
	}
	if roomBefore != roomAfter {
		t.Error("room container recreated by an identical structure push")
	}
}

func TestHubRemovesAbsentObjects(t *testing.T) {
	cmd := &recordingCommander{}
	hub := NewHub(cmd)
	hub.ApplyStructure(structureFile())

	next := structureFile()
	delete(next.Controls, "ctl-2")
	delete(next.Rooms, "room-2")
	hub.ApplyStructure(next)

	if _, ok := hub.Control(NewIdentity("ctl-2")); ok {
		t.Error("removed control still reachable")
	}
	if _, ok := hub.Room(NewIdentity("room-2")); ok {
		t.Error("removed room still reachable")
	}
	if len(hub.Controls()) != 1 {
		t.Errorf("expected 1 control, got %d", len(hub.Controls()))
	}
}

func TestHubFindControlDeep(t *testing.T) {
	cmd := &recordingCommander{}
	hub := NewHub(cmd)

	sf := structureFile()
	sf.Controls["ctl-1"].SubControls = map[string]*wire.ControlDescription{
		"sub-1": {UUIDAction: "sub-1", Name: "Ceiling", Type: "Switch"},
	}
	hub.ApplyStructure(sf)

	if _, ok := hub.Control(NewIdentity("sub-1")); ok {
		t.Error("sub-control should not appear top-level")
	}
	ctrl, ok := hub.FindControl(NewIdentity("sub-1"))
	if !ok {
		t.Fatal("FindControl did not reach the sub-control")
	}
	if ctrl.Name() != "Ceiling" {
		t.Errorf("found %q, want Ceiling", ctrl.Name())
	}
}
