package wire

import (
	"strings"
	"testing"
)

const sampleStructure = `{
  "lastModified": "2026-08-01 11:22:33",
  "hubInfo": {
    "serialNr": "504F11223344",
    "hubName": "Main Hub",
    "projectName": "Demo House",
    "swVersion": "12.4.1.18"
  },
  "rooms": {
    "0b2f1a3c-0078-1a2b-ffff112233445566": {
      "uuid": "0b2f1a3c-0078-1a2b-ffff112233445566",
      "name": "Living Room"
    }
  },
  "cats": {
    "0c9e4d21-0033-2c1d-ffff112233445566": {
      "uuid": "0c9e4d21-0033-2c1d-ffff112233445566",
      "name": "Lighting",
      "type": "lights"
    }
  },
  "controls": {
    "0f86a2fe-0378-3e15-ffff112233445566": {
      "uuidAction": "0f86a2fe-0378-3e15-ffff112233445566",
      "name": "Living Room Light",
      "type": "LightController",
      "room": "0b2f1a3c-0078-1a2b-ffff112233445566",
      "cat": "0c9e4d21-0033-2c1d-ffff112233445566",
      "details": {"movementScene": 3},
      "states": {
        "activescene": 2,
        "scenelist": "0=\"Off\",1=\"Reading\",9=\"All On\""
      },
      "subControls": {
        "0f86a2fe-0378-3e15-ffff112233445567": {
          "uuidAction": "0f86a2fe-0378-3e15-ffff112233445567",
          "name": "Ceiling",
          "type": "Switch",
          "states": {"active": {"value": 1, "text": "on"}}
        }
      }
    }
  }
}`

func TestDecodeStructure(t *testing.T) {
	sf, err := Decode(strings.NewReader(sampleStructure))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	t.Run("HubInfo", func(t *testing.T) {
		if sf.HubInfo.SerialNumber != "504F11223344" {
			t.Errorf("serial = %q, want 504F11223344", sf.HubInfo.SerialNumber)
		}
		if sf.HubInfo.Name != "Main Hub" {
			t.Errorf("hub name = %q, want Main Hub", sf.HubInfo.Name)
		}
	})

	t.Run("Rooms", func(t *testing.T) {
		if len(sf.Rooms) != 1 {
			t.Fatalf("expected 1 room, got %d", len(sf.Rooms))
		}
		room := sf.Rooms["0b2f1a3c-0078-1a2b-ffff112233445566"]
		if room == nil || room.Name != "Living Room" {
			t.Errorf("unexpected room: %+v", room)
		}
	})

	t.Run("Categories", func(t *testing.T) {
		cat := sf.Categories["0c9e4d21-0033-2c1d-ffff112233445566"]
		if cat == nil {
			t.Fatal("category missing")
		}
		if cat.Kind != "lights" {
			t.Errorf("kind = %q, want lights", cat.Kind)
		}
	})

	t.Run("Controls", func(t *testing.T) {
		ctrl := sf.Controls["0f86a2fe-0378-3e15-ffff112233445566"]
		if ctrl == nil {
			t.Fatal("control missing")
		}
		if ctrl.Type != "LightController" {
			t.Errorf("type = %q, want LightController", ctrl.Type)
		}
		if ctrl.Details == nil || ctrl.Details.MovementScene == nil {
			t.Fatal("details.movementScene missing")
		}
		if *ctrl.Details.MovementScene != 3 {
			t.Errorf("movementScene = %d, want 3", *ctrl.Details.MovementScene)
		}
	})

	t.Run("NumericState", func(t *testing.T) {
		ctrl := sf.Controls["0f86a2fe-0378-3e15-ffff112233445566"]
		st, ok := ctrl.States["activescene"]
		if !ok || st.Value == nil {
			t.Fatal("activescene value missing")
		}
		if *st.Value != 2 {
			t.Errorf("activescene = %v, want 2", *st.Value)
		}
		if st.Text != nil {
			t.Errorf("activescene text = %q, want none", *st.Text)
		}
	})

	t.Run("TextState", func(t *testing.T) {
		ctrl := sf.Controls["0f86a2fe-0378-3e15-ffff112233445566"]
		st, ok := ctrl.States["scenelist"]
		if !ok || st.Text == nil {
			t.Fatal("scenelist text missing")
		}
		if *st.Text != `0="Off",1="Reading",9="All On"` {
			t.Errorf("scenelist = %q", *st.Text)
		}
	})

	t.Run("ObjectState", func(t *testing.T) {
		sub := sf.Controls["0f86a2fe-0378-3e15-ffff112233445566"].
			SubControls["0f86a2fe-0378-3e15-ffff112233445567"]
		if sub == nil {
			t.Fatal("sub-control missing")
		}
		st := sub.States["active"]
		if st.Value == nil || *st.Value != 1 {
			t.Errorf("active value = %v, want 1", st.Value)
		}
		if st.Text == nil || *st.Text != "on" {
			t.Errorf("active text = %v, want on", st.Text)
		}
	})
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(strings.NewReader("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestStateValueNull(t *testing.T) {
	var sv StateValue
	if err := sv.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("null unmarshal failed: %v", err)
	}
	if sv.Value != nil || sv.Text != nil {
		t.Errorf("null should decode to empty reading, got %+v", sv)
	}
}
