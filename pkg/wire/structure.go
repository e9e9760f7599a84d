package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// StructureFile is the full object tree description pushed by the hub.
type StructureFile struct {
	// LastModified is the hub's configuration timestamp, as sent.
	LastModified string `json:"lastModified,omitempty"`

	// HubInfo identifies the hub installation.
	HubInfo HubInfo `json:"hubInfo"`

	// Rooms indexed by room UUID.
	Rooms map[string]*Container `json:"rooms,omitempty"`

	// Categories indexed by category UUID.
	Categories map[string]*Container `json:"cats,omitempty"`

	// Controls indexed by control UUID. Only top-level controls appear
	// here; nested ones live in each control's SubControls.
	Controls map[string]*ControlDescription `json:"controls,omitempty"`
}

// HubInfo carries hub identification from the structure file header.
type HubInfo struct {
	SerialNumber string `json:"serialNr,omitempty"`
	Name         string `json:"hubName,omitempty"`
	ProjectName  string `json:"projectName,omitempty"`
	Version      string `json:"swVersion,omitempty"`
}

// Container describes a room or a category.
type Container struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`

	// Kind is only set for categories (e.g. "lights", "shading").
	Kind string `json:"type,omitempty"`
}

// ControlDescription describes one control node, possibly with nested
// sub-controls. The same shape is used at every depth of the tree.
type ControlDescription struct {
	// UUIDAction is the identity commands are addressed to.
	UUIDAction string `json:"uuidAction"`

	// Name is the display name configured on the hub.
	Name string `json:"name"`

	// Type selects the control variant (e.g. "lightcontroller", "switch").
	Type string `json:"type"`

	// Room and Cat are UUID references into the structure file's rooms
	// and categories. A parent control's references are force-applied to
	// its sub-controls during tree sync.
	Room string `json:"room,omitempty"`
	Cat  string `json:"cat,omitempty"`

	// Details carries variant-specific configuration.
	Details *Details `json:"details,omitempty"`

	// States maps state names to their current readings.
	States map[string]StateValue `json:"states,omitempty"`

	// SubControls indexed by sub-control UUID.
	SubControls map[string]*ControlDescription `json:"subControls,omitempty"`
}

// Details holds variant-specific configuration fields. Only the fields a
// given control type uses are populated.
type Details struct {
	// MovementScene is the scene index a motion sensor activates
	// (light controllers only). Nil when the hub designates none.
	MovementScene *int `json:"movementScene,omitempty"`

	// Format is a printf-style format for rendering analog readings.
	Format string `json:"format,omitempty"`
}

// StateValue is one state reading. On the wire it may be a JSON number,
// a JSON string, or an object with "value" and/or "text" members.
type StateValue struct {
	// Value is the numeric reading, if present.
	Value *float64

	// Text is the textual reading, if present.
	Text *string
}

// UnmarshalJSON accepts the three wire shapes of a state reading.
func (s *StateValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = StateValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		s.Text = &text
		return nil

	case '{':
		var obj struct {
			Value *float64 `json:"value"`
			Text  *string  `json:"text"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		s.Value = obj.Value
		s.Text = obj.Text
		return nil

	default:
		var value float64
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		s.Value = &value
		return nil
	}
}

// MarshalJSON emits the most compact wire shape for the reading.
func (s StateValue) MarshalJSON() ([]byte, error) {
	switch {
	case s.Value != nil && s.Text != nil:
		return json.Marshal(struct {
			Value *float64 `json:"value"`
			Text  *string  `json:"text"`
		}{s.Value, s.Text})
	case s.Text != nil:
		return json.Marshal(*s.Text)
	case s.Value != nil:
		return json.Marshal(*s.Value)
	default:
		return []byte("null"), nil
	}
}

// Decode reads a structure file from r.
func Decode(r io.Reader) (*StructureFile, error) {
	var sf StructureFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("failed to decode structure file: %w", err)
	}
	return &sf, nil
}

// DecodeBytes decodes a structure file from a byte slice.
func DecodeBytes(data []byte) (*StructureFile, error) {
	return Decode(bytes.NewReader(data))
}
