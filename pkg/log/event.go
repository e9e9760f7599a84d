package log

import "time"

// Event is one protocol occurrence on the hub connection.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the connection (UUID, stable across
	// reconnect attempts of the same client).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction of the message flow, if the event concerns a message.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// RemoteAddr is the hub address.
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// Control is the identity an action was addressed to.
	Control string `cbor:"6,keyasint,omitempty"`

	// Action is the action token sent to the control.
	Action string `cbor:"7,keyasint,omitempty"`

	// Type-specific payloads; at most one is set.
	Structure   *StructureEvent   `cbor:"8,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`
	Err         *ErrorEvent       `cbor:"10,keyasint,omitempty"`
}

// Direction indicates message flow.
type Direction uint8

const (
	// DirectionNone marks events that are not tied to a message.
	DirectionNone Direction = 0
	// DirectionIn marks messages received from the hub.
	DirectionIn Direction = 1
	// DirectionOut marks messages sent to the hub.
	DirectionOut Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionNone:
		return "-"
	default:
		return "UNKNOWN"
	}
}

// Category classifies an event.
type Category uint8

const (
	// CategoryConnection marks connection state transitions.
	CategoryConnection Category = 1
	// CategoryAuth marks authentication handshake steps.
	CategoryAuth Category = 2
	// CategoryAction marks outgoing control actions.
	CategoryAction Category = 3
	// CategoryStructure marks incoming structure pushes.
	CategoryStructure Category = 4
	// CategoryKeepalive marks keepalive traffic.
	CategoryKeepalive Category = 5
	// CategoryError marks failures at any layer.
	CategoryError Category = 6
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryConnection:
		return "CONNECTION"
	case CategoryAuth:
		return "AUTH"
	case CategoryAction:
		return "ACTION"
	case CategoryStructure:
		return "STRUCTURE"
	case CategoryKeepalive:
		return "KEEPALIVE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StructureEvent describes an incoming structure push.
type StructureEvent struct {
	// Bytes is the size of the JSON payload.
	Bytes int `cbor:"1,keyasint"`

	// Controls is the number of top-level controls in the push.
	Controls int `cbor:"2,keyasint"`
}

// StateChangeEvent describes a connection state transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint"`
	NewState string `cbor:"2,keyasint"`
	Reason   string `cbor:"3,keyasint,omitempty"`
}

// ErrorEvent describes a failure.
type ErrorEvent struct {
	// Op names the operation that failed (e.g. "dial", "send").
	Op string `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`
}
