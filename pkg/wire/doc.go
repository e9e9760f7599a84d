// Package wire defines the JSON structures the Lumen hub sends over its
// websocket connection.
//
// The hub describes its entire object tree in a single "structure file":
// rooms, categories and the full control hierarchy with nested sub-controls
// and current state readings. The hub pushes a fresh structure file whenever
// its configuration changes; there is no delta format. Decoding is lenient:
// unknown fields are ignored so that newer hub firmware does not break
// older clients.
//
// State readings are polymorphic on the wire. A state may arrive as a bare
// number, a bare string, or an object carrying both forms:
//
//	"states": {
//	  "activescene": 2,
//	  "scenelist":   "0=\"Off\",1=\"Reading\"",
//	  "position":    {"value": 0.5, "text": "50%"}
//	}
//
// StateValue normalizes all three shapes.
package wire
