// Package model implements the client-side object tree of a Lumen hub.
//
// # Object tree
//
// The hub describes its configuration as a tree of controls grouped into
// rooms and categories:
//
//	Hub
//	├── Room "Living Room" / Category "Lighting"
//	├── LightController "Living Room Light"
//	│   ├── State "activescene", "scenelist"
//	│   ├── Switch "Ceiling" (sub-control)
//	│   └── Switch "Reading Lamp" (sub-control)
//	└── InfoOnly "Outside Temperature"
//
// Every control has an Identity the hub addresses it by, named State cells
// holding its current readings, and zero or more child controls of
// heterogeneous variants. Variants are chosen by the hub's type tag
// through a constructor registry (see Register).
//
// # Synchronization
//
// The hub pushes full structure files; there are no deltas. Hub.Apply-
// Structure reconciles the existing tree against a push in place: controls
// seen before keep their object identity, so state listeners registered by
// consumers (and by controls on themselves, like LightController's
// scene-list listener) survive every update. Controls missing from a push
// are removed together with their subtrees.
//
// # Commands
//
// Controls issue commands through the Commander interface, the only
// operation the model needs from the transport. Send failures propagate to
// the caller of the command method; the model never retries.
//
// # Concurrency
//
// The model has no goroutines of its own: updates run synchronously on the
// delivering goroutine and state listeners fire inline. All tree and cell
// access is mutex-guarded, so a consumer may read the tree while a push is
// being applied.
package model
