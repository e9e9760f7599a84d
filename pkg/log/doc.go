// Package log captures protocol events from the hub connection.
//
// The transport emits one Event per interesting occurrence: connection
// state changes, authentication steps, outgoing actions, incoming
// structure pushes, keepalives and errors. Applications choose where the
// events go by passing a Logger implementation:
//
//   - NoopLogger discards everything (the default),
//   - SlogAdapter forwards events to a slog.Logger for console debugging,
//   - FileLogger streams events to a capture file in compact CBOR,
//   - MultiLogger fans out to several of the above.
//
// Capture files use integer-keyed CBOR so long sessions stay small; use
// ReadAll to load one back for analysis.
package log
