// Package transport maintains the persistent websocket connection to a
// Lumen hub.
//
// The hub speaks a small text-frame protocol:
//
//	client → hub   "getkey"
//	hub → client   {"authKey": {"salt": …, "challenge": …, "iterations": …}}
//	client → hub   "authenticate/<user>/<token>"
//	hub → client   {"status": 200}
//	client → hub   "<uuid>/<action>"        (commands)
//	hub → client   {…structure file…}       (full-state pushes)
//	both ways      "keepalive" / {"keepalive": true}
//
// The token is an HMAC-SHA256 over the user and challenge, keyed with a
// PBKDF2 derivation of the password, so credentials never travel in the
// clear even on plaintext connections.
//
// Client implements model.Commander; commands are fire-and-forget and a
// failed write is returned to the caller without retry. Incoming structure
// pushes are delivered to the OnStructure callback on the read goroutine —
// wire it to model.Hub.ApplyStructure.
//
// With AutoReconnect enabled the client redials after a connection loss
// using jittered exponential backoff, re-authenticating each time. The hub
// pushes a full structure file after every successful handshake, so the
// model resynchronizes without client-side bookkeeping.
package transport
