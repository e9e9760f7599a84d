package transport

// State is the connection lifecycle state of a Client.
type State uint8

const (
	// StateDisconnected means no connection and no attempt in progress.
	StateDisconnected State = iota

	// StateConnecting means the initial dial is in progress.
	StateConnecting

	// StateConnected means the hub link is up and authenticated.
	StateConnected

	// StateReconnecting means the link dropped and redialing is in
	// progress.
	StateReconnecting

	// StateClosed means the client was closed and will not reconnect.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
