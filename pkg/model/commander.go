package model

// Commander is the one operation the model requires from the transport
// layer: deliver a single action string addressed to one identity.
//
// Implementations return an error when the channel is down or the write
// fails; the model never retries — retry policy, if any, belongs to the
// transport. transport.Client satisfies this interface.
type Commander interface {
	// SendAction sends an action string addressed to the given identity.
	SendAction(id Identity, action string) error
}

// CommanderFunc adapts a function to the Commander interface.
type CommanderFunc func(id Identity, action string) error

// SendAction calls f.
func (f CommanderFunc) SendAction(id Identity, action string) error {
	return f(id, action)
}
