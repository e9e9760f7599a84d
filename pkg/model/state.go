package model

import "sync"

// StateListener is notified when a state cell's value changes.
//
// Notification is synchronous: listeners run on the goroutine that set the
// value, in registration order, before Set/SetText returns. A listener that
// panics does not suppress notification of the remaining listeners; the
// first panic value is re-raised to the caller after all listeners have run.
type StateListener interface {
	// OnStateChange is called with the cell that changed.
	OnStateChange(s *State)
}

// State is a named, observable value slot on a control. It carries a
// numeric reading, an optional textual reading, and a set of change
// listeners.
//
// A cell distinguishes "never set" from zero: Value and TextValue report a
// second result that is false until the first corresponding Set.
//
// State is safe for concurrent use. Listener fan-out runs outside the
// cell's lock on a snapshot of the listener set, so listeners may read the
// cell (or other cells) freely.
type State struct {
	mu        sync.RWMutex
	name      string
	value     float64
	hasValue  bool
	text      string
	hasText   bool
	listeners []StateListener
}

// NewState creates an unset state cell with the given name.
func NewState(name string) *State {
	return &State{name: name}
}

// Name returns the state name, unique within the owning control.
func (s *State) Name() string {
	return s.name
}

// Value returns the numeric reading and whether one was ever set.
func (s *State) Value() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.hasValue
}

// TextValue returns the textual reading and whether one was ever set.
func (s *State) TextValue() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text, s.hasText
}

// Set stores a numeric reading and notifies all listeners.
func (s *State) Set(value float64) {
	s.mu.Lock()
	s.value = value
	s.hasValue = true
	s.mu.Unlock()

	s.notify()
}

// SetText stores a textual reading and notifies all listeners.
func (s *State) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.hasText = true
	s.mu.Unlock()

	s.notify()
}

// AddListener registers a listener for change notifications. Registration
// is idempotent per listener identity: adding the same listener twice does
// not duplicate notifications. It reports whether the listener was newly
// added.
func (s *State) AddListener(l StateListener) bool {
	if l == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.listeners {
		if existing == l {
			return false
		}
	}
	s.listeners = append(s.listeners, l)
	return true
}

// RemoveListener deregisters a listener. Unknown listeners are ignored.
func (s *State) RemoveListener(l StateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// notify invokes every listener in registration order. A panicking listener
// is isolated so the rest still run; the first panic value is re-raised
// once fan-out is complete.
func (s *State) notify() {
	s.mu.RLock()
	listeners := make([]StateListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	var firstPanic any
	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil && firstPanic == nil {
					firstPanic = r
				}
			}()
			l.OnStateChange(s)
		}()
	}
	if firstPanic != nil {
		panic(firstPanic)
	}
}
