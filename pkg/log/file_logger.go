package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger streams events to a capture file as a CBOR sequence.
// Events that fail to encode are dropped; logging must never take the
// connection down.
type FileLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *cbor.Encoder
}

// NewFileLogger creates or truncates a capture file at path.
func NewFileLogger(path string) (*FileLogger, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture file: %w", err)
	}
	return &FileLogger{
		file: file,
		enc:  NewEncoder(file),
	}, nil
}

// Log appends the event to the capture file.
func (f *FileLogger) Log(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return
	}
	_ = f.enc.Encode(event)
}

// Close flushes and closes the capture file. Further Log calls are
// discarded.
func (f *FileLogger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

var _ Logger = (*FileLogger)(nil)
