package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleEvent() Event {
	return Event{
		Timestamp:    time.Date(2026, 8, 1, 12, 0, 0, 123456789, time.UTC),
		ConnectionID: "9b2c1e50-1111-2222-3333-444455556666",
		Direction:    DirectionOut,
		Category:     CategoryAction,
		RemoteAddr:   "192.168.1.20:8080",
		Control:      "0f86a2fe-0378-3e15-ffff-112233445566",
		Action:       "On",
	}
}

func TestEventRoundTrip(t *testing.T) {
	event := sampleEvent()

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("timestamp %v, want %v", decoded.Timestamp, event.Timestamp)
	}
	if decoded.Control != event.Control || decoded.Action != event.Action {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Category != CategoryAction || decoded.Direction != DirectionOut {
		t.Errorf("category/direction lost: %+v", decoded)
	}
}

func TestFileLoggerCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.capture")

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	fl.Log(sampleEvent())
	errEvent := sampleEvent()
	errEvent.Category = CategoryError
	errEvent.Err = &ErrorEvent{Op: "send", Message: "connection closed"}
	fl.Log(errEvent)

	if err := fl.Close(); err != nil {
		t.Fatal(err)
	}
	// Logging after Close is discarded, not a crash.
	fl.Log(sampleEvent())

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	events, err := ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 captured events, got %d", len(events))
	}
	if events[1].Err == nil || events[1].Err.Op != "send" {
		t.Errorf("error payload lost: %+v", events[1])
	}
}

func TestMultiLoggerFanOut(t *testing.T) {
	var first, second []Event
	m := NewMultiLogger(
		loggerFunc(func(e Event) { first = append(first, e) }),
		nil,
		loggerFunc(func(e Event) { second = append(second, e) }),
	)

	m.Log(sampleEvent())

	if len(first) != 1 || len(second) != 1 {
		t.Errorf("fan-out reached %d/%d loggers, want 1/1", len(first), len(second))
	}
}

type loggerFunc func(Event)

func (f loggerFunc) Log(e Event) { f(e) }

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	adapter.Log(sampleEvent())

	out := buf.String()
	for _, want := range []string{"ACTION", "0f86a2fe", "action=On"} {
		if !strings.Contains(out, want) {
			t.Errorf("slog output missing %q: %s", want, out)
		}
	}
}
