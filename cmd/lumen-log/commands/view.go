// Package commands implements the lumen-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lumen-home/lumen-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Direction *log.Direction
	Category  *log.Category
}

func (f ViewFilter) matches(event log.Event) bool {
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	return true
}

// RunView prints a capture file in human-readable form.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	events, err := readCapture(path)
	if err != nil {
		return err
	}

	for _, event := range events {
		if !filter.matches(event) {
			continue
		}
		formatEvent(w, event)
	}
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)
	dir := event.Direction.String()

	fmt.Fprintf(w, "%s [conn:%s] %-3s %s\n", ts, connID, dir, event.Category)

	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s\n", event.RemoteAddr)
	}

	switch {
	case event.Control != "":
		fmt.Fprintf(w, "  Control: %s\n", event.Control)
		if event.Action != "" {
			fmt.Fprintf(w, "  Action: %s\n", event.Action)
		}
	case event.Structure != nil:
		fmt.Fprintf(w, "  Size: %d bytes, %d controls\n",
			event.Structure.Bytes, event.Structure.Controls)
	case event.StateChange != nil:
		fmt.Fprintf(w, "  %s -> %s\n", event.StateChange.OldState, event.StateChange.NewState)
		if event.StateChange.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", event.StateChange.Reason)
		}
	case event.Err != nil:
		fmt.Fprintf(w, "  Op: %s\n", event.Err.Op)
		fmt.Fprintf(w, "  Message: %s\n", event.Err.Message)
	}

	fmt.Fprintln(w)
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// ParseDirectionFlag parses a -direction flag value.
func ParseDirectionFlag(s string) (*log.Direction, error) {
	var d log.Direction
	switch strings.ToLower(s) {
	case "in":
		d = log.DirectionIn
	case "out":
		d = log.DirectionOut
	default:
		return nil, fmt.Errorf("unknown direction: %s (use: in, out)", s)
	}
	return &d, nil
}

// ParseCategoryFlag parses a -category flag value.
func ParseCategoryFlag(s string) (*log.Category, error) {
	var c log.Category
	switch strings.ToLower(s) {
	case "connection":
		c = log.CategoryConnection
	case "auth":
		c = log.CategoryAuth
	case "action":
		c = log.CategoryAction
	case "structure":
		c = log.CategoryStructure
	case "keepalive":
		c = log.CategoryKeepalive
	case "error":
		c = log.CategoryError
	default:
		return nil, fmt.Errorf("unknown category: %s", s)
	}
	return &c, nil
}

// readCapture loads all events from a capture file.
func readCapture(path string) ([]log.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	events, err := log.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return events, nil
}
