package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lumen-home/lumen-go/pkg/log"
)

// exportRecord is the JSONL shape of one event. Enum fields are exported
// as their string names so the output is greppable.
type exportRecord struct {
	Timestamp    string `json:"ts"`
	ConnectionID string `json:"conn,omitempty"`
	Direction    string `json:"dir,omitempty"`
	Category     string `json:"category"`
	RemoteAddr   string `json:"remote,omitempty"`
	Control      string `json:"control,omitempty"`
	Action       string `json:"action,omitempty"`

	Structure   *log.StructureEvent   `json:"structure,omitempty"`
	StateChange *log.StateChangeEvent `json:"stateChange,omitempty"`
	Err         *log.ErrorEvent       `json:"error,omitempty"`
}

// RunExport writes the capture as one JSON object per line.
func RunExport(path string, w io.Writer) error {
	events, err := readCapture(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for _, event := range events {
		rec := exportRecord{
			Timestamp:    event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			ConnectionID: event.ConnectionID,
			Category:     event.Category.String(),
			RemoteAddr:   event.RemoteAddr,
			Control:      event.Control,
			Action:       event.Action,
			Structure:    event.Structure,
			StateChange:  event.StateChange,
			Err:          event.Err,
		}
		if event.Direction != log.DirectionNone {
			rec.Direction = event.Direction.String()
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}
