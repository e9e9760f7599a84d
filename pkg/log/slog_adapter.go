package log

import (
	"context"
	"log/slog"
)

// SlogAdapter forwards protocol events to an slog.Logger. Useful during
// development to watch the connection in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps an slog.Logger as an event Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event at Debug level, errors at Error level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("category", event.Category.String()),
	}
	if event.Direction != DirectionNone {
		attrs = append(attrs, slog.String("direction", event.Direction.String()))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}
	if event.Control != "" {
		attrs = append(attrs, slog.String("control", event.Control))
	}
	if event.Action != "" {
		attrs = append(attrs, slog.String("action", event.Action))
	}

	level := slog.LevelDebug
	switch {
	case event.Structure != nil:
		attrs = append(attrs,
			slog.Int("bytes", event.Structure.Bytes),
			slog.Int("controls", event.Structure.Controls),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Err != nil:
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("op", event.Err.Op),
			slog.String("error", event.Err.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "hub "+event.Category.String(), attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
