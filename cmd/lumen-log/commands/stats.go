package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/lumen-home/lumen-go/pkg/log"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Connections       map[string]*ConnectionStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	Actions    int
	Structures int
	RemoteAddr string
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	events, err := readCapture(path)
	if err != nil {
		return err
	}

	stats := collectStats(events)
	printStats(w, stats)
	return nil
}

func collectStats(events []log.Event) *Stats {
	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Connections:       make(map[string]*ConnectionStats),
	}

	for _, event := range events {
		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++
		if event.Category == log.CategoryError {
			stats.Errors++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.ConnectionID == "" {
			continue
		}
		conn, ok := stats.Connections[event.ConnectionID]
		if !ok {
			conn = &ConnectionStats{FirstSeen: event.Timestamp}
			stats.Connections[event.ConnectionID] = conn
		}
		conn.Events++
		conn.LastSeen = event.Timestamp
		if event.RemoteAddr != "" {
			conn.RemoteAddr = event.RemoteAddr
		}
		switch event.Category {
		case log.CategoryAction:
			conn.Actions++
		case log.CategoryStructure:
			conn.Structures++
		}
	}

	return stats
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if stats.TotalEvents == 0 {
		return
	}

	fmt.Fprintf(w, "Time range:   %s to %s (%s)\n",
		stats.TimeRange.Start.UTC().Format(time.RFC3339),
		stats.TimeRange.End.UTC().Format(time.RFC3339),
		stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
	fmt.Fprintf(w, "Errors:       %d\n", stats.Errors)

	fmt.Fprintln(w, "\nBy category:")
	categories := make([]log.Category, 0, len(stats.EventsByCategory))
	for c := range stats.EventsByCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, c := range categories {
		fmt.Fprintf(w, "  %-12s %d\n", c.String(), stats.EventsByCategory[c])
	}

	fmt.Fprintln(w, "\nConnections:")
	ids := make([]string, 0, len(stats.Connections))
	for id := range stats.Connections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		conn := stats.Connections[id]
		fmt.Fprintf(w, "  %s\n", shortenConnID(id))
		if conn.RemoteAddr != "" {
			fmt.Fprintf(w, "    remote:     %s\n", conn.RemoteAddr)
		}
		fmt.Fprintf(w, "    events:     %d\n", conn.Events)
		fmt.Fprintf(w, "    actions:    %d\n", conn.Actions)
		fmt.Fprintf(w, "    structures: %d\n", conn.Structures)
		fmt.Fprintf(w, "    duration:   %s\n",
			conn.LastSeen.Sub(conn.FirstSeen).Round(time.Millisecond))
	}
}
