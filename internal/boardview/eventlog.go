package boardview

import (
	"fmt"
	"strings"

	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// LogEntry is one recorded event.
type LogEntry struct {
	Tick   int
	Kind   EventKind
	Coord  hexgeo.Coord
	Button Button
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] 0203  BOARD_HEX_CLICKED
func (e LogEntry) String() string {
	at := "----"
	if e.Coord != hexgeo.Invalid {
		at = e.Coord.BoardNum()
	}
	return fmt.Sprintf("[T=%03d] %-5s %s", e.Tick, at, e.Kind)
}

// EventLog collects every event a BoardView emits. Tests and the report
// tool read it back; it is unbounded.
type EventLog struct {
	entries []LogEntry
}

// NewEventLog returns an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Record is a Listener.
func (el *EventLog) Record(e Event) {
	el.entries = append(el.entries, LogEntry{Tick: e.Tick, Kind: e.Kind, Coord: e.Coord, Button: e.Button})
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []LogEntry {
	return el.entries
}

// Filter returns the entries of the given kind.
func (el *EventLog) Filter(kind EventKind) []LogEntry {
	var out []LogEntry
	for _, e := range el.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries have the given kind.
func (el *EventLog) Count(kind EventKind) int {
	return len(el.Filter(kind))
}

// LastOf returns the most recent entry of kind, or false if none.
func (el *EventLog) LastOf(kind EventKind) (LogEntry, bool) {
	entries := el.Filter(kind)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry reports whether an entry of kind was recorded at c.
func (el *EventLog) HasEntry(kind EventKind, c hexgeo.Coord) bool {
	for _, e := range el.entries {
		if e.Kind == kind && e.Coord == c {
			return true
		}
	}
	return false
}

// Tail returns the last n entries, oldest first.
func (el *EventLog) Tail(n int) []LogEntry {
	if n >= len(el.entries) {
		return el.entries
	}
	return el.entries[len(el.entries)-n:]
}

// Reset drops every entry.
func (el *EventLog) Reset() {
	el.entries = nil
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
