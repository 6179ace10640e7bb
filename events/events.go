// Package events carries the structured records the decision core emits:
// trades, signals, risk breaches and performance snapshots. Components hold
// the narrow Emitter interface and never format or route output themselves.
package events

// Fields is one flat key-value record.
type Fields map[string]any

// Emitter receives structured events from the decision core. Implementations
// decide formatting and destination.
type Emitter interface {
	Trade(action string, f Fields)
	Signal(kind string, f Fields)
	Risk(event string, f Fields)
	Performance(label string, f Fields)
	Warn(msg string, f Fields)
}

// Signal kinds.
const (
	SignalEntry      = "ENTRY"
	SignalIndicators = "INDICATORS"
)

// Nop discards every event.
type Nop struct{}

var _ Emitter = Nop{}

func (Nop) Trade(string, Fields)       {}
func (Nop) Signal(string, Fields)      {}
func (Nop) Risk(string, Fields)        {}
func (Nop) Performance(string, Fields) {}
func (Nop) Warn(string, Fields)        {}
