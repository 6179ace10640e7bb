package events

import (
	"log/slog"
	"sort"
)

// Log emits events through a slog.Logger, one record per event with the
// event label first and the remaining fields in sorted key order so output
// is stable across runs.
type Log struct {
	l *slog.Logger
}

var _ Emitter = (*Log)(nil)

// NewLog wraps the given logger. A nil logger falls back to slog.Default.
func NewLog(l *slog.Logger) *Log {
	if l == nil {
		l = slog.Default()
	}
	return &Log{l: l}
}

func (e *Log) Trade(action string, f Fields)      { e.emit("trade", "action", action, f) }
func (e *Log) Signal(kind string, f Fields)       { e.emit("signal", "type", kind, f) }
func (e *Log) Risk(event string, f Fields)        { e.emit("risk", "event", event, f) }
func (e *Log) Performance(label string, f Fields) { e.emit("performance", "label", label, f) }

func (e *Log) Warn(msg string, f Fields) {
	e.l.Warn(msg, flatten(f)...)
}

func (e *Log) emit(msg, labelKey, label string, f Fields) {
	args := make([]any, 0, 2+2*len(f))
	args = append(args, labelKey, label)
	args = append(args, flatten(f)...)
	e.l.Info(msg, args...)
}

func flatten(f Fields) []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, 2*len(f))
	for _, k := range keys {
		args = append(args, k, f[k])
	}
	return args
}
