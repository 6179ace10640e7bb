package events

// Event is one captured record.
type Event struct {
	Kind   string // "trade", "signal", "risk", "performance" or "warn"
	Label  string
	Fields Fields
}

// Capture records every event in order. Intended for tests and for the
// backtest runner's post-run inspection. Not safe for concurrent use, which
// matches the single-threaded core.
type Capture struct {
	Events []Event
}

var _ Emitter = (*Capture)(nil)

func (c *Capture) Trade(action string, f Fields)      { c.add("trade", action, f) }
func (c *Capture) Signal(kind string, f Fields)       { c.add("signal", kind, f) }
func (c *Capture) Risk(event string, f Fields)        { c.add("risk", event, f) }
func (c *Capture) Performance(label string, f Fields) { c.add("performance", label, f) }
func (c *Capture) Warn(msg string, f Fields)          { c.add("warn", msg, f) }

func (c *Capture) add(kind, label string, f Fields) {
	cp := make(Fields, len(f))
	for k, v := range f {
		cp[k] = v
	}
	c.Events = append(c.Events, Event{Kind: kind, Label: label, Fields: cp})
}

// ByKind returns the captured events of one kind, in emission order.
func (c *Capture) ByKind(kind string) []Event {
	var out []Event
	for _, ev := range c.Events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Labels returns the label of every captured event of one kind.
func (c *Capture) Labels(kind string) []string {
	var out []string
	for _, ev := range c.ByKind(kind) {
		out = append(out, ev.Label)
	}
	return out
}
