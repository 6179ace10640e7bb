package market

import (
	"fmt"
	"time"
)

// Consolidator aggregates fixed-span input bars (normally one-minute bars)
// into wider windows and invokes the handler once per completed window.
//
// A window [W, W+window) completes as soon as the input bar closing at or
// past W+window has been merged, so the handler fires while that final input
// bar is being processed. If the feed gaps over a window boundary, the
// partial window is flushed before the new one is started. A trailing
// partial window at end of feed is never emitted.
type Consolidator struct {
	window  time.Duration
	barSpan time.Duration
	handler func(Bar)

	current *Bar
	end     time.Time
}

// NewConsolidator builds a consolidator for the given window. barSpan is the
// span of the input bars. The handler must not be nil.
func NewConsolidator(window, barSpan time.Duration, handler func(Bar)) (*Consolidator, error) {
	if window <= 0 || barSpan <= 0 {
		return nil, fmt.Errorf("consolidator: window and bar span must be positive, got %v/%v", window, barSpan)
	}
	if window < barSpan {
		return nil, fmt.Errorf("consolidator: window %v narrower than bar span %v", window, barSpan)
	}
	if handler == nil {
		return nil, fmt.Errorf("consolidator: nil handler")
	}
	return &Consolidator{
		window:  window,
		barSpan: barSpan,
		handler: handler,
	}, nil
}

// Update merges one input bar. Bars must arrive in non-decreasing time order.
func (c *Consolidator) Update(b Bar) {
	if c.current != nil && !b.Time.Before(c.end) {
		c.emit()
	}

	if c.current == nil {
		start := b.Time.Truncate(c.window)
		merged := b
		merged.Time = start
		c.current = &merged
		c.end = start.Add(c.window)
	} else {
		if b.High > c.current.High {
			c.current.High = b.High
		}
		if b.Low < c.current.Low {
			c.current.Low = b.Low
		}
		c.current.Close = b.Close
		c.current.Volume += b.Volume
	}

	// The window is done once this bar's close time reaches the window end.
	if !b.Time.Add(c.barSpan).Before(c.end) {
		c.emit()
	}
}

func (c *Consolidator) emit() {
	done := *c.current
	c.current = nil
	c.handler(done)
}
