// Package position tracks the strategy's single position as a two-state
// machine: FLAT or OPEN. The tracker cycles between the two for the life of
// the run and is mutated only by the decision core.
package position

import (
	"fmt"
	"time"
)

// Status of the tracked position.
type Status string

const (
	Flat Status = "FLAT"
	Open Status = "OPEN"
)

// Tracker holds the open position's entry data and the running trade count.
// Entry price and time are set exactly while the status is OPEN.
type Tracker struct {
	status     Status
	entryPrice float64
	entryTime  time.Time
	tradeCount int
}

// NewTracker returns a tracker in the FLAT state.
func NewTracker() *Tracker {
	return &Tracker{status: Flat}
}

func (t *Tracker) Status() Status { return t.status }
func (t *Tracker) IsOpen() bool   { return t.status == Open }

// EntryPrice is zero while FLAT.
func (t *Tracker) EntryPrice() float64 { return t.entryPrice }

// EntryTime is the zero time while FLAT.
func (t *Tracker) EntryTime() time.Time { return t.entryTime }

// TradeCount is incremented on every entry and never decreases.
func (t *Tracker) TradeCount() int { return t.tradeCount }

// Open transitions FLAT -> OPEN, recording the entry and bumping the trade
// count. Opening on top of an open position is an error.
func (t *Tracker) Open(price float64, at time.Time) error {
	if t.status == Open {
		return fmt.Errorf("position already open since %s", t.entryTime.Format(time.RFC3339))
	}
	if price <= 0 {
		return fmt.Errorf("entry price must be positive, got %g", price)
	}

	t.status = Open
	t.entryPrice = price
	t.entryTime = at
	t.tradeCount++
	return nil
}

// CloseResult describes one completed round trip.
type CloseResult struct {
	EntryPrice float64
	EntryTime  time.Time

	// PnLPercent is (exit-entry)/entry, a fraction.
	PnLPercent float64
	Duration   time.Duration
}

// Close transitions OPEN -> FLAT, clearing the entry fields and returning
// the realized percentage P&L and holding duration.
func (t *Tracker) Close(price float64, at time.Time) (CloseResult, error) {
	if t.status != Open {
		return CloseResult{}, fmt.Errorf("no open position to close")
	}

	res := CloseResult{
		EntryPrice: t.entryPrice,
		EntryTime:  t.entryTime,
		PnLPercent: (price - t.entryPrice) / t.entryPrice,
		Duration:   at.Sub(t.entryTime),
	}

	t.status = Flat
	t.entryPrice = 0
	t.entryTime = time.Time{}
	return res, nil
}
