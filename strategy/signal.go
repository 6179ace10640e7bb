// Package strategy evaluates entry and exit signals from indicator
// snapshots against the current position state.
package strategy

import (
	"time"

	"btc-intraday/market"
	"btc-intraday/position"
)

// ExitReason identifies why a position should be closed. The zero-valued
// answer is ExitNone.
type ExitReason string

const (
	ExitNone       ExitReason = "NONE"
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
	ExitTimeExit   ExitReason = "TIME_EXIT"
)

// Params configures the signal engine. The three entry-condition toggles
// default to off in the zero value; callers normally build Params from the
// loaded configuration where they default to on.
type Params struct {
	// Entry-condition toggles. A disabled condition is vacuously true.
	PriceAboveEMA bool
	RSIOversold   bool
	OBVIncreasing bool

	// OversoldThreshold is the RSI level below which the market counts as
	// oversold.
	OversoldThreshold float64

	StopLossPercent   float64
	TakeProfitPercent float64
	TradeDuration     time.Duration
}

// SignalEngine combines an indicator snapshot and the position state into an
// entry decision or an exit reason. It keeps one piece of state of its own:
// the last observed OBV reading, used as the baseline for the
// obv-increasing entry condition.
type SignalEngine struct {
	params Params

	lastOBV     float64
	haveLastOBV bool
}

// NewSignalEngine builds a signal engine with the given parameters.
func NewSignalEngine(params Params) *SignalEngine {
	return &SignalEngine{params: params}
}

// ObserveOBV refreshes the OBV baseline. The core calls this once per
// fine-grained bar after any decision for that bar, so a decision always
// compares against the previous bar's reading.
func (s *SignalEngine) ObserveOBV(v float64) {
	s.lastOBV = v
	s.haveLastOBV = true
}

// EntrySignal reports whether every enabled entry condition holds. It is
// meaningful only while the position is FLAT and returns false otherwise.
//
// The obv-increasing condition needs both an OBV reading in the snapshot
// and a previously observed baseline; with either missing it is vacuously
// true. That covers the warm-up bars before the first baseline is recorded,
// not a steady-state default.
func (s *SignalEngine) EntrySignal(snap market.Snapshot, pos *position.Tracker) bool {
	if pos.IsOpen() {
		return false
	}

	if s.params.PriceAboveEMA && snap.Close <= snap.EMA {
		return false
	}
	if s.params.RSIOversold && snap.RSI >= s.params.OversoldThreshold {
		return false
	}
	if s.params.OBVIncreasing && snap.OBV != nil && s.haveLastOBV && *snap.OBV <= s.lastOBV {
		return false
	}
	return true
}

// ExitSignal returns the first matching exit reason, or ExitNone. The order
// is a contract: stop loss, then take profit, then time exit. More than one
// can be true on the same bar and the first match wins.
func (s *SignalEngine) ExitSignal(snap market.Snapshot, pos *position.Tracker, now time.Time) ExitReason {
	if !pos.IsOpen() {
		return ExitNone
	}

	entry := pos.EntryPrice()
	if snap.Close <= entry*(1-s.params.StopLossPercent) {
		return ExitStopLoss
	}
	if snap.Close >= entry*(1+s.params.TakeProfitPercent) {
		return ExitTakeProfit
	}
	if now.Sub(pos.EntryTime()) >= s.params.TradeDuration {
		return ExitTimeExit
	}
	return ExitNone
}
