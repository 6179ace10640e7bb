// Package performance accumulates trade outcomes and emits the periodic and
// final metric snapshots.
package performance

import (
	"btc-intraday/events"
	"btc-intraday/risk"
)

// Performance event labels.
const (
	LabelDaily = "DAILY"
	LabelFinal = "FINAL"
)

// Tracker keeps running counts of signals, trades and outcomes. It is purely
// additive; day boundaries reset only the risk state's daily accumulator.
type Tracker struct {
	signals int
	trades  int
	wins    int
	losses  int

	emitter events.Emitter
}

// NewTracker builds a tracker. A nil emitter discards snapshots.
func NewTracker(emitter events.Emitter) *Tracker {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &Tracker{emitter: emitter}
}

// RecordSignal counts one true entry signal, whether or not an order
// follows.
func (t *Tracker) RecordSignal() { t.signals++ }

// RecordTrade counts one executed entry.
func (t *Tracker) RecordTrade() { t.trades++ }

// RecordWin counts one winning exit.
func (t *Tracker) RecordWin() { t.wins++ }

// RecordLoss counts one losing exit.
func (t *Tracker) RecordLoss() { t.losses++ }

func (t *Tracker) Signals() int { return t.signals }
func (t *Tracker) Trades() int  { return t.trades }
func (t *Tracker) Wins() int    { return t.wins }
func (t *Tracker) Losses() int  { return t.losses }

// WinRate returns wins/(wins+losses) as a percentage, 0 with no completed
// trades.
func (t *Tracker) WinRate() float64 {
	closed := t.wins + t.losses
	if closed == 0 {
		return 0
	}
	return float64(t.wins) / float64(closed) * 100
}

// Snapshot returns the flat metrics record for the current state.
func (t *Tracker) Snapshot(portfolioValue float64, rs *risk.State) events.Fields {
	return events.Fields{
		"portfolio_value":    portfolioValue,
		"total_trades":       t.trades,
		"max_drawdown":       rs.MaxDrawdownSeen,
		"daily_pnl":          rs.DailyPnL,
		"consecutive_losses": rs.ConsecutiveLosses,
	}
}

// EndOfDay emits the daily snapshot and then resets the daily P&L
// accumulator. Cumulative counters are untouched.
func (t *Tracker) EndOfDay(portfolioValue float64, rs *risk.State) {
	t.emitter.Performance(LabelDaily, t.Snapshot(portfolioValue, rs))
	rs.ResetDay()
}

// Finalize emits the end-of-run summary.
func (t *Tracker) Finalize(portfolioValue float64, rs *risk.State) {
	t.emitter.Performance(LabelFinal, events.Fields{
		"portfolio_value":      portfolioValue,
		"total_signals":        t.signals,
		"total_trades":         t.trades,
		"wins":                 t.wins,
		"losses":               t.losses,
		"win_rate":             t.WinRate(),
		"max_drawdown_percent": rs.MaxDrawdownSeen * 100,
		"consecutive_losses":   rs.ConsecutiveLosses,
	})
}
