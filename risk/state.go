// Package risk holds the portfolio risk state and the manager that sizes
// positions and gates trading on drawdown and daily-loss limits.
package risk

// State is the running risk bookkeeping for one strategy instance. It is
// owned and mutated by the single-threaded decision core; external readers
// only see committed snapshots.
type State struct {
	// PeakPortfolioValue is the highest portfolio value observed so far.
	// Monotonically non-decreasing once initialized from the first reading.
	PeakPortfolioValue float64

	// CurrentDrawdown is the fractional decline from peak, in [0, 1].
	CurrentDrawdown float64

	// MaxDrawdownSeen is the worst drawdown observed. Monotonically
	// non-decreasing.
	MaxDrawdownSeen float64

	// DailyPnL is the realized profit and loss accumulated since the last
	// day boundary, in account currency.
	DailyPnL float64

	// ConsecutiveLosses counts losing exits. It is never reset on a winning
	// exit; only the strike count going up is defined behavior.
	ConsecutiveLosses int
}

// AddDailyPnL accumulates realized P&L from a closed trade.
func (s *State) AddDailyPnL(realized float64) {
	s.DailyPnL += realized
}

// RecordLoss bumps the consecutive-loss counter.
func (s *State) RecordLoss() {
	s.ConsecutiveLosses++
}

// ResetDay clears the daily accumulator at a day boundary. Cumulative fields
// (peak, max drawdown, loss streak) are left alone.
func (s *State) ResetDay() {
	s.DailyPnL = 0
}
