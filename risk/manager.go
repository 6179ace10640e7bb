package risk

import (
	"btc-intraday/events"
)

// Limits are the portfolio-level risk limits, as fractions.
type Limits struct {
	MaxDrawdownPercent    float64
	DailyLossLimitPercent float64
}

// Sizing selects and parameterizes the position-sizing method. Methods other
// than "percent_risk" behave as "fixed".
type Sizing struct {
	Method       string
	FixedSize    float64
	RiskPerTrade float64

	// StopLossPercent is the risk-section stop distance used by
	// percent_risk sizing, not the exit stop threshold.
	StopLossPercent float64
}

// Manager evaluates risk limits and computes position sizes against a shared
// State. A nil emitter discards risk events.
type Manager struct {
	state   *State
	limits  Limits
	sizing  Sizing
	symbol  string
	emitter events.Emitter
}

// NewManager builds a Manager around the given state. The state pointer is
// retained and mutated by CheckLimits.
func NewManager(state *State, limits Limits, sizing Sizing, symbol string, emitter events.Emitter) *Manager {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &Manager{
		state:   state,
		limits:  limits,
		sizing:  sizing,
		symbol:  symbol,
		emitter: emitter,
	}
}

// State returns the managed risk state.
func (m *Manager) State() *State {
	return m.state
}
