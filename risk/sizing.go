package risk

import "fmt"

// MaxPositionSize caps every sizing method below full leverage.
const MaxPositionSize = 0.99

// SizingFixed and SizingPercentRisk are the recognized sizing methods.
const (
	SizingFixed       = "fixed"
	SizingPercentRisk = "percent_risk"
)

// PositionSize returns the fraction of portfolio value to commit to a new
// position.
//
// "fixed" returns the configured constant. "percent_risk" returns
// riskPerTrade divided by the stop distance, capped at MaxPositionSize; a
// zero stop distance makes the quotient unbounded and is rejected as a
// configuration error. Unrecognized methods behave as "fixed".
func (m *Manager) PositionSize() (float64, error) {
	switch m.sizing.Method {
	case SizingPercentRisk:
		if m.sizing.StopLossPercent <= 0 {
			return 0, fmt.Errorf("percent_risk sizing: stop loss percent must be positive, got %g", m.sizing.StopLossPercent)
		}
		size := m.sizing.RiskPerTrade / m.sizing.StopLossPercent
		if size > MaxPositionSize {
			size = MaxPositionSize
		}
		return size, nil
	default:
		return m.sizing.FixedSize, nil
	}
}
