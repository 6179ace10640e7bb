package risk

import (
	"fmt"

	"btc-intraday/events"
)

// Risk event types.
const (
	EventMaxDrawdownExceeded    = "MAX_DRAWDOWN_EXCEEDED"
	EventDailyLossLimitExceeded = "DAILY_LOSS_LIMIT_EXCEEDED"
)

// CheckLimits reports whether trading is currently permitted, updating the
// peak, current-drawdown and max-drawdown fields of the state as a side
// effect. A false result suppresses entry evaluation for the current bar
// only; it never force-closes an open position.
//
// The daily-loss check divides by portfolio value, so a non-positive reading
// is an explicit error rather than a silent Inf/NaN.
func (m *Manager) CheckLimits(portfolioValue float64) (bool, error) {
	if portfolioValue <= 0 {
		return false, fmt.Errorf("risk limits: portfolio value must be positive, got %g", portfolioValue)
	}

	s := m.state
	if portfolioValue > s.PeakPortfolioValue {
		s.PeakPortfolioValue = portfolioValue
	}

	drawdown := 0.0
	if s.PeakPortfolioValue > 0 {
		drawdown = (s.PeakPortfolioValue - portfolioValue) / s.PeakPortfolioValue
	}
	s.CurrentDrawdown = drawdown
	if drawdown > s.MaxDrawdownSeen {
		s.MaxDrawdownSeen = drawdown
	}

	if drawdown > m.limits.MaxDrawdownPercent {
		m.emitter.Risk(EventMaxDrawdownExceeded, events.Fields{
			"symbol":           m.symbol,
			"current_drawdown": drawdown,
			"limit":            m.limits.MaxDrawdownPercent,
		})
		return false, nil
	}

	// The daily limit is on the magnitude of the day's P&L, so an outsized
	// winning day trips it as well.
	dailyLossPercent := abs(s.DailyPnL) / portfolioValue
	if dailyLossPercent > m.limits.DailyLossLimitPercent {
		m.emitter.Risk(EventDailyLossLimitExceeded, events.Fields{
			"symbol":             m.symbol,
			"daily_loss_percent": dailyLossPercent,
			"limit":              m.limits.DailyLossLimitPercent,
		})
		return false, nil
	}

	return true, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
