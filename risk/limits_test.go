package risk

import (
	"testing"

	"btc-intraday/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, limits Limits) (*Manager, *State, *events.Capture) {
	t.Helper()
	state := &State{}
	cap := &events.Capture{}
	return NewManager(state, limits, Sizing{Method: SizingFixed, FixedSize: 0.99}, "BTCUSD", cap), state, cap
}

func TestCheckLimitsPeakAndDrawdownTracking(t *testing.T) {
	t.Parallel()

	m, state, _ := newTestManager(t, Limits{MaxDrawdownPercent: 0.9, DailyLossLimitPercent: 0.9})

	readings := []struct {
		pv       float64
		peak     float64
		drawdown float64
	}{
		{100, 100, 0},
		{120, 120, 0},
		{90, 120, 0.25},
		{150, 150, 0},
		{80, 150, 7.0 / 15.0},
	}

	prevPeak, prevMaxDD := 0.0, 0.0
	for _, r := range readings {
		ok, err := m.CheckLimits(r.pv)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.Equal(t, r.peak, state.PeakPortfolioValue)
		assert.InDelta(t, r.drawdown, state.CurrentDrawdown, 1e-12)

		// Peak and max drawdown never go backwards.
		assert.GreaterOrEqual(t, state.PeakPortfolioValue, prevPeak)
		assert.GreaterOrEqual(t, state.MaxDrawdownSeen, prevMaxDD)
		prevPeak = state.PeakPortfolioValue
		prevMaxDD = state.MaxDrawdownSeen
	}

	assert.InDelta(t, 7.0/15.0, state.MaxDrawdownSeen, 1e-12)
}

func TestCheckLimitsDrawdownGate(t *testing.T) {
	t.Parallel()

	t.Run("breach fails and emits", func(t *testing.T) {
		m, _, cap := newTestManager(t, Limits{MaxDrawdownPercent: 0.15, DailyLossLimitPercent: 0.99})

		ok, err := m.CheckLimits(100)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = m.CheckLimits(80)
		require.NoError(t, err)
		assert.False(t, ok)

		evs := cap.ByKind("risk")
		require.Len(t, evs, 1)
		assert.Equal(t, EventMaxDrawdownExceeded, evs[0].Label)
		assert.InDelta(t, 0.2, evs[0].Fields["current_drawdown"].(float64), 1e-12)
		assert.Equal(t, 0.15, evs[0].Fields["limit"])
		assert.Equal(t, "BTCUSD", evs[0].Fields["symbol"])
	})

	t.Run("drawdown equal to limit passes", func(t *testing.T) {
		m, state, cap := newTestManager(t, Limits{MaxDrawdownPercent: 0.2, DailyLossLimitPercent: 0.99})

		_, err := m.CheckLimits(100)
		require.NoError(t, err)
		ok, err := m.CheckLimits(80)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.InDelta(t, 0.2, state.CurrentDrawdown, 1e-12)
		assert.Empty(t, cap.Events)
	})
}

func TestCheckLimitsDailyLossGate(t *testing.T) {
	t.Parallel()

	t.Run("loss beyond limit fails and emits", func(t *testing.T) {
		m, state, cap := newTestManager(t, Limits{MaxDrawdownPercent: 0.99, DailyLossLimitPercent: 0.05})
		state.DailyPnL = -6

		ok, err := m.CheckLimits(100)
		require.NoError(t, err)
		assert.False(t, ok)

		evs := cap.ByKind("risk")
		require.Len(t, evs, 1)
		assert.Equal(t, EventDailyLossLimitExceeded, evs[0].Label)
		assert.InDelta(t, 0.06, evs[0].Fields["daily_loss_percent"].(float64), 1e-12)
	})

	t.Run("limit is on magnitude, outsized gain also trips", func(t *testing.T) {
		m, state, _ := newTestManager(t, Limits{MaxDrawdownPercent: 0.99, DailyLossLimitPercent: 0.05})
		state.DailyPnL = 6

		ok, err := m.CheckLimits(100)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("loss within limit passes", func(t *testing.T) {
		m, state, cap := newTestManager(t, Limits{MaxDrawdownPercent: 0.99, DailyLossLimitPercent: 0.05})
		state.DailyPnL = -4

		ok, err := m.CheckLimits(100)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, cap.Events)
	})
}

func TestCheckLimitsIdempotent(t *testing.T) {
	t.Parallel()

	m, state, _ := newTestManager(t, Limits{MaxDrawdownPercent: 0.15, DailyLossLimitPercent: 0.05})

	_, err := m.CheckLimits(100)
	require.NoError(t, err)
	ok1, err := m.CheckLimits(95)
	require.NoError(t, err)
	dd1 := state.CurrentDrawdown

	ok2, err := m.CheckLimits(95)
	require.NoError(t, err)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, dd1, state.CurrentDrawdown)
	assert.Equal(t, 100.0, state.PeakPortfolioValue)
}

func TestCheckLimitsRejectsNonPositiveValue(t *testing.T) {
	t.Parallel()

	m, state, cap := newTestManager(t, Limits{MaxDrawdownPercent: 0.15, DailyLossLimitPercent: 0.05})

	for _, pv := range []float64{0, -10} {
		ok, err := m.CheckLimits(pv)
		assert.False(t, ok)
		require.Error(t, err)
	}

	// The error path must not disturb state or emit events.
	assert.Equal(t, 0.0, state.PeakPortfolioValue)
	assert.Empty(t, cap.Events)
}

func TestStateDayReset(t *testing.T) {
	t.Parallel()

	s := &State{}
	s.AddDailyPnL(-3)
	s.AddDailyPnL(1.5)
	s.RecordLoss()
	s.RecordLoss()
	assert.Equal(t, -1.5, s.DailyPnL)
	assert.Equal(t, 2, s.ConsecutiveLosses)

	s.ResetDay()
	assert.Equal(t, 0.0, s.DailyPnL)
	// The loss streak survives day boundaries and winning exits alike.
	assert.Equal(t, 2, s.ConsecutiveLosses)
}
