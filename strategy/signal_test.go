package strategy

import (
	"testing"
	"time"

	"btc-intraday/market"
	"btc-intraday/position"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() Params {
	return Params{
		PriceAboveEMA:     true,
		RSIOversold:       true,
		OBVIncreasing:     true,
		OversoldThreshold: 30,
		StopLossPercent:   0.005,
		TakeProfitPercent: 0.01,
		TradeDuration:     30 * time.Minute,
	}
}

func snap(close, ema, rsi float64, obv *float64) market.Snapshot {
	return market.Snapshot{
		Symbol: "BTCUSD",
		Time:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Close:  close,
		EMA:    ema,
		RSI:    rsi,
		OBV:    obv,
	}
}

func obvVal(v float64) *float64 { return &v }

func TestEntrySignalConditions(t *testing.T) {
	t.Parallel()

	flat := position.NewTracker()

	tests := []struct {
		name string
		snap market.Snapshot
		want bool
	}{
		{"all conditions hold", snap(105, 100, 25, obvVal(11)), true},
		{"price at ema fails", snap(100, 100, 25, obvVal(11)), false},
		{"price below ema fails", snap(95, 100, 25, obvVal(11)), false},
		{"rsi at threshold fails", snap(105, 100, 30, obvVal(11)), false},
		{"rsi above threshold fails", snap(105, 100, 55, obvVal(11)), false},
		{"obv flat fails", snap(105, 100, 25, obvVal(10)), false},
		{"obv falling fails", snap(105, 100, 25, obvVal(9)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSignalEngine(defaultParams())
			s.ObserveOBV(10)
			assert.Equal(t, tt.want, s.EntrySignal(tt.snap, flat))
		})
	}
}

func TestEntrySignalToggles(t *testing.T) {
	t.Parallel()

	flat := position.NewTracker()

	// A snapshot that fails every condition.
	bad := snap(95, 100, 55, obvVal(5))

	t.Run("disabled conditions are vacuously true", func(t *testing.T) {
		p := defaultParams()
		p.PriceAboveEMA = false
		p.RSIOversold = false
		p.OBVIncreasing = false
		s := NewSignalEngine(p)
		s.ObserveOBV(10)
		assert.True(t, s.EntrySignal(bad, flat))
	})

	t.Run("one enabled failing condition vetoes", func(t *testing.T) {
		p := defaultParams()
		p.PriceAboveEMA = false
		p.OBVIncreasing = false
		s := NewSignalEngine(p)
		assert.False(t, s.EntrySignal(bad, flat))
	})
}

func TestEntrySignalOBVBaseline(t *testing.T) {
	t.Parallel()

	flat := position.NewTracker()

	t.Run("no baseline yet is vacuously true", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		assert.True(t, s.EntrySignal(snap(105, 100, 25, obvVal(3)), flat))
	})

	t.Run("baseline comparison kicks in after first observation", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		s.ObserveOBV(10)
		assert.False(t, s.EntrySignal(snap(105, 100, 25, obvVal(10)), flat))
		assert.True(t, s.EntrySignal(snap(105, 100, 25, obvVal(10.5)), flat))

		// Later observations move the baseline.
		s.ObserveOBV(20)
		assert.False(t, s.EntrySignal(snap(105, 100, 25, obvVal(10.5)), flat))
	})

	t.Run("nil obv reading is vacuously true", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		s.ObserveOBV(10)
		assert.True(t, s.EntrySignal(snap(105, 100, 25, nil), flat))
	})
}

func TestEntrySignalWhileOpen(t *testing.T) {
	t.Parallel()

	pos := position.NewTracker()
	require.NoError(t, pos.Open(100, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	s := NewSignalEngine(defaultParams())
	assert.False(t, s.EntrySignal(snap(105, 100, 25, obvVal(11)), pos))
}

func TestExitSignal(t *testing.T) {
	t.Parallel()

	entryTime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	open := func(t *testing.T) *position.Tracker {
		t.Helper()
		pos := position.NewTracker()
		require.NoError(t, pos.Open(100, entryTime))
		return pos
	}

	t.Run("none while flat", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		got := s.ExitSignal(snap(1, 1, 1, nil), position.NewTracker(), entryTime)
		assert.Equal(t, ExitNone, got)
	})

	t.Run("stop loss threshold is inclusive", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		pos := open(t)

		// entry 100, stop 0.005: threshold 99.5.
		assert.Equal(t, ExitStopLoss, s.ExitSignal(snap(99.4, 0, 0, nil), pos, entryTime.Add(time.Minute)))
		assert.Equal(t, ExitStopLoss, s.ExitSignal(snap(99.5, 0, 0, nil), pos, entryTime.Add(time.Minute)))
		assert.Equal(t, ExitNone, s.ExitSignal(snap(99.6, 0, 0, nil), pos, entryTime.Add(time.Minute)))
	})

	t.Run("take profit threshold is inclusive", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		pos := open(t)

		// entry 100, take 0.01: threshold 101.
		assert.Equal(t, ExitTakeProfit, s.ExitSignal(snap(101, 0, 0, nil), pos, entryTime.Add(time.Minute)))
		assert.Equal(t, ExitTakeProfit, s.ExitSignal(snap(101.3, 0, 0, nil), pos, entryTime.Add(time.Minute)))
		assert.Equal(t, ExitNone, s.ExitSignal(snap(100.9, 0, 0, nil), pos, entryTime.Add(time.Minute)))
	})

	t.Run("time exit at exactly the duration boundary", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		pos := open(t)

		assert.Equal(t, ExitNone, s.ExitSignal(snap(100.1, 0, 0, nil), pos, entryTime.Add(29*time.Minute+59*time.Second)))
		assert.Equal(t, ExitTimeExit, s.ExitSignal(snap(100.1, 0, 0, nil), pos, entryTime.Add(30*time.Minute)))
		assert.Equal(t, ExitTimeExit, s.ExitSignal(snap(100.1, 0, 0, nil), pos, entryTime.Add(2*time.Hour)))
	})

	t.Run("stop loss beats take profit when both cross", func(t *testing.T) {
		// A negative take-profit threshold makes both conditions true on the
		// same bar; the priority order must still pick the stop.
		p := defaultParams()
		p.TakeProfitPercent = -0.02
		s := NewSignalEngine(p)
		pos := open(t)

		got := s.ExitSignal(snap(98.5, 0, 0, nil), pos, entryTime.Add(time.Minute))
		assert.Equal(t, ExitStopLoss, got)
	})

	t.Run("stop loss beats time exit", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		pos := open(t)

		got := s.ExitSignal(snap(99, 0, 0, nil), pos, entryTime.Add(time.Hour))
		assert.Equal(t, ExitStopLoss, got)
	})

	t.Run("take profit beats time exit", func(t *testing.T) {
		s := NewSignalEngine(defaultParams())
		pos := open(t)

		got := s.ExitSignal(snap(102, 0, 0, nil), pos, entryTime.Add(time.Hour))
		assert.Equal(t, ExitTakeProfit, got)
	})
}
