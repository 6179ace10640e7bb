package indicators

import (
	"testing"
	"time"

	"btc-intraday/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Indicator = (*SimpleMA)(nil)
	_ Indicator = (*ExponentialMA)(nil)
	_ Indicator = (*RSI)(nil)
	_ Indicator = (*OBV)(nil)
	_ Indicator = (*BollingerBands)(nil)
	_ Indicator = (*MACD)(nil)
)

func bars(closes ...float64) []market.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Bar, len(closes))
	for i, c := range closes {
		out[i] = market.Bar{
			Symbol: "BTCUSD",
			Time:   base.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func feed(ind Indicator, bs []market.Bar) {
	for _, b := range bs {
		ind.Update(b)
	}
}

func TestSimpleMA(t *testing.T) {
	t.Parallel()

	ma := NewMA(3)
	assert.Equal(t, "MA(3)", ma.Name())
	assert.Equal(t, 3, ma.Warmup())
	assert.False(t, ma.Ready())
	assert.Equal(t, 0.0, ma.Value())

	bs := bars(102, 105, 106, 108)
	ma.Update(bs[0])
	ma.Update(bs[1])
	assert.False(t, ma.Ready())

	ma.Update(bs[2])
	assert.True(t, ma.Ready())
	assert.InDelta(t, (102.0+105.0+106.0)/3.0, ma.Value(), 0.001)

	// Sliding window uses only the last 3 closes.
	ma.Update(bs[3])
	assert.InDelta(t, (105.0+106.0+108.0)/3.0, ma.Value(), 0.001)

	ma.Reset()
	assert.False(t, ma.Ready())
}

func TestExponentialMA(t *testing.T) {
	t.Parallel()

	ema := NewEMA(3)
	assert.Equal(t, "EMA(3)", ema.Name())

	feed(ema, bars(102, 105, 106))
	require.True(t, ema.Ready())
	// Initial value is the SMA of the warmup closes.
	assert.InDelta(t, 104.3333, ema.Value(), 0.001)

	// multiplier = 2/(3+1) = 0.5
	feed(ema, bars(108))
	assert.InDelta(t, 106.1667, ema.Value(), 0.001)
	feed(ema, bars(110))
	assert.InDelta(t, 108.0833, ema.Value(), 0.001)
}

func TestRSI(t *testing.T) {
	t.Parallel()

	t.Run("wilder smoothing", func(t *testing.T) {
		rsi := NewRSI(3)
		assert.Equal(t, "RSI(3)", rsi.Name())
		assert.Equal(t, 4, rsi.Warmup())

		bs := bars(100, 101, 103, 102, 105, 106)
		rsi.Update(bs[0])
		rsi.Update(bs[1])
		rsi.Update(bs[2])
		assert.False(t, rsi.Ready())

		// Diffs +1, +2, -1: avgGain=1, avgLoss=1/3, RS=3.
		rsi.Update(bs[3])
		require.True(t, rsi.Ready())
		assert.InDelta(t, 75.0, rsi.Value(), 0.001)

		rsi.Update(bs[4])
		assert.InDelta(t, 88.2353, rsi.Value(), 0.001)
		rsi.Update(bs[5])
		assert.InDelta(t, 90.6977, rsi.Value(), 0.001)
	})

	t.Run("all gains pins to 100", func(t *testing.T) {
		rsi := NewRSI(3)
		feed(rsi, bars(1, 2, 3, 4, 5))
		require.True(t, rsi.Ready())
		assert.Equal(t, 100.0, rsi.Value())
	})

	t.Run("all losses pins to 0", func(t *testing.T) {
		rsi := NewRSI(3)
		feed(rsi, bars(5, 4, 3, 2, 1))
		require.True(t, rsi.Ready())
		assert.Equal(t, 0.0, rsi.Value())
	})

	t.Run("reset clears state", func(t *testing.T) {
		rsi := NewRSI(3)
		feed(rsi, bars(1, 2, 3, 4))
		require.True(t, rsi.Ready())
		rsi.Reset()
		assert.False(t, rsi.Ready())
		assert.Equal(t, 0.0, rsi.Value())
	})
}

func TestOBV(t *testing.T) {
	t.Parallel()

	obv := NewOBV()
	assert.Equal(t, "OBV", obv.Name())
	assert.Equal(t, 1, obv.Warmup())
	assert.False(t, obv.Ready())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(i int, close, vol float64) market.Bar {
		return market.Bar{Time: base.Add(time.Duration(i) * time.Minute), Close: close, Volume: vol}
	}

	obv.Update(mk(0, 100, 10))
	require.True(t, obv.Ready())
	assert.Equal(t, 10.0, obv.Value())

	obv.Update(mk(1, 101, 5))
	assert.Equal(t, 15.0, obv.Value())
	obv.Update(mk(2, 99, 3))
	assert.Equal(t, 12.0, obv.Value())

	// Unchanged close leaves the total alone.
	obv.Update(mk(3, 99, 7))
	assert.Equal(t, 12.0, obv.Value())

	obv.Reset()
	assert.False(t, obv.Ready())
}

func TestBollingerBands(t *testing.T) {
	t.Parallel()

	bb := NewBollingerBands(3, 2)
	assert.Equal(t, "BB(3,2)", bb.Name())

	feed(bb, bars(1, 2))
	assert.False(t, bb.Ready())
	assert.Equal(t, 0.0, bb.Upper())

	feed(bb, bars(3))
	require.True(t, bb.Ready())
	assert.InDelta(t, 2.0, bb.Value(), 0.001)
	assert.InDelta(t, 2.0+2*0.81650, bb.Upper(), 0.001)
	assert.InDelta(t, 2.0-2*0.81650, bb.Lower(), 0.001)
}

func TestMACD(t *testing.T) {
	t.Parallel()

	macd := NewMACD(2, 3, 2)
	assert.Equal(t, "MACD(2,3,2)", macd.Name())
	assert.Equal(t, 5, macd.Warmup())

	bs := bars(10, 11, 12, 13)
	macd.Update(bs[0])
	macd.Update(bs[1])
	macd.Update(bs[2])
	assert.False(t, macd.Ready())

	macd.Update(bs[3])
	require.True(t, macd.Ready())
	assert.InDelta(t, 0.5, macd.Value(), 0.001)
	assert.InDelta(t, 0.5, macd.Signal(), 0.001)
	assert.InDelta(t, 0.0, macd.Histogram(), 0.001)

	macd.Reset()
	assert.False(t, macd.Ready())
}
