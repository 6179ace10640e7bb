package indicators

import (
	"fmt"

	"btc-intraday/market"
)

// MACD is a streaming Moving Average Convergence Divergence indicator.
// Value() returns the MACD line (fast EMA minus slow EMA); Signal and
// Histogram return the signal line and their difference.
type MACD struct {
	fast   *ExponentialMA
	slow   *ExponentialMA
	signal scalarEMA
}

// NewMACD creates a MACD indicator from fast/slow/signal periods.
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
		signal: newScalarEMA(signalPeriod),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fast.period, m.slow.period, m.signal.period)
}

func (m *MACD) Warmup() int {
	return m.slow.period + m.signal.period
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.reset()
}

func (m *MACD) Update(b market.Bar) {
	m.fast.Update(b)
	m.slow.Update(b)
	if m.fast.Ready() && m.slow.Ready() {
		m.signal.update(m.fast.Value() - m.slow.Value())
	}
}

func (m *MACD) Ready() bool {
	return m.slow.Ready() && m.signal.ready()
}

// Value returns the MACD line.
func (m *MACD) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.fast.Value() - m.slow.Value()
}

func (m *MACD) Signal() float64 {
	if !m.Ready() {
		return 0
	}
	return m.signal.value()
}

func (m *MACD) Histogram() float64 {
	if !m.Ready() {
		return 0
	}
	return m.Value() - m.signal.value()
}

// scalarEMA is an exponential moving average over plain values, used for the
// signal line which smooths the MACD line rather than bar closes.
type scalarEMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

func newScalarEMA(period int) scalarEMA {
	return scalarEMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *scalarEMA) reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *scalarEMA) update(x float64) {
	if e.count < e.period {
		e.warmupSum += x
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
	} else {
		e.ema = (x-e.ema)*e.multiplier + e.ema
	}
}

func (e *scalarEMA) ready() bool {
	return e.count >= e.period
}

func (e *scalarEMA) value() float64 {
	if !e.ready() {
		return 0
	}
	return e.ema
}
