package indicators

import (
	"fmt"
	"math"

	"btc-intraday/market"
)

// BollingerBands is a streaming Bollinger Band indicator: a simple moving
// average with upper and lower bands k standard deviations away. Value()
// returns the middle band; use Upper and Lower for the bands.
type BollingerBands struct {
	period int
	k      float64
	closes []float64
}

// NewBollingerBands creates a Bollinger Band indicator with the given period
// and standard deviation multiple.
func NewBollingerBands(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{
		period: period,
		k:      stdDev,
		closes: make([]float64, 0, period),
	}
}

func (bb *BollingerBands) Name() string {
	return fmt.Sprintf("BB(%d,%g)", bb.period, bb.k)
}

func (bb *BollingerBands) Warmup() int {
	return bb.period
}

func (bb *BollingerBands) Reset() {
	bb.closes = bb.closes[:0]
}

func (bb *BollingerBands) Update(b market.Bar) {
	bb.closes = append(bb.closes, b.Close)
	if len(bb.closes) > bb.period {
		bb.closes = bb.closes[1:]
	}
}

func (bb *BollingerBands) Ready() bool {
	return len(bb.closes) >= bb.period
}

// Value returns the middle band.
func (bb *BollingerBands) Value() float64 {
	if !bb.Ready() {
		return 0
	}
	return bb.mean()
}

func (bb *BollingerBands) Upper() float64 {
	if !bb.Ready() {
		return 0
	}
	return bb.mean() + bb.k*bb.stddev()
}

func (bb *BollingerBands) Lower() float64 {
	if !bb.Ready() {
		return 0
	}
	return bb.mean() - bb.k*bb.stddev()
}

func (bb *BollingerBands) mean() float64 {
	sum := 0.0
	for _, c := range bb.closes {
		sum += c
	}
	return sum / float64(len(bb.closes))
}

func (bb *BollingerBands) stddev() float64 {
	mean := bb.mean()
	sum := 0.0
	for _, c := range bb.closes {
		d := c - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(bb.closes)))
}
