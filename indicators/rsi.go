package indicators

import (
	"fmt"

	"btc-intraday/market"
)

// RSI is a streaming Relative Strength Index indicator using Wilder's
// smoothing. Values lie in [0, 100].
type RSI struct {
	period int

	avgGain float64
	avgLoss float64

	count       int
	warmupGain  float64
	warmupLoss  float64
	prevClose   float64
	hasPrevious bool
}

// NewRSI creates a new Relative Strength Index indicator with the given period
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	// Need period+1 bars because the first close difference requires a
	// previous close.
	return r.period + 1
}

func (r *RSI) Reset() {
	r.avgGain = 0
	r.avgLoss = 0
	r.count = 0
	r.warmupGain = 0
	r.warmupLoss = 0
	r.hasPrevious = false
}

func (r *RSI) Update(b market.Bar) {
	if !r.hasPrevious {
		// First bar, just store it
		r.prevClose = b.Close
		r.hasPrevious = true
		return
	}

	diff := b.Close - r.prevClose
	r.prevClose = b.Close

	gain, loss := 0.0, 0.0
	if diff > 0 {
		gain = diff
	} else {
		loss = -diff
	}

	if r.count < r.period {
		// During warmup, accumulate sums for the initial averages
		r.warmupGain += gain
		r.warmupLoss += loss
		r.count++
		if r.count == r.period {
			r.avgGain = r.warmupGain / float64(r.period)
			r.avgLoss = r.warmupLoss / float64(r.period)
		}
	} else {
		// Apply Wilder's smoothing
		r.avgGain = (r.avgGain*float64(r.period-1) + gain) / float64(r.period)
		r.avgLoss = (r.avgLoss*float64(r.period-1) + loss) / float64(r.period)
	}
}

func (r *RSI) Ready() bool {
	return r.count >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
