package indicators

import "btc-intraday/market"

// OBV is a streaming On-Balance-Volume indicator: a cumulative volume flow
// that adds the bar volume on up-closes and subtracts it on down-closes.
// Only the direction of change is meaningful, not the absolute level.
type OBV struct {
	obv         float64
	prevClose   float64
	hasPrevious bool
}

// NewOBV creates a new On-Balance-Volume indicator
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "OBV"
}

func (o *OBV) Warmup() int {
	return 1
}

func (o *OBV) Reset() {
	o.obv = 0
	o.hasPrevious = false
}

func (o *OBV) Update(b market.Bar) {
	if !o.hasPrevious {
		// First bar seeds the running total
		o.obv = b.Volume
		o.prevClose = b.Close
		o.hasPrevious = true
		return
	}

	switch {
	case b.Close > o.prevClose:
		o.obv += b.Volume
	case b.Close < o.prevClose:
		o.obv -= b.Volume
	}
	o.prevClose = b.Close
}

func (o *OBV) Ready() bool {
	return o.hasPrevious
}

func (o *OBV) Value() float64 {
	if !o.Ready() {
		return 0
	}
	return o.obv
}
