package market

import "time"

// Snapshot is the per-bar view handed to the decision core: the consolidated
// close plus whatever indicator values the data layer has computed. The core
// never mutates a snapshot.
type Snapshot struct {
	Symbol string
	Time   time.Time
	Close  float64

	EMA float64
	RSI float64

	// OBV is nil when the on-balance-volume indicator is disabled.
	OBV *float64

	// Optional indicator groups, nil unless enabled in configuration.
	Bands *BandValues
	MACD  *MACDValues

	PortfolioValue float64
	IsInvested     bool
	IsWarmingUp    bool
}

// BandValues holds one Bollinger Band reading.
type BandValues struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// MACDValues holds one MACD reading.
type MACDValues struct {
	Line      float64
	Signal    float64
	Histogram float64
}
