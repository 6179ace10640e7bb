package market

import "time"

// Bar is one OHLCV bar for a single instrument. Time is the bar open time.
type Bar struct {
	Symbol string
	Time   time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64
}

// Day returns the UTC calendar day the bar belongs to, truncated to midnight.
// Used for day-boundary detection in the runner.
func (b Bar) Day() time.Time {
	return b.Time.UTC().Truncate(24 * time.Hour)
}
