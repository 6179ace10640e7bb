// journal/journal.go
package journal

import "time"

// Action marks which side of a round trip a record describes.
type Action string

const (
	ActionEntry Action = "ENTRY"
	ActionExit  Action = "EXIT"
)

// Record is one executed order. Entries carry the sizing fields,
// exits additionally carry the realized outcome.
type Record struct {
	ID             string
	Symbol         string
	Action         Action
	Quantity       float64
	Price          float64
	Time           time.Time
	TradeCount     int
	PortfolioValue float64

	// Exit side only.
	Reason     string
	EntryPrice float64
	PnLPercent float64
	Duration   time.Duration
}

// EquityPoint is a mark-to-market sample of the portfolio.
type EquityPoint struct {
	Time     time.Time
	Value    float64
	Drawdown float64
}

type Journal interface {
	RecordTrade(Record) error
	RecordEquity(EquityPoint) error
	Close() error
}
