package engine

import (
	"time"

	"btc-intraday/market"
	"btc-intraday/strategy"
)

// EntryOrder asks the executor to move the portfolio into the symbol at
// the given fraction of portfolio value.
type EntryOrder struct {
	Symbol         string
	TargetFraction float64
	Price          float64
	Time           time.Time
}

// ExitOrder asks the executor to liquidate the open position.
type ExitOrder struct {
	Symbol string
	Reason strategy.ExitReason
	Price  float64
	Time   time.Time
}

// Fill reports what an order actually did.
type Fill struct {
	Quantity float64
	Price    float64

	// RealizedPnL is the cash P&L of the round trip, set on exits.
	RealizedPnL float64
}

// Executor carries engine decisions into a portfolio, simulated or live.
// Mark is called once per fine-grained bar so the executor can keep its
// valuation current.
type Executor interface {
	Mark(market.Bar)
	Enter(EntryOrder) (Fill, error)
	Exit(ExitOrder) (Fill, error)
	PortfolioValue() float64
}
