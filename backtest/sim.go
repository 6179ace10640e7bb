package backtest

import (
	"fmt"

	"btc-intraday/engine"
	"btc-intraday/market"
)

// Portfolio simulates a single-asset spot account. Orders fill at the
// engine's decision price with all-cash accounting, no fees or slippage.
type Portfolio struct {
	symbol    string
	cash      float64
	quantity  float64
	costBasis float64
	lastPrice float64
}

var _ engine.Executor = (*Portfolio)(nil)

func NewPortfolio(symbol string, cash float64) *Portfolio {
	return &Portfolio{symbol: symbol, cash: cash}
}

// Mark updates the valuation price from a bar.
func (p *Portfolio) Mark(b market.Bar) {
	if b.Symbol == "" || b.Symbol == p.symbol {
		p.lastPrice = b.Close
	}
}

// PortfolioValue is cash plus the holding marked at the last seen close.
func (p *Portfolio) PortfolioValue() float64 {
	return p.cash + p.quantity*p.lastPrice
}

func (p *Portfolio) Cash() float64     { return p.cash }
func (p *Portfolio) Quantity() float64 { return p.quantity }

func (p *Portfolio) Enter(o engine.EntryOrder) (engine.Fill, error) {
	if p.quantity != 0 {
		return engine.Fill{}, fmt.Errorf("backtest: position already open in %s", p.symbol)
	}
	if o.Price <= 0 {
		return engine.Fill{}, fmt.Errorf("backtest: bad entry price %v", o.Price)
	}

	spend := o.TargetFraction * p.PortfolioValue()
	if spend > p.cash {
		spend = p.cash
	}
	qty := spend / o.Price

	p.cash -= spend
	p.quantity = qty
	p.costBasis = spend
	p.lastPrice = o.Price

	return engine.Fill{Quantity: qty, Price: o.Price}, nil
}

func (p *Portfolio) Exit(o engine.ExitOrder) (engine.Fill, error) {
	if p.quantity == 0 {
		return engine.Fill{}, fmt.Errorf("backtest: no open position in %s", p.symbol)
	}

	qty := p.quantity
	proceeds := qty * o.Price

	fill := engine.Fill{
		Quantity:    qty,
		Price:       o.Price,
		RealizedPnL: proceeds - p.costBasis,
	}

	p.cash += proceeds
	p.quantity = 0
	p.costBasis = 0
	p.lastPrice = o.Price

	return fill, nil
}
