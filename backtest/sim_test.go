package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btc-intraday/engine"
	"btc-intraday/market"
)

func TestPortfolioEnterExit(t *testing.T) {
	t.Parallel()

	pf := NewPortfolio("BTCUSD", 1000)
	assert.Equal(t, 1000.0, pf.PortfolioValue())

	at := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	fill, err := pf.Enter(engine.EntryOrder{Symbol: "BTCUSD", TargetFraction: 0.99, Price: 100, Time: at})
	require.NoError(t, err)

	assert.InDelta(t, 9.9, fill.Quantity, 1e-12)
	assert.Equal(t, 100.0, fill.Price)
	assert.InDelta(t, 10.0, pf.Cash(), 1e-9)
	assert.InDelta(t, 9.9, pf.Quantity(), 1e-12)
	assert.InDelta(t, 1000.0, pf.PortfolioValue(), 1e-9)

	pf.Mark(market.Bar{Symbol: "BTCUSD", Close: 102})
	assert.InDelta(t, 1019.8, pf.PortfolioValue(), 1e-9)

	fill, err = pf.Exit(engine.ExitOrder{Symbol: "BTCUSD", Price: 101, Time: at.Add(5 * time.Minute)})
	require.NoError(t, err)

	assert.InDelta(t, 9.9, fill.Quantity, 1e-12)
	assert.Equal(t, 101.0, fill.Price)
	assert.InDelta(t, 9.9, fill.RealizedPnL, 1e-9)
	assert.Zero(t, pf.Quantity())
	assert.InDelta(t, 1009.9, pf.Cash(), 1e-9)
	assert.InDelta(t, 1009.9, pf.PortfolioValue(), 1e-9)
}

func TestPortfolioDoubleEnter(t *testing.T) {
	t.Parallel()

	pf := NewPortfolio("BTCUSD", 1000)
	_, err := pf.Enter(engine.EntryOrder{TargetFraction: 0.5, Price: 100})
	require.NoError(t, err)

	_, err = pf.Enter(engine.EntryOrder{TargetFraction: 0.5, Price: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already open")
}

func TestPortfolioExitWhileFlat(t *testing.T) {
	t.Parallel()

	pf := NewPortfolio("BTCUSD", 1000)
	_, err := pf.Exit(engine.ExitOrder{Price: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no open position")
}

func TestPortfolioBadEntryPrice(t *testing.T) {
	t.Parallel()

	pf := NewPortfolio("BTCUSD", 1000)
	_, err := pf.Enter(engine.EntryOrder{TargetFraction: 0.5, Price: 0})
	require.Error(t, err)
}

func TestPortfolioEntryCappedAtCash(t *testing.T) {
	t.Parallel()

	pf := NewPortfolio("BTCUSD", 500)
	fill, err := pf.Enter(engine.EntryOrder{TargetFraction: 1.5, Price: 100})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, fill.Quantity, 1e-12)
	assert.Zero(t, pf.Cash())
}

func TestPortfolioMarkFiltersSymbol(t *testing.T) {
	t.Parallel()

	pf := NewPortfolio("BTCUSD", 1000)
	_, err := pf.Enter(engine.EntryOrder{Symbol: "BTCUSD", TargetFraction: 0.99, Price: 100})
	require.NoError(t, err)

	pf.Mark(market.Bar{Symbol: "ETHUSD", Close: 1})
	assert.InDelta(t, 1000.0, pf.PortfolioValue(), 1e-9)

	pf.Mark(market.Bar{Symbol: "BTCUSD", Close: 101})
	assert.InDelta(t, 1009.9, pf.PortfolioValue(), 1e-9)
}
