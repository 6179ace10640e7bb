// Package engine drives the intraday decision loop. Fine-grained minute
// bars update the indicators; each consolidated bar triggers the risk
// check and at most one trading decision.
package engine

import (
	"errors"
	"fmt"
	"time"

	"btc-intraday/config"
	"btc-intraday/events"
	"btc-intraday/indicators"
	"btc-intraday/journal"
	"btc-intraday/market"
	"btc-intraday/metrics"
	"btc-intraday/performance"
	"btc-intraday/pkg/id"
	"btc-intraday/position"
	"btc-intraday/risk"
	"btc-intraday/strategy"
)

// Options supplies the engine's collaborators. Executor is required; the
// rest default to in-process implementations.
type Options struct {
	Executor Executor
	Journal  journal.Journal
	Emitter  events.Emitter
	Metrics  *metrics.Metrics
}

// Engine is the single-threaded decision core. Feed it minute bars in
// time order through ProcessBar and call Finalize once the feed is
// exhausted.
type Engine struct {
	cfg    *config.Config
	symbol string

	ema   *indicators.ExponentialMA
	rsi   *indicators.RSI
	obv   *indicators.OBV
	bands *indicators.BollingerBands
	macd  *indicators.MACD

	consolidator *market.Consolidator
	signals      *strategy.SignalEngine
	risk         *risk.Manager
	pos          *position.Tracker
	perf         *performance.Tracker

	exec    Executor
	journal journal.Journal
	emitter events.Emitter
	metrics *metrics.Metrics

	warmupBars int
	minuteBars int
	currentDay time.Time
	haveDay    bool
}

func New(cfg *config.Config, opts Options) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("engine: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if opts.Executor == nil {
		return nil, errors.New("engine: executor is required")
	}
	if opts.Journal == nil {
		opts.Journal = journal.NewMemory()
	}
	if opts.Emitter == nil {
		opts.Emitter = events.Nop{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New("")
	}

	e := &Engine{
		cfg:        cfg,
		symbol:     cfg.Trading.Symbol,
		ema:        indicators.NewEMA(cfg.Indicators.EMA.Period),
		rsi:        indicators.NewRSI(cfg.Indicators.RSI.Period),
		pos:        position.NewTracker(),
		exec:       opts.Executor,
		journal:    opts.Journal,
		emitter:    opts.Emitter,
		metrics:    opts.Metrics,
		warmupBars: cfg.WarmupBars(),
	}

	if cfg.Indicators.OBV.Enabled {
		e.obv = indicators.NewOBV()
	}
	if cfg.Indicators.BollingerBands.Enabled {
		bb := cfg.Indicators.BollingerBands
		e.bands = indicators.NewBollingerBands(bb.Period, bb.StdDev)
	}
	if cfg.Indicators.MACD.Enabled {
		md := cfg.Indicators.MACD
		e.macd = indicators.NewMACD(md.FastPeriod, md.SlowPeriod, md.SignalPeriod)
	}

	e.signals = strategy.NewSignalEngine(strategy.Params{
		PriceAboveEMA:     cfg.Entry.Conditions.PriceAboveEMA,
		RSIOversold:       cfg.Entry.Conditions.RSIOversold,
		OBVIncreasing:     cfg.Entry.Conditions.OBVIncreasing,
		OversoldThreshold: cfg.Indicators.RSI.Oversold,
		StopLossPercent:   cfg.Exit.StopLossPercent,
		TakeProfitPercent: cfg.Exit.TakeProfitPercent,
		TradeDuration:     cfg.Trading.TradeDuration(),
	})

	e.risk = risk.NewManager(&risk.State{}, risk.Limits{
		MaxDrawdownPercent:    cfg.Risk.Portfolio.MaxDrawdownPercent,
		DailyLossLimitPercent: cfg.Risk.Portfolio.DailyLossLimitPercent,
	}, risk.Sizing{
		Method:          cfg.Risk.PositionSizing.Method,
		FixedSize:       cfg.Risk.PositionSizing.Fixed.Size,
		RiskPerTrade:    cfg.Risk.PositionSizing.PercentRisk.RiskPerTrade,
		StopLossPercent: cfg.Risk.StopLoss.DefaultPercent,
	}, e.symbol, instrumentedEmitter{Emitter: opts.Emitter, m: opts.Metrics})

	e.perf = performance.NewTracker(opts.Emitter)

	cons, err := market.NewConsolidator(cfg.Trading.ConsolidationWindow(), cfg.Trading.BarSpan(), e.onConsolidated)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.consolidator = cons

	return e, nil
}

// Position returns the engine's position tracker.
func (e *Engine) Position() *position.Tracker { return e.pos }

// Performance returns the engine's performance tracker.
func (e *Engine) Performance() *performance.Tracker { return e.perf }

// Risk returns the engine's risk manager.
func (e *Engine) Risk() *risk.Manager { return e.risk }

// ProcessBar feeds one minute bar through the engine. Bars must arrive
// in time order.
func (e *Engine) ProcessBar(b market.Bar) {
	e.metrics.BarsProcessed.Inc()

	e.rolloverIfNewDay(b)

	e.exec.Mark(b)

	e.ema.Update(b)
	e.rsi.Update(b)
	if e.obv != nil {
		e.obv.Update(b)
	}
	if e.bands != nil {
		e.bands.Update(b)
	}
	if e.macd != nil {
		e.macd.Update(b)
	}

	e.minuteBars++

	e.consolidator.Update(b)

	// The OBV baseline refreshes after any decision taken on this bar,
	// so a decision always compares against the previous bar's reading.
	if e.obv != nil && e.obv.Ready() && !e.warmingUp() {
		e.signals.ObserveOBV(e.obv.Value())
	}
}

// Finalize flushes the trailing day and emits the final performance
// summary. Call it once after the last bar.
func (e *Engine) Finalize() {
	if e.haveDay {
		e.endOfDay()
	}

	pv := e.exec.PortfolioValue()
	e.perf.Finalize(pv, e.risk.State())
	e.metrics.PortfolioValue.Set(pv)
}

func (e *Engine) warmingUp() bool {
	return e.minuteBars <= e.warmupBars
}

func (e *Engine) indicatorsReady() bool {
	ready := e.ema.Ready() && e.rsi.Ready()
	if e.obv != nil {
		ready = ready && e.obv.Ready()
	}
	return ready
}

func (e *Engine) rolloverIfNewDay(b market.Bar) {
	day := b.Day()
	if !e.haveDay {
		e.currentDay = day
		e.haveDay = true
		return
	}
	if day.Equal(e.currentDay) {
		return
	}

	e.endOfDay()
	e.currentDay = day
}

// endOfDay emits the daily performance snapshot and resets the daily
// risk state. The portfolio is valued at the last marked price.
func (e *Engine) endOfDay() {
	pv := e.exec.PortfolioValue()
	if e.cfg.Behavior.LogPerformance {
		e.perf.EndOfDay(pv, e.risk.State())
	} else {
		e.risk.State().ResetDay()
	}

	e.metrics.PortfolioValue.Set(pv)
	e.metrics.WinRate.Set(e.perf.WinRate())
}

// onConsolidated runs the decision logic for one consolidated bar.
func (e *Engine) onConsolidated(cb market.Bar) {
	e.metrics.BarsConsolidated.Inc()

	if e.warmingUp() {
		return
	}
	if !e.indicatorsReady() {
		return
	}

	pv := e.exec.PortfolioValue()

	ok, err := e.risk.CheckLimits(pv)
	if err != nil {
		e.emitter.Warn("risk check failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
		return
	}
	e.metrics.Drawdown.Set(e.risk.State().CurrentDrawdown)

	snap := e.snapshot(cb, pv)

	// A closed risk gate suppresses entries only. An open position is
	// still evaluated for exits.
	if e.pos.IsOpen() {
		if reason := e.signals.ExitSignal(snap, e.pos, cb.Time); reason != strategy.ExitNone {
			e.executeExit(cb, reason)
		}
	} else if ok {
		if e.signals.EntrySignal(snap, e.pos) {
			e.recordEntrySignal(snap)
			e.executeEntry(cb)
		}
	}

	if e.cfg.Behavior.LogIndicators {
		e.emitter.Signal(events.SignalIndicators, e.indicatorFields(snap))
	}

	if err := e.journal.RecordEquity(journal.EquityPoint{
		Time:     cb.Time,
		Value:    e.exec.PortfolioValue(),
		Drawdown: e.risk.State().CurrentDrawdown,
	}); err != nil {
		e.emitter.Warn("journal write failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
	}
	e.metrics.PortfolioValue.Set(e.exec.PortfolioValue())
}

func (e *Engine) snapshot(cb market.Bar, pv float64) market.Snapshot {
	snap := market.Snapshot{
		Symbol:         e.symbol,
		Time:           cb.Time,
		Close:          cb.Close,
		EMA:            e.ema.Value(),
		RSI:            e.rsi.Value(),
		PortfolioValue: pv,
		IsInvested:     e.pos.IsOpen(),
		IsWarmingUp:    e.warmingUp(),
	}
	if e.obv != nil {
		v := e.obv.Value()
		snap.OBV = &v
	}
	if e.bands != nil && e.bands.Ready() {
		snap.Bands = &market.BandValues{
			Upper:  e.bands.Upper(),
			Middle: e.bands.Value(),
			Lower:  e.bands.Lower(),
		}
	}
	if e.macd != nil && e.macd.Ready() {
		snap.MACD = &market.MACDValues{
			Line:      e.macd.Value(),
			Signal:    e.macd.Signal(),
			Histogram: e.macd.Histogram(),
		}
	}
	return snap
}

func (e *Engine) recordEntrySignal(snap market.Snapshot) {
	e.perf.RecordSignal()
	e.metrics.SignalsTotal.Inc()

	if !e.cfg.Behavior.LogSignals {
		return
	}

	f := events.Fields{
		"symbol": e.symbol,
		"price":  snap.Close,
		"ema":    snap.EMA,
		"rsi":    snap.RSI,
	}
	if snap.OBV != nil {
		f["obv"] = *snap.OBV
	}
	e.emitter.Signal(events.SignalEntry, f)
}

func (e *Engine) executeEntry(cb market.Bar) {
	size, err := e.risk.PositionSize()
	if err != nil {
		e.emitter.Warn("position sizing failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
		return
	}

	fill, err := e.exec.Enter(EntryOrder{
		Symbol:         e.symbol,
		TargetFraction: size,
		Price:          cb.Close,
		Time:           cb.Time,
	})
	if err != nil {
		e.emitter.Warn("entry order failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
		return
	}

	if err := e.pos.Open(cb.Close, cb.Time); err != nil {
		e.emitter.Warn("position open failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
		return
	}

	e.perf.RecordTrade()
	e.metrics.TradesTotal.WithLabelValues(string(journal.ActionEntry)).Inc()

	if err := e.journal.RecordTrade(journal.Record{
		ID:             id.New(),
		Symbol:         e.symbol,
		Action:         journal.ActionEntry,
		Quantity:       fill.Quantity,
		Price:          fill.Price,
		Time:           cb.Time,
		TradeCount:     e.pos.TradeCount(),
		PortfolioValue: e.exec.PortfolioValue(),
	}); err != nil {
		e.emitter.Warn("journal write failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
	}

	if e.cfg.Behavior.LogTrades {
		e.emitter.Trade(string(journal.ActionEntry), events.Fields{
			"symbol": e.symbol,
			"size":   size,
			"price":  fill.Price,
			"ema":    e.ema.Value(),
			"rsi":    e.rsi.Value(),
		})
	}
}

func (e *Engine) executeExit(cb market.Bar, reason strategy.ExitReason) {
	fill, err := e.exec.Exit(ExitOrder{
		Symbol: e.symbol,
		Reason: reason,
		Price:  cb.Close,
		Time:   cb.Time,
	})
	if err != nil {
		e.emitter.Warn("exit order failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
		return
	}

	res, err := e.pos.Close(cb.Close, cb.Time)
	if err != nil {
		e.emitter.Warn("position close failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
		return
	}

	if res.PnLPercent > 0 {
		e.perf.RecordWin()
	} else {
		e.perf.RecordLoss()
		e.risk.State().RecordLoss()
	}
	e.risk.State().AddDailyPnL(fill.RealizedPnL)

	e.metrics.TradesTotal.WithLabelValues(string(journal.ActionExit)).Inc()
	e.metrics.ExitsTotal.WithLabelValues(string(reason)).Inc()
	e.metrics.WinRate.Set(e.perf.WinRate())

	if err := e.journal.RecordTrade(journal.Record{
		ID:             id.New(),
		Symbol:         e.symbol,
		Action:         journal.ActionExit,
		Quantity:       fill.Quantity,
		Price:          fill.Price,
		Time:           cb.Time,
		TradeCount:     e.pos.TradeCount(),
		PortfolioValue: e.exec.PortfolioValue(),
		Reason:         string(reason),
		EntryPrice:     res.EntryPrice,
		PnLPercent:     res.PnLPercent * 100,
		Duration:       res.Duration,
	}); err != nil {
		e.emitter.Warn("journal write failed", events.Fields{
			"symbol": e.symbol,
			"error":  err.Error(),
		})
	}

	if e.cfg.Behavior.LogTrades {
		e.emitter.Trade(string(journal.ActionExit), events.Fields{
			"symbol":           e.symbol,
			"price":            fill.Price,
			"reason":           string(reason),
			"entry_price":      res.EntryPrice,
			"pnl_percent":      res.PnLPercent * 100,
			"duration_minutes": res.Duration.Minutes(),
		})
	}
}

func (e *Engine) indicatorFields(snap market.Snapshot) events.Fields {
	f := events.Fields{
		"symbol": e.symbol,
		"price":  snap.Close,
		"ema":    snap.EMA,
		"rsi":    snap.RSI,
	}
	if snap.OBV != nil {
		f["obv"] = *snap.OBV
	}
	if snap.Bands != nil {
		f["bb_upper"] = snap.Bands.Upper
		f["bb_middle"] = snap.Bands.Middle
		f["bb_lower"] = snap.Bands.Lower
	}
	if snap.MACD != nil {
		f["macd"] = snap.MACD.Line
		f["macd_signal"] = snap.MACD.Signal
		f["macd_histogram"] = snap.MACD.Histogram
	}
	return f
}

// instrumentedEmitter forwards events unchanged while counting risk
// breaches.
type instrumentedEmitter struct {
	events.Emitter
	m *metrics.Metrics
}

func (ie instrumentedEmitter) Risk(event string, f events.Fields) {
	ie.m.RiskBreaches.WithLabelValues(event).Inc()
	ie.Emitter.Risk(event, f)
}
