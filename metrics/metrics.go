// Package metrics provides Prometheus instrumentation for the trading engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus metric the engine updates. Each
// instance carries its own registry so independent runs do not fight
// over metric registration.
type Metrics struct {
	registry *prometheus.Registry

	// Feed metrics
	BarsProcessed    prometheus.Counter
	BarsConsolidated prometheus.Counter

	// Strategy metrics
	SignalsTotal prometheus.Counter
	TradesTotal  *prometheus.CounterVec
	ExitsTotal   *prometheus.CounterVec

	// Risk metrics
	RiskBreaches *prometheus.CounterVec
	Drawdown     prometheus.Gauge

	// Performance metrics
	PortfolioValue prometheus.Gauge
	WinRate        prometheus.Gauge
}

// New creates a Metrics instance with all metrics registered on a
// fresh registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "btc_intraday"
	}

	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Feed metrics
		BarsProcessed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "bars_processed_total",
			Help:      "Total number of minute bars processed",
		}),
		BarsConsolidated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "bars_consolidated_total",
			Help:      "Total number of consolidated bars emitted",
		}),

		// Strategy metrics
		SignalsTotal: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategy",
			Name:      "entry_signals_total",
			Help:      "Total number of entry signals generated",
		}),
		TradesTotal: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trades_total",
			Help:      "Total number of executed orders by action",
		}, []string{"action"}),
		ExitsTotal: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "exits_total",
			Help:      "Total number of position exits by reason",
		}, []string{"reason"}),

		// Risk metrics
		RiskBreaches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "limit_breaches_total",
			Help:      "Total number of risk limit breaches by event",
		}, []string{"event"}),
		Drawdown: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "current_drawdown",
			Help:      "Current drawdown from the portfolio peak as a fraction",
		}),

		// Performance metrics
		PortfolioValue: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "performance",
			Name:      "portfolio_value",
			Help:      "Current mark-to-market portfolio value",
		}),
		WinRate: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "performance",
			Name:      "win_rate_percent",
			Help:      "Win rate over closed trades in percent",
		}),
	}
}

// Registry exposes the backing registry for custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving this instance's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
