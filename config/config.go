package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"btc-intraday/events"
)

// Config is the complete strategy configuration. Absent keys keep their
// defaults; see Default for the full set of values.
type Config struct {
	Trading     TradingConfig     `json:"trading" yaml:"trading"`
	Indicators  IndicatorsConfig  `json:"indicators" yaml:"indicators"`
	Entry       EntryConfig       `json:"entry" yaml:"entry"`
	Exit        ExitConfig        `json:"exit" yaml:"exit"`
	Risk        RiskConfig        `json:"risk" yaml:"risk"`
	Behavior    BehaviorConfig    `json:"behavior" yaml:"behavior"`
	Environment EnvironmentConfig `json:"environment" yaml:"environment"`
}

// TradingConfig contains instrument and trade-shape parameters.
type TradingConfig struct {
	Symbol               string  `json:"symbol" yaml:"symbol"`
	Market               string  `json:"market" yaml:"market"`
	Resolution           string  `json:"resolution" yaml:"resolution"`
	ConsolidationMinutes int     `json:"consolidation_minutes" yaml:"consolidation_minutes"`
	PositionSize         float64 `json:"position_size" yaml:"position_size"`
	TradeDurationMinutes int     `json:"trade_duration_minutes" yaml:"trade_duration_minutes"`
}

// IndicatorsConfig contains indicator periods and enable flags.
type IndicatorsConfig struct {
	EMA            EMAConfig       `json:"ema" yaml:"ema"`
	RSI            RSIConfig       `json:"rsi" yaml:"rsi"`
	OBV            OBVConfig       `json:"obv" yaml:"obv"`
	BollingerBands BollingerConfig `json:"bollinger_bands" yaml:"bollinger_bands"`
	MACD           MACDConfig      `json:"macd" yaml:"macd"`
}

type EMAConfig struct {
	Period int `json:"period" yaml:"period"`
}

type RSIConfig struct {
	Period   int     `json:"period" yaml:"period"`
	Oversold float64 `json:"oversold" yaml:"oversold"`
}

type OBVConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type BollingerConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Period  int     `json:"period" yaml:"period"`
	StdDev  float64 `json:"std_dev" yaml:"std_dev"`
}

type MACDConfig struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	FastPeriod   int  `json:"fast_period" yaml:"fast_period"`
	SlowPeriod   int  `json:"slow_period" yaml:"slow_period"`
	SignalPeriod int  `json:"signal_period" yaml:"signal_period"`
}

// EntryConfig groups the entry-condition toggles.
type EntryConfig struct {
	Conditions EntryConditions `json:"conditions" yaml:"conditions"`
}

// EntryConditions toggles the individual entry conditions. A disabled
// condition is vacuously true during entry evaluation.
type EntryConditions struct {
	PriceAboveEMA bool `json:"price_above_ema" yaml:"price_above_ema"`
	RSIOversold   bool `json:"rsi_oversold" yaml:"rsi_oversold"`
	OBVIncreasing bool `json:"obv_increasing" yaml:"obv_increasing"`
}

// ExitConfig contains the exit thresholds.
type ExitConfig struct {
	StopLossPercent   float64 `json:"stop_loss_percent" yaml:"stop_loss_percent"`
	TakeProfitPercent float64 `json:"take_profit_percent" yaml:"take_profit_percent"`
}

// RiskConfig contains portfolio limits and position sizing.
type RiskConfig struct {
	Portfolio      PortfolioRiskConfig  `json:"portfolio" yaml:"portfolio"`
	PositionSizing PositionSizingConfig `json:"position_sizing" yaml:"position_sizing"`
	StopLoss       StopLossConfig       `json:"stop_loss" yaml:"stop_loss"`
}

type PortfolioRiskConfig struct {
	MaxDrawdownPercent    float64 `json:"max_drawdown_percent" yaml:"max_drawdown_percent"`
	DailyLossLimitPercent float64 `json:"daily_loss_limit_percent" yaml:"daily_loss_limit_percent"`
}

// PositionSizingConfig selects the sizing method. Methods other than
// "percent_risk" behave as "fixed".
type PositionSizingConfig struct {
	Method      string            `json:"method" yaml:"method"`
	Fixed       FixedSizingConfig `json:"fixed" yaml:"fixed"`
	PercentRisk PercentRiskConfig `json:"percent_risk" yaml:"percent_risk"`
}

type FixedSizingConfig struct {
	Size float64 `json:"size" yaml:"size"`
}

type PercentRiskConfig struct {
	RiskPerTrade float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
}

type StopLossConfig struct {
	DefaultPercent float64 `json:"default_percent" yaml:"default_percent"`
}

// BehaviorConfig contains logging toggles and the warmup buffer.
type BehaviorConfig struct {
	DebugMode      bool `json:"debug_mode" yaml:"debug_mode"`
	LogPerformance bool `json:"log_performance" yaml:"log_performance"`
	LogSignals     bool `json:"log_signals" yaml:"log_signals"`
	LogTrades      bool `json:"log_trades" yaml:"log_trades"`
	LogIndicators  bool `json:"log_indicators" yaml:"log_indicators"`
	WarmupBuffer   int  `json:"warmup_buffer" yaml:"warmup_buffer"`
}

// EnvironmentConfig contains backtest environment parameters.
type EnvironmentConfig struct {
	StartDate   string  `json:"start_date" yaml:"start_date"`
	EndDate     string  `json:"end_date" yaml:"end_date"`
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
}

const dateLayout = "2006-01-02"

// Start parses the environment start date (UTC midnight).
func (e EnvironmentConfig) Start() (time.Time, error) {
	return time.Parse(dateLayout, e.StartDate)
}

// End parses the environment end date (UTC midnight).
func (e EnvironmentConfig) End() (time.Time, error) {
	return time.Parse(dateLayout, e.EndDate)
}

// TradeDuration returns the maximum holding time for one position.
func (t TradingConfig) TradeDuration() time.Duration {
	return time.Duration(t.TradeDurationMinutes) * time.Minute
}

// ConsolidationWindow returns the decision-bar width.
func (t TradingConfig) ConsolidationWindow() time.Duration {
	return time.Duration(t.ConsolidationMinutes) * time.Minute
}

// BarSpan returns the span of one input bar for the configured resolution.
// Unrecognized resolutions fall back to one minute.
func (t TradingConfig) BarSpan() time.Duration {
	switch t.Resolution {
	case "Second":
		return time.Second
	case "Hour":
		return time.Hour
	case "Daily":
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

// WarmupBars returns how many input bars must pass before the strategy may
// trade: the longest core indicator period plus the configured buffer.
func (c *Config) WarmupBars() int {
	period := c.Indicators.EMA.Period
	if c.Indicators.RSI.Period > period {
		period = c.Indicators.RSI.Period
	}
	return period + c.Behavior.WarmupBuffer
}

var knownSections = map[string]bool{
	"trading":     true,
	"indicators":  true,
	"entry":       true,
	"exit":        true,
	"risk":        true,
	"behavior":    true,
	"environment": true,
}

// LoadFromFile loads configuration from a YAML (or JSON, which YAML parses)
// file. Unknown top-level sections are rejected so configuration typos fail
// loudly; unknown nested keys are ignored and absent keys keep defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	var unknown []string
	for section := range raw {
		if !knownSections[section] {
			unknown = append(unknown, section)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown config section(s): %s", strings.Join(unknown, ", "))
	}

	// Unmarshal over a fully populated default so absent keys keep their
	// documented values, including the enabled-by-default booleans.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from path, substituting the full default
// set when the file cannot be read, parsed or validated. The failure is
// surfaced through the emitter as a warning, never as an error: a broken
// config file downgrades the run to defaults instead of stopping it. An
// empty path selects the defaults silently.
func LoadOrDefault(path string, emitter events.Emitter) *Config {
	if path == "" {
		return Default()
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		if emitter != nil {
			emitter.Warn("configuration load failed, using defaults", events.Fields{
				"path":  path,
				"error": err.Error(),
			})
		}
		return Default()
	}
	return cfg
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading.symbol is required")
	}
	switch c.Trading.Resolution {
	case "Second", "Minute", "Hour", "Daily":
	default:
		return fmt.Errorf("trading.resolution must be one of Second, Minute, Hour, Daily")
	}
	if c.Trading.ConsolidationMinutes < 1 {
		return fmt.Errorf("trading.consolidation_minutes must be at least 1")
	}
	if c.Trading.PositionSize <= 0 || c.Trading.PositionSize > 1 {
		return fmt.Errorf("trading.position_size must be in (0, 1]")
	}
	if c.Trading.TradeDurationMinutes < 1 {
		return fmt.Errorf("trading.trade_duration_minutes must be at least 1")
	}
	if c.Indicators.EMA.Period < 1 {
		return fmt.Errorf("indicators.ema.period must be at least 1")
	}
	if c.Indicators.RSI.Period < 1 {
		return fmt.Errorf("indicators.rsi.period must be at least 1")
	}
	if c.Indicators.RSI.Oversold <= 0 || c.Indicators.RSI.Oversold >= 100 {
		return fmt.Errorf("indicators.rsi.oversold must be between 0 and 100")
	}
	if c.Indicators.BollingerBands.Enabled {
		if c.Indicators.BollingerBands.Period < 1 {
			return fmt.Errorf("indicators.bollinger_bands.period must be at least 1")
		}
		if c.Indicators.BollingerBands.StdDev <= 0 {
			return fmt.Errorf("indicators.bollinger_bands.std_dev must be positive")
		}
	}
	if c.Indicators.MACD.Enabled {
		if c.Indicators.MACD.FastPeriod < 1 || c.Indicators.MACD.SignalPeriod < 1 {
			return fmt.Errorf("indicators.macd periods must be at least 1")
		}
		if c.Indicators.MACD.SlowPeriod <= c.Indicators.MACD.FastPeriod {
			return fmt.Errorf("indicators.macd.slow_period must exceed fast_period")
		}
	}
	if c.Exit.StopLossPercent <= 0 || c.Exit.StopLossPercent >= 1 {
		return fmt.Errorf("exit.stop_loss_percent must be in (0, 1)")
	}
	if c.Exit.TakeProfitPercent <= 0 || c.Exit.TakeProfitPercent >= 1 {
		return fmt.Errorf("exit.take_profit_percent must be in (0, 1)")
	}
	if c.Risk.Portfolio.MaxDrawdownPercent <= 0 || c.Risk.Portfolio.MaxDrawdownPercent > 1 {
		return fmt.Errorf("risk.portfolio.max_drawdown_percent must be in (0, 1]")
	}
	if c.Risk.Portfolio.DailyLossLimitPercent <= 0 || c.Risk.Portfolio.DailyLossLimitPercent > 1 {
		return fmt.Errorf("risk.portfolio.daily_loss_limit_percent must be in (0, 1]")
	}
	if c.Risk.PositionSizing.Fixed.Size <= 0 || c.Risk.PositionSizing.Fixed.Size > 1 {
		return fmt.Errorf("risk.position_sizing.fixed.size must be in (0, 1]")
	}
	if c.Risk.PositionSizing.Method == "percent_risk" {
		if c.Risk.PositionSizing.PercentRisk.RiskPerTrade <= 0 {
			return fmt.Errorf("risk.position_sizing.percent_risk.risk_per_trade must be positive")
		}
		if c.Risk.StopLoss.DefaultPercent <= 0 {
			return fmt.Errorf("risk.stop_loss.default_percent must be positive for percent_risk sizing")
		}
	}
	if c.Behavior.WarmupBuffer < 0 {
		return fmt.Errorf("behavior.warmup_buffer must not be negative")
	}
	if c.Environment.StartDate != "" {
		if _, err := c.Environment.Start(); err != nil {
			return fmt.Errorf("environment.start_date: %w", err)
		}
	}
	if c.Environment.EndDate != "" {
		if _, err := c.Environment.End(); err != nil {
			return fmt.Errorf("environment.end_date: %w", err)
		}
	}
	return nil
}

// Default returns the fully specified default configuration. Every
// recognized option has an explicit value here; loading a config file
// overrides only the keys it names.
func Default() *Config {
	return &Config{
		Trading: TradingConfig{
			Symbol:               "BTCUSD",
			Market:               "Bitfinex",
			Resolution:           "Minute",
			ConsolidationMinutes: 5,
			PositionSize:         0.99,
			TradeDurationMinutes: 30,
		},
		Indicators: IndicatorsConfig{
			EMA: EMAConfig{Period: 20},
			RSI: RSIConfig{Period: 14, Oversold: 30},
			OBV: OBVConfig{Enabled: true},
			BollingerBands: BollingerConfig{
				Enabled: false,
				Period:  20,
				StdDev:  2,
			},
			MACD: MACDConfig{
				Enabled:      false,
				FastPeriod:   12,
				SlowPeriod:   26,
				SignalPeriod: 9,
			},
		},
		Entry: EntryConfig{
			Conditions: EntryConditions{
				PriceAboveEMA: true,
				RSIOversold:   true,
				OBVIncreasing: true,
			},
		},
		Exit: ExitConfig{
			StopLossPercent:   0.005,
			TakeProfitPercent: 0.01,
		},
		Risk: RiskConfig{
			Portfolio: PortfolioRiskConfig{
				MaxDrawdownPercent:    0.15,
				DailyLossLimitPercent: 0.05,
			},
			PositionSizing: PositionSizingConfig{
				Method:      "fixed",
				Fixed:       FixedSizingConfig{Size: 0.99},
				PercentRisk: PercentRiskConfig{RiskPerTrade: 0.02},
			},
			StopLoss: StopLossConfig{DefaultPercent: 0.005},
		},
		Behavior: BehaviorConfig{
			DebugMode:      false,
			LogPerformance: true,
			LogSignals:     true,
			LogTrades:      true,
			LogIndicators:  false,
			WarmupBuffer:   1,
		},
		Environment: EnvironmentConfig{
			StartDate:   "2023-01-01",
			EndDate:     "2023-12-31",
			InitialCash: 1000,
		},
	}
}
