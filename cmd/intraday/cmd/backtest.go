package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"btc-intraday/backtest"
	"btc-intraday/config"
	"btc-intraday/events"
	"btc-intraday/journal"
	"btc-intraday/metrics"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the strategy against historical minute bars",
	Long: `Backtest replays a minute-bar CSV (time,open,high,low,close,volume)
through the strategy engine and prints a run summary.

Trades and the equity curve are journaled to SQLite by default; pass
--trades-csv/--equity-csv to journal to CSV files instead. A broken or
missing config file logs a warning and the run continues on defaults.

Examples:
  intraday backtest --bars data/btcusd-minute.csv
  intraday backtest --bars data/btcusd-minute.csv --config strategy.yaml --report run.org
  intraday backtest --bars data/btcusd-minute.csv --metrics-addr :9100`,
	RunE: runBacktest,
}

var (
	btBarsPath    string
	btConfigPath  string
	btDBPath      string
	btTradesCSV   string
	btEquityCSV   string
	btReportPath  string
	btMetricsAddr string
	btUseDates    bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "t", "", "path to minute-bar CSV (time,open,high,low,close,volume) (required)")
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "f", "", "path to config file (YAML or JSON, defaults when omitted)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "./intraday.sqlite", "path to SQLite journal DB (empty for in-memory)")
	backtestCmd.Flags().StringVar(&btTradesCSV, "trades-csv", "", "journal trades to this CSV file instead of SQLite")
	backtestCmd.Flags().StringVar(&btEquityCSV, "equity-csv", "", "journal the equity curve to this CSV file instead of SQLite")
	backtestCmd.Flags().StringVarP(&btReportPath, "report", "r", "", "write an org-mode run report to this path")
	backtestCmd.Flags().StringVar(&btMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run (e.g. :9100)")
	backtestCmd.Flags().BoolVar(&btUseDates, "dates", false, "restrict bars to environment.start_date..end_date from the config")

	backtestCmd.MarkFlagRequired("bars")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("config") {
		btConfigPath = envOr("INTRADAY_CONFIG", btConfigPath)
	}
	if !cmd.Flags().Changed("db") {
		btDBPath = envOr("INTRADAY_DB", btDBPath)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	emitter := events.NewLog(logger)

	cfg := config.LoadOrDefault(btConfigPath, emitter)
	if cfg.Behavior.DebugMode {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		emitter = events.NewLog(logger)
		logger.Debug("effective configuration", "config", fmt.Sprintf("%+v", *cfg))
	}

	jr, desc, err := openBacktestJournal()
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jr.Close()

	var from, to time.Time
	if btUseDates {
		from, to, err = backtest.FeedRange(cfg)
		if err != nil {
			return fmt.Errorf("environment dates: %w", err)
		}
	}

	feed, err := backtest.NewCSVBarsFeed(btBarsPath, cfg.Trading.Symbol, from, to)
	if err != nil {
		return fmt.Errorf("open bars: %w", err)
	}

	m := metrics.New("")
	if btMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: btMetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", "error", err)
			}
		}()
		defer srv.Close()
		fmt.Printf("Serving metrics on http://%s/metrics\n", btMetricsAddr)
	}

	cfgDesc := btConfigPath
	if cfgDesc == "" {
		cfgDesc = "(defaults)"
	}
	fmt.Printf("Running backtest: %s\n", cfg.Trading.Symbol)
	fmt.Printf("  Bars: %s\n", btBarsPath)
	fmt.Printf("  Config: %s\n", cfgDesc)
	fmt.Printf("  Journal: %s\n\n", desc)

	r := &backtest.Runner{
		Config:  cfg,
		Feed:    feed,
		Journal: jr,
		Emitter: emitter,
		Metrics: m,
		Dataset: filepath.Base(btBarsPath),
	}

	res, err := r.Run()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)

	if btReportPath != "" {
		rep, err := r.Report(res)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err := rep.WriteOrg(btReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("✓ Report written: %s\n", btReportPath)
	}

	return nil
}

func openBacktestJournal() (journal.Journal, string, error) {
	switch {
	case btTradesCSV != "" || btEquityCSV != "":
		if btTradesCSV == "" || btEquityCSV == "" {
			return nil, "", fmt.Errorf("both --trades-csv and --equity-csv are required for CSV journaling")
		}
		j, err := journal.NewCSV(btTradesCSV, btEquityCSV)
		if err != nil {
			return nil, "", err
		}
		return j, fmt.Sprintf("csv (%s, %s)", btTradesCSV, btEquityCSV), nil

	case btDBPath != "":
		j, err := journal.NewSQLite(btDBPath)
		if err != nil {
			return nil, "", err
		}
		return j, fmt.Sprintf("sqlite (%s)", btDBPath), nil

	default:
		return journal.NewMemory(), "in-memory (discarded)", nil
	}
}
