package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intraday",
	Short: "A single-instrument BTC intraday strategy backtester",
	Long: `Intraday runs a 5-minute BTC trading strategy over historical minute bars.

It provides tools for:
  - Backtesting the EMA/RSI/OBV entry strategy against CSV bar data
  - Risk-managed position sizing with drawdown and daily-loss limits
  - Trade journaling to SQLite or CSV, with org-mode run reports
  - Prometheus metrics for run observability

Environment: INTRADAY_CONFIG and INTRADAY_DB override the default config
and journal paths. A local .env file is read at startup.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// envOr returns the environment value for key, or def when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
