package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"btc-intraday/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate, validate or display configuration files",
	Long: `Manage strategy configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file
  show     - Print the effective configuration (defaults merged with a file)

Examples:
  intraday config init --output strategy.yaml
  intraday config validate --file strategy.yaml
  intraday config show --file strategy.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with every recognized option at its
default value.

Example:
  intraday config init --output strategy.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check that a configuration file parses, names only known sections and
passes validation.

Example:
  intraday config validate --file strategy.yaml`,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration a run would use: the defaults, overlaid with
the given file when one is supplied.

Example:
  intraday config show --file strategy.yaml`,
	RunE: runConfigShow,
}

var (
	configInitOutput   string
	configValidatePath string
	configShowPath     string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "strategy.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
	configShowCmd.Flags().StringVarP(&configShowPath, "file", "f", "", "path to config file (defaults only when omitted)")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  intraday backtest --config %s --bars data/btcusd-minute.csv\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Symbol: %s (%s, %dm decision bars)\n",
		cfg.Trading.Symbol, cfg.Trading.Market, cfg.Trading.ConsolidationMinutes)
	fmt.Printf("  Indicators: EMA(%d), RSI(%d) oversold %.0f\n",
		cfg.Indicators.EMA.Period, cfg.Indicators.RSI.Period, cfg.Indicators.RSI.Oversold)
	fmt.Printf("  Exits: stop %.2f%%, target %.2f%%, time limit %dm\n",
		cfg.Exit.StopLossPercent*100, cfg.Exit.TakeProfitPercent*100, cfg.Trading.TradeDurationMinutes)
	fmt.Printf("  Risk: max drawdown %.0f%%, daily loss %.0f%%, %s sizing\n",
		cfg.Risk.Portfolio.MaxDrawdownPercent*100, cfg.Risk.Portfolio.DailyLossLimitPercent*100,
		cfg.Risk.PositionSizing.Method)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configShowPath != "" {
		var err error
		cfg, err = config.LoadFromFile(configShowPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
