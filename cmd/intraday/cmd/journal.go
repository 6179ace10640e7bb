package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"btc-intraday/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query trade journal data",
	Long: `Query and display trade records from a SQLite journal.

Subcommands:
  trade   - Get details of a specific trade record by ID
  trades  - List trade records for a day (today when omitted)
  summary - Win/loss tallies across the whole journal

Examples:
  intraday journal trade <trade-id>
  intraday journal trades 2023-03-07
  intraday journal summary`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade record",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades [YYYY-MM-DD]",
	Short: "List trade records for a day (today when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalTrades,
}

var journalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Win/loss tallies across the whole journal",
	Args:  cobra.NoArgs,
	RunE:  runJournalSummary,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalSummaryCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./intraday.sqlite", "path to SQLite journal DB")
}

func openJournal(cmd *cobra.Command) (*journal.SQLite, error) {
	path := journalDBPath
	if !cmd.Flags().Changed("db") {
		path = envOr("INTRADAY_DB", path)
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(rec))
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	// Bar times are UTC, so journal days are too.
	day := time.Now().UTC().Format("2006-01-02")
	if len(args) == 1 {
		day = args[0]
	}
	start, end, err := dayBounds(day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(recs) == 0 {
		fmt.Printf("No trades on %s\n", day)
		return nil
	}

	fmt.Println(journal.FormatTradesOrg(recs))
	return nil
}

func runJournalSummary(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	s, err := j.Summarize()
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	fmt.Println(journal.FormatSummaryOrg(s))
	return nil
}

func dayBounds(day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return t, t.Add(24 * time.Hour), nil
}
