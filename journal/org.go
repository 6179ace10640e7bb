package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a Record as an org-mode block suitable for pasting
// into a trading journal. Structured facts live in a PROPERTIES drawer for
// easy search; exit rows carry the outcome fields and a review placeholder.
func FormatTradeOrg(r Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "** %s: %s (%s)\n", r.Action, r.Symbol, shortID(r.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", r.ID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", r.Symbol)
	fmt.Fprintf(&b, ":ACTION: %s\n", r.Action)
	fmt.Fprintf(&b, ":QUANTITY: %.6f\n", r.Quantity)
	fmt.Fprintf(&b, ":PRICE: %.2f\n", r.Price)
	fmt.Fprintf(&b, ":TIME: %s\n", r.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":TRADE_NO: %d\n", r.TradeCount)
	fmt.Fprintf(&b, ":PORTFOLIO_VAL: %.2f\n", r.PortfolioValue)
	if r.Action == ActionExit {
		fmt.Fprintf(&b, ":REASON: %s\n", r.Reason)
		fmt.Fprintf(&b, ":ENTRY_PRICE: %.2f\n", r.EntryPrice)
		fmt.Fprintf(&b, ":PNL_PCT: %.4f\n", r.PnLPercent)
		fmt.Fprintf(&b, ":HELD: %s\n", r.Duration)
	}
	b.WriteString(":END:\n")

	if r.Action == ActionExit {
		b.WriteString("\n*** Review\n- \n")
	}

	return b.String()
}

// FormatTradesOrg renders multiple records separated by blank lines.
func FormatTradesOrg(recs []Record) string {
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(r))
	}
	return b.String()
}

// FormatSummaryOrg renders win/loss tallies as a small org table.
func FormatSummaryOrg(s Summary) string {
	var b strings.Builder
	b.WriteString("** Journal Summary\n")
	b.WriteString("| Metric  | Value |\n")
	b.WriteString("|---------+-------|\n")
	fmt.Fprintf(&b, "| Entries | %d |\n", s.Entries)
	fmt.Fprintf(&b, "| Exits   | %d |\n", s.Exits)
	fmt.Fprintf(&b, "| Wins    | %d |\n", s.Wins)
	fmt.Fprintf(&b, "| Losses  | %d |\n", s.Losses)
	fmt.Fprintf(&b, "| Net P/L | %.4f%% |\n", s.NetPnLPercent)
	if n := s.Wins + s.Losses; n > 0 {
		fmt.Fprintf(&b, "| Win Rate | %.2f%% |\n", float64(s.Wins)/float64(n)*100)
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
