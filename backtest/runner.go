package backtest

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"btc-intraday/config"
	"btc-intraday/engine"
	"btc-intraday/events"
	"btc-intraday/journal"
	"btc-intraday/metrics"
	"btc-intraday/pkg/id"
	"btc-intraday/position"
)

// Runner wires a bar feed, a simulated portfolio and the decision engine
// into one backtest run.
type Runner struct {
	Config *config.Config
	Feed   BarFeed

	// Optional collaborators, defaulted by the engine when nil.
	Journal journal.Journal
	Emitter events.Emitter
	Metrics *metrics.Metrics

	// Dataset names the input in reports.
	Dataset string
}

// Result is a lightweight summary of a backtest run.
type Result struct {
	RunID string

	Bars  int
	Start time.Time
	End   time.Time

	StartValue float64
	EndValue   float64

	Signals int
	Trades  int
	Wins    int
	Losses  int
	WinRate float64

	// MaxDrawdown is the deepest peak-to-trough fraction seen.
	MaxDrawdown float64

	FinalStatus position.Status
}

// Run executes the backtest loop: read the next bar, feed it to the
// engine, repeat until the feed is exhausted, then finalize.
func (r *Runner) Run() (Result, error) {
	if r.Config == nil {
		return Result{}, fmt.Errorf("backtest: Config is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	defer r.Feed.Close()

	pf := NewPortfolio(r.Config.Trading.Symbol, r.Config.Environment.InitialCash)

	eng, err := engine.New(r.Config, engine.Options{
		Executor: pf,
		Journal:  r.Journal,
		Emitter:  r.Emitter,
		Metrics:  r.Metrics,
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:      id.New(),
		StartValue: r.Config.Environment.InitialCash,
	}

	for {
		b, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			break
		}

		if res.Start.IsZero() || b.Time.Before(res.Start) {
			res.Start = b.Time
		}
		if res.End.IsZero() || b.Time.After(res.End) {
			res.End = b.Time
		}

		eng.ProcessBar(b)
		res.Bars++
	}

	eng.Finalize()

	perf := eng.Performance()
	res.EndValue = pf.PortfolioValue()
	res.Signals = perf.Signals()
	res.Trades = perf.Trades()
	res.Wins = perf.Wins()
	res.Losses = perf.Losses()
	res.WinRate = perf.WinRate()
	res.MaxDrawdown = eng.Risk().State().MaxDrawdownSeen
	res.FinalStatus = eng.Position().Status()

	return res, nil
}

// Report converts a run result into an org-mode report carrying the
// configuration the run used.
func (r *Runner) Report(res Result) (*journal.RunReport, error) {
	cfgBytes, err := yaml.Marshal(r.Config)
	if err != nil {
		return nil, err
	}

	rep := &journal.RunReport{
		RunID:      res.RunID,
		Created:    time.Now().UTC(),
		Symbol:     r.Config.Trading.Symbol,
		Resolution: fmt.Sprintf("%dm", r.Config.Trading.ConsolidationMinutes),
		Dataset:    r.Dataset,
		Start:      res.Start,
		End:        res.End,
		StartValue: res.StartValue,
		EndValue:   res.EndValue,
		Signals:    res.Signals,
		Trades:     res.Trades,
		Wins:       res.Wins,
		Losses:     res.Losses,
		MaxDDPct:   res.MaxDrawdown * 100,
		Config:     cfgBytes,
	}
	rep.Derive()
	return rep, nil
}

// FeedRange derives the [from, to) bar-time range from the environment
// section. The configured end date is inclusive.
func FeedRange(cfg *config.Config) (time.Time, time.Time, error) {
	from, err := cfg.Environment.Start()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := cfg.Environment.End()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, end.Add(24 * time.Hour), nil
}

// PrintResult writes a human-readable run summary.
func PrintResult(w io.Writer, res Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", res.RunID)
	fmt.Fprintf(w, "Bars:          %d\n", res.Bars)
	fmt.Fprintf(w, "Start:         %s\n", res.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", res.End.Format(time.RFC3339))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Signals:       %d\n", res.Signals)
	fmt.Fprintf(w, "Trades:        %d\n", res.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", res.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", res.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", res.WinRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Value:   %.2f\n", res.StartValue)
	fmt.Fprintf(w, "End Value:     %.2f\n", res.EndValue)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", res.EndValue-res.StartValue)
	if res.StartValue > 0 {
		fmt.Fprintf(w, "Return:        %.2f%%\n", (res.EndValue-res.StartValue)/res.StartValue*100)
	}
	if res.MaxDrawdown > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", res.MaxDrawdown*100)
	}

	if res.FinalStatus == position.Open {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Note: position still open at end of data")
	}

	fmt.Fprintln(w)
}
