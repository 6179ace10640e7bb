package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

// RunReport collects everything one backtest run produced, ready to be
// rendered as an org-mode block.
type RunReport struct {
	RunID   string
	Created time.Time

	Symbol     string
	Resolution string
	Dataset    string

	Start time.Time
	End   time.Time

	StartValue float64
	EndValue   float64

	Signals int
	Trades  int
	Wins    int
	Losses  int

	// Derived, filled by Derive.
	NetPnL    float64
	ReturnPct float64
	WinRate   float64

	MaxDDPct float64

	Config []byte // strategy config as it ran

	Notes []string
}

// Derive fills the computed fields from the raw tallies.
func (r *RunReport) Derive() {
	r.NetPnL = r.EndValue - r.StartValue
	if r.StartValue > 0 {
		r.ReturnPct = r.NetPnL / r.StartValue * 100
	}
	if n := r.Wins + r.Losses; n > 0 {
		r.WinRate = float64(r.Wins) / float64(n) * 100
	}
}

var runOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// Org renders the report as an org-mode block.
func (r *RunReport) Org() (string, error) {
	t, err := template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrg renders the report and writes it to path.
func (r *RunReport) WriteOrg(path string) error {
	s, err := r.Org()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const RunOrgTemplate = `
* BACKTEST: BTC Intraday {{.Symbol}} {{if .Resolution}}{{.Resolution}}{{else}}(resolution?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    btc_intraday
:RESOLUTION:  {{if .Resolution}}{{.Resolution}}{{else}}(resolution?){{end}}
:SYMBOL:      {{.Symbol}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_VAL:   {{printf "%.2f" .StartValue}}
:END_VAL:     {{printf "%.2f" .EndValue}}
:NET_PNL:     {{printf "%.2f" .NetPnL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:SIGNALS:     {{.Signals}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRate}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
{{- if .Config }}
#+begin_src yaml
{{printf "%s" .Config}}
#+end_src
{{- else }}
# (config not captured for this run)
{{- end }}

** Performance Summary
- Net P/L:      *{{printf "%.2f" .NetPnL}}*
- Return:       *{{printf "%.2f" .ReturnPct}}%*
- Max Drawdown: *{{printf "%.2f" .MaxDDPct}}%*
- Win Rate:     *{{printf "%.2f" .WinRate}}%*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
