package journal

import (
	"database/sql"
	"fmt"
	"time"
)

const recordColumns = `id, symbol, action, quantity, price, time, trade_count, portfolio_value, reason, entry_price, pnl_percent, duration_seconds`

// GetTrade returns a single record by ID.
func (j *SQLite) GetTrade(id string) (Record, error) {
	row := j.db.QueryRow(`
		SELECT `+recordColumns+`
		FROM trades
		WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Record{}, fmt.Errorf("trade %q not found", id)
		}
		return Record{}, err
	}
	return rec, nil
}

// ListTradesBetween returns records whose time is within [start, end),
// ordered by time.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]Record, error) {
	rows, err := j.db.Query(`
		SELECT `+recordColumns+`
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary tallies everything journaled so far. An exit with positive
// realized P&L counts as a win, anything else as a loss.
type Summary struct {
	Entries       int
	Exits         int
	Wins          int
	Losses        int
	NetPnLPercent float64
}

func (j *SQLite) Summarize() (Summary, error) {
	var s Summary

	row := j.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN action = 'ENTRY' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = 'EXIT' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = 'EXIT' AND pnl_percent > 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = 'EXIT' AND pnl_percent <= 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = 'EXIT' THEN pnl_percent ELSE 0 END), 0)
		FROM trades`)

	err := row.Scan(&s.Entries, &s.Exits, &s.Wins, &s.Losses, &s.NetPnLPercent)
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec    Record
		action string
		secs   float64
	)

	err := row.Scan(
		&rec.ID,
		&rec.Symbol,
		&action,
		&rec.Quantity,
		&rec.Price,
		&rec.Time,
		&rec.TradeCount,
		&rec.PortfolioValue,
		&rec.Reason,
		&rec.EntryPrice,
		&rec.PnLPercent,
		&secs,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Action = Action(action)
	rec.Duration = time.Duration(secs * float64(time.Second))
	return rec, nil
}
