package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(r Record) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(id, symbol, action, quantity, price, time, trade_count, portfolio_value, reason, entry_price, pnl_percent, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Symbol, string(r.Action), r.Quantity, r.Price, r.Time,
		r.TradeCount, r.PortfolioValue, r.Reason, r.EntryPrice, r.PnLPercent,
		r.Duration.Seconds(),
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, value, drawdown)
		VALUES (?, ?, ?)`,
		e.Time, e.Value, e.Drawdown,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
