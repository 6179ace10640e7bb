package journal

import "sync"

// Memory keeps every record in process. Handy for tests and for runs
// where nothing needs to outlive the process.
type Memory struct {
	mu     sync.RWMutex
	trades []Record
	equity []EquityPoint
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordTrade(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, r)
	return nil
}

func (m *Memory) RecordEquity(e EquityPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equity = append(m.equity, e)
	return nil
}

// Trades returns a copy of the journaled records in insertion order.
func (m *Memory) Trades() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, len(m.trades))
	copy(out, m.trades)
	return out
}

// Equity returns a copy of the journaled equity points in insertion order.
func (m *Memory) Equity() []EquityPoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]EquityPoint, len(m.equity))
	copy(out, m.equity)
	return out
}

func (m *Memory) Close() error {
	return nil
}
