package events

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	t.Parallel()

	c := &Capture{}
	c.Trade("ENTRY", Fields{"symbol": "BTCUSD", "price": 100.0})
	c.Signal(SignalEntry, Fields{"symbol": "BTCUSD"})
	c.Risk("MAX_DRAWDOWN_EXCEEDED", Fields{"drawdown": 0.2})
	c.Trade("EXIT", Fields{"symbol": "BTCUSD", "price": 101.0})

	require.Len(t, c.Events, 4)
	assert.Equal(t, []string{"ENTRY", "EXIT"}, c.Labels("trade"))
	assert.Equal(t, []string{"MAX_DRAWDOWN_EXCEEDED"}, c.Labels("risk"))
	assert.Empty(t, c.ByKind("performance"))

	// Captured fields are copies, later mutation must not leak in.
	f := Fields{"k": 1}
	c.Performance("DAILY", f)
	f["k"] = 2
	assert.Equal(t, 1, c.ByKind("performance")[0].Fields["k"])
}

func TestLogEmitter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	e := NewLog(l)

	e.Trade("ENTRY", Fields{"symbol": "BTCUSD", "quantity": 0.99, "price": 50000.0})
	out := buf.String()
	assert.Contains(t, out, "msg=trade")
	assert.Contains(t, out, "action=ENTRY")
	assert.Contains(t, out, "symbol=BTCUSD")

	buf.Reset()
	e.Warn("configuration load failed", Fields{"path": "missing.yaml"})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "path=missing.yaml")
}

func TestLogEmitterStableFieldOrder(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	ea := NewLog(slog.New(slog.NewTextHandler(&a, nil)))
	eb := NewLog(slog.New(slog.NewTextHandler(&b, nil)))

	f := Fields{"zeta": 1, "alpha": 2, "mid": 3}
	ea.Risk("DAILY_LOSS_LIMIT_EXCEEDED", f)
	eb.Risk("DAILY_LOSS_LIMIT_EXCEEDED", f)

	stripTime := func(s string) string {
		i := bytes.IndexByte([]byte(s), ' ')
		return s[i:]
	}
	assert.Equal(t, stripTime(a.String()), stripTime(b.String()))
}
