package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordReport(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordReport(&ReportEvent{
		RequestID: "req-1",
		Ticker:    "AAPL",
		Window:    20,
		StartDate: "2024-01-01",
		EndDate:   "2024-03-01",
		Interval:  "1d",
		Status:    200,
		Days:      41,
		Duration:  120 * time.Millisecond,
	}))
	require.NoError(t, r.RecordReport(&ReportEvent{Ticker: "MSFT", Status: 404, Err: "no data"}))

	var (
		count  int
		ticker string
		days   int
		ms     int64
	)
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM report_requests`).Scan(&count))
	assert.Equal(t, 2, count)

	require.NoError(t, r.db.QueryRow(
		`SELECT ticker, days, duration_ms FROM report_requests WHERE request_id = ?`, "req-1",
	).Scan(&ticker, &days, &ms))
	assert.Equal(t, "AAPL", ticker)
	assert.Equal(t, 41, days)
	assert.Equal(t, int64(120), ms)
}

func TestSQLiteRecorder_RecordBoardRefresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordBoardRefresh(&BoardRefreshEvent{Trigger: "cron", Tickers: 9, Failures: 1}))
	require.NoError(t, r.Close())

	// Reopening runs migrations again on an existing schema.
	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	var trigger string
	var failures int
	require.NoError(t, r.db.QueryRow(`SELECT source, failures FROM board_refreshes`).Scan(&trigger, &failures))
	assert.Equal(t, "cron", trigger)
	assert.Equal(t, 1, failures)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordReport(&ReportEvent{}))
	assert.NoError(t, r.RecordBoardRefresh(&BoardRefreshEvent{}))
	assert.NoError(t, r.Close())
}
