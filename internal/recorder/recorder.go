package recorder

import "time"

// ReportEvent records one SMA report request. Only request metadata is
// stored; computed series are never persisted.
type ReportEvent struct {
	RequestID string
	Ticker    string
	Window    int
	StartDate string
	EndDate   string
	Interval  string
	Status    int
	Days      int // number of points returned
	Duration  time.Duration
	Err       string
}

// BoardRefreshEvent records one market-board refresh.
type BoardRefreshEvent struct {
	Trigger  string // "cron", "http" or "cli"
	Tickers  int
	Failures int
	Duration time.Duration
}

// Recorder persists an audit trail of served requests.
type Recorder interface {
	RecordReport(evt *ReportEvent) error
	RecordBoardRefresh(evt *BoardRefreshEvent) error
	Close() error
}
