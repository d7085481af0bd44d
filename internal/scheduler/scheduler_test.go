package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"StockSMA/internal/collector"
	"StockSMA/internal/model"
	"StockSMA/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	recorder.NoopRecorder
	mu     sync.Mutex
	boards []recorder.BoardRefreshEvent
}

func (c *countingRecorder) RecordBoardRefresh(evt *recorder.BoardRefreshEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards = append(c.boards, *evt)
	return nil
}

var companies = []model.Company{
	{Name: "Apple Inc.", Ticker: "AAPL"},
	{Name: "Broken Co.", Ticker: "BRKN"},
}

func newTestScheduler(maxAge time.Duration) (*Scheduler, *collector.MockFetcher, *countingRecorder) {
	mock := &collector.MockFetcher{
		Price:  100,
		Errors: map[string]error{"BRKN": collector.ErrNoData},
	}
	rec := &countingRecorder{}
	col := collector.NewCollector(mock, time.Second, nil)
	return NewScheduler(context.Background(), col, rec, companies, maxAge), mock, rec
}

func TestRefresh_StoresSnapshotAndRecords(t *testing.T) {
	s, _, rec := newTestScheduler(0)

	board, err := s.Refresh(context.Background(), "cli")
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Empty(t, board[0].Error)
	assert.Equal(t, "No data available", board[1].Error)

	latest, at := s.Latest()
	assert.Equal(t, board, latest)
	assert.False(t, at.IsZero())

	require.Len(t, rec.boards, 1)
	assert.Equal(t, "cli", rec.boards[0].Trigger)
	assert.Equal(t, 2, rec.boards[0].Tickers)
	assert.Equal(t, 1, rec.boards[0].Failures)
}

func TestBoard_ServesFreshSnapshot(t *testing.T) {
	s, mock, _ := newTestScheduler(time.Minute)

	_, err := s.Board(context.Background(), "http")
	require.NoError(t, err)
	calls := len(mock.Calls())

	_, err = s.Board(context.Background(), "http")
	require.NoError(t, err)
	assert.Len(t, mock.Calls(), calls, "second call within MaxAge must not fetch")
}

func TestBoard_ZeroMaxAgeAlwaysRefreshes(t *testing.T) {
	s, mock, _ := newTestScheduler(0)

	_, err := s.Board(context.Background(), "http")
	require.NoError(t, err)
	calls := len(mock.Calls())

	_, err = s.Board(context.Background(), "http")
	require.NoError(t, err)
	assert.Greater(t, len(mock.Calls()), calls)
}

func TestRefresh_CancelledCaller(t *testing.T) {
	s, _, _ := newTestScheduler(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the fetch wins the race or the cancelled wait does; neither panics.
	board, err := s.Refresh(ctx, "http")
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, board)
	}
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(0)
	require.NoError(t, s.RegisterAll(""))
	assert.Empty(t, s.Cron.Entries())

	require.NoError(t, s.RegisterAll("0 */5 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("not a cron"))
}

type fakeNotifier struct {
	texts []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func TestBoardTask_NotifiesSummary(t *testing.T) {
	s, _, rec := newTestScheduler(0)
	n := &fakeNotifier{}
	s.Notifier = n

	s.boardTask()

	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "AAPL")
	assert.Contains(t, n.texts[0], "BRKN: No data available")
	require.Len(t, rec.boards, 1)
	assert.Equal(t, "cron", rec.boards[0].Trigger)
}
