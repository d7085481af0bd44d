package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockSMA/internal/collector"
	"StockSMA/internal/model"
	"StockSMA/internal/notifier"
	"StockSMA/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Notifier delivers a board summary after scheduled refreshes.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler keeps the market board fresh. Refreshes triggered by cron and by
// HTTP requests share one in-flight fetch.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  Notifier // optional
	Companies []model.Company
	MaxAge    time.Duration // snapshots younger than this are served as is
	Ctx       context.Context

	group   singleflight.Group
	mu      sync.RWMutex
	latest  []model.MarketPrice
	updated time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, companies []model.Company, maxAge time.Duration) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Recorder:  rec,
		Companies: companies,
		MaxAge:    maxAge,
		Ctx:       ctx,
	}
}

// RegisterAll registers the board refresh. An empty schedule disables it.
func (s *Scheduler) RegisterAll(boardCron string) error {
	if boardCron == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(boardCron, s.boardTask); err != nil {
		return fmt.Errorf("register board task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) boardTask() {
	board, err := s.Refresh(s.Ctx, "cron")
	if err != nil {
		log.Error().Err(err).Msg("board refresh")
		return
	}
	if s.Notifier == nil {
		return
	}
	_, at := s.Latest()
	if err := s.Notifier.Notify(s.Ctx, notifier.FormatBoard(board, at)); err != nil {
		log.Error().Err(err).Msg("send board notification")
	}
}

// Latest returns the most recent board snapshot and when it was taken.
func (s *Scheduler) Latest() ([]model.MarketPrice, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.updated
}

// Board serves the cached snapshot while it is younger than MaxAge and
// refreshes otherwise.
func (s *Scheduler) Board(ctx context.Context, trigger string) ([]model.MarketPrice, error) {
	if s.MaxAge > 0 {
		if board, at := s.Latest(); board != nil && time.Since(at) < s.MaxAge {
			return board, nil
		}
	}
	return s.Refresh(ctx, trigger)
}

// Refresh fetches the whole board. Concurrent callers wait on the same fetch;
// ctx only bounds how long this caller waits.
func (s *Scheduler) Refresh(ctx context.Context, trigger string) ([]model.MarketPrice, error) {
	ch := s.group.DoChan("board", func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx), trigger), nil
	})
	select {
	case res := <-ch:
		return res.Val.([]model.MarketPrice), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Scheduler) refresh(ctx context.Context, trigger string) []model.MarketPrice {
	start := time.Now()
	board := s.Collector.MarketBoard(ctx, s.Companies)

	failures := 0
	for _, p := range board {
		if p.Error != "" {
			failures++
		}
	}

	s.mu.Lock()
	s.latest = board
	s.updated = time.Now()
	s.mu.Unlock()

	elapsed := time.Since(start)
	log.Info().
		Str("trigger", trigger).
		Int("tickers", len(board)).
		Int("failures", failures).
		Dur("elapsed", elapsed).
		Msg("market board refreshed")

	if err := s.Recorder.RecordBoardRefresh(&recorder.BoardRefreshEvent{
		Trigger:  trigger,
		Tickers:  len(board),
		Failures: failures,
		Duration: elapsed,
	}); err != nil {
		log.Error().Err(err).Msg("record board refresh")
	}
	return board
}
