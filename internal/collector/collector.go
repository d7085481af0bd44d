package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"StockSMA/internal/calculator"
	"StockSMA/internal/metrics"
	"StockSMA/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price    float64
	Bars     []model.PriceBar
	ByTicker map[string][]model.PriceBar
	Errors   map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol, period, _ string) ([]model.PriceBar, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.ByTicker[symbol]; ok {
		return bars, nil
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	count := 252
	if d, ok := periodDays[period]; ok && d < 365 {
		count = d * 5 / 7
		if count == 0 {
			count = 1
		}
	}
	return generateMockBars(m.Price, count), nil
}

// Calls returns the symbols requested so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   today.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector wraps a Fetcher with a per-fetch timeout, metrics and the
// lookups the HTTP layer needs.
type Collector struct {
	Fetcher Fetcher
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, timeout time.Duration, m *metrics.Metrics) *Collector {
	return &Collector{Fetcher: fetcher, Timeout: timeout, Metrics: m}
}

// History fetches bars for symbol. An empty result is ErrNoData.
func (c *Collector) History(ctx context.Context, symbol, period, interval string) ([]model.PriceBar, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	bars, err := c.Fetcher.FetchBars(ctx, symbol, period, interval)
	c.Metrics.ObserveFetch(c.Fetcher.Name(), time.Since(start), err)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, fmt.Errorf("fetch %s %s/%s: %w", symbol, period, interval, err)
		}
		return nil, fmt.Errorf("fetch %s %s/%s: %w: %w", symbol, period, interval, ErrUpstream, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s %s/%s: %w", symbol, period, interval, ErrNoData)
	}

	log.Debug().
		Str("provider", c.Fetcher.Name()).
		Str("symbol", symbol).
		Str("period", period).
		Str("interval", interval).
		Int("bars", len(bars)).
		Dur("took", time.Since(start)).
		Msg("fetched bars")
	return bars, nil
}

// TodayRange returns the high and low of the current trading day.
func (c *Collector) TodayRange(ctx context.Context, symbol string) (*model.DayRange, error) {
	bars, err := c.History(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}
	high, low, err := calculator.CalculateDayRange(bars)
	if err != nil {
		return nil, err
	}
	return &model.DayRange{Ticker: symbol, MaxValue: high, MinValue: low}, nil
}

// MarketBoard fetches the latest close and daily change for each company in
// turn. A failing ticker is reported in its row and never aborts the board.
func (c *Collector) MarketBoard(ctx context.Context, companies []model.Company) []model.MarketPrice {
	board := make([]model.MarketPrice, 0, len(companies))
	for _, co := range companies {
		row := model.MarketPrice{Name: co.Name, Ticker: co.Ticker}

		bars, err := c.History(ctx, co.Ticker, "5d", "1d")
		switch {
		case errors.Is(err, ErrNoData):
			row.Error = "No data available"
			row.NoData = true
		case err != nil:
			log.Warn().Err(err).Str("ticker", co.Ticker).Msg("market board fetch failed")
			row.Error = err.Error()
		default:
			last, change, err := calculator.CalculateChangePercent(bars)
			if err != nil {
				row.Error = err.Error()
				break
			}
			price := round2(last)
			pct := round2(change)
			row.Price = &price
			row.ChangePercent = &pct
		}
		board = append(board, row)
	}
	return board
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
