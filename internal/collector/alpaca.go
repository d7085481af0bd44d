package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockSMA/internal/model"
)

// BarsClient is the part of the Alpaca market data client the fetcher uses.
type BarsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	Client   BarsClient
	Location *time.Location
	Now      func() time.Time
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
// Each HTTP request is bounded by timeout.
func NewAlpacaFetcher(apiKey, apiSecret, baseURL string, timeout time.Duration, loc *time.Location) *AlpacaFetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:     apiKey,
			APISecret:  apiSecret,
			BaseURL:    baseURL,
			HTTPClient: &http.Client{Timeout: timeout},
		}),
		Location: loc,
		Now:      time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// alpacaTimeFrame maps a Yahoo-style interval onto an Alpaca timeframe.
func alpacaTimeFrame(interval string) (marketdata.TimeFrame, error) {
	switch interval {
	case "1m":
		return marketdata.NewTimeFrame(1, marketdata.Min), nil
	case "2m":
		return marketdata.NewTimeFrame(2, marketdata.Min), nil
	case "5m":
		return marketdata.NewTimeFrame(5, marketdata.Min), nil
	case "15m":
		return marketdata.NewTimeFrame(15, marketdata.Min), nil
	case "30m":
		return marketdata.NewTimeFrame(30, marketdata.Min), nil
	case "60m", "1h":
		return marketdata.NewTimeFrame(1, marketdata.Hour), nil
	case "1d":
		return marketdata.OneDay, nil
	case "1wk":
		return marketdata.NewTimeFrame(1, marketdata.Week), nil
	case "1mo":
		return marketdata.NewTimeFrame(1, marketdata.Month), nil
	case "3mo":
		return marketdata.NewTimeFrame(3, marketdata.Month), nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("alpaca: unsupported interval %q", interval)
}

func (f *AlpacaFetcher) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.PriceBar, error) {
	tf, err := alpacaTimeFrame(interval)
	if err != nil {
		return nil, err
	}
	end := f.Now()
	start, err := PeriodStart(end, period)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// GetBars takes no context, so the call is raced against ctx. The
	// abandoned goroutine ends when the HTTP client times out.
	type result struct {
		bars []marketdata.Bar
		err  error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := f.Client.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: tf,
			Start:     start,
			End:       end,
		})
		done <- result{raw, err}
	}()

	var raw []marketdata.Bar
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("alpaca bars %s: %w", symbol, r.err)
		}
		raw = r.bars
	}

	bars := make([]model.PriceBar, len(raw))
	for i, b := range raw {
		bars[i] = model.PriceBar{
			Date:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return normalizeBars(bars, interval, f.Location), nil
}
