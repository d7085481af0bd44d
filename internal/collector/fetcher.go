package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	_ "time/tzdata" // exchange timezones on hosts without zoneinfo

	"StockSMA/internal/model"
)

// ErrNoData is returned when the provider has no bars for the request.
var ErrNoData = errors.New("no data found for the given ticker and period")

// ErrUpstream tags any other failure of the market-data provider.
var ErrUpstream = errors.New("market data provider failed")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns bars for symbol over period (e.g. "1y") at interval
	// (e.g. "1d"), ordered by ascending date.
	FetchBars(ctx context.Context, symbol, period, interval string) ([]model.PriceBar, error)
	Name() string
}

var periodDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 30,
	"3mo": 90,
	"6mo": 182,
	"1y":  365,
	"2y":  730,
	"5y":  1826,
	"10y": 3652,
}

// ValidPeriods lists the period values accepted by every provider.
var ValidPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// ValidIntervals lists the bar intervals accepted by every provider.
var ValidIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

// PeriodStart returns the first instant covered by period, counted back from now.
func PeriodStart(now time.Time, period string) (time.Time, error) {
	switch period {
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	case "max":
		return time.Unix(0, 0).In(now.Location()), nil
	}
	days, ok := periodDays[period]
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported period %q", period)
	}
	return now.AddDate(0, 0, -days), nil
}

// IsIntraday reports whether bars at interval carry a meaningful time of day.
func IsIntraday(interval string) bool {
	switch interval {
	case "1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h":
		return true
	}
	return false
}

// normalizeBars places bars in the exchange location, truncates daily and
// coarser bars to the exchange-local day, sorts them and keeps the last bar
// of any duplicated timestamp.
func normalizeBars(bars []model.PriceBar, interval string, loc *time.Location) []model.PriceBar {
	intraday := IsIntraday(interval)
	for i := range bars {
		t := bars[i].Date.In(loc)
		if !intraday {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		}
		bars[i].Date = t
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
