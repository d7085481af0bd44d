package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"StockSMA/internal/model"
)

// FinanceGoFetcher implements Fetcher with the piquette/finance-go chart
// client. Bars are placed in Location, the exchange timezone.
type FinanceGoFetcher struct {
	Location *time.Location
	Now      func() time.Time
}

// NewFinanceGoFetcher creates a fetcher reporting bars in the given exchange timezone.
func NewFinanceGoFetcher(loc *time.Location) *FinanceGoFetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &FinanceGoFetcher{Location: loc, Now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.PriceBar, error) {
	end := f.Now()
	start, err := PeriodStart(end, period)
	if err != nil {
		return nil, err
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval),
	}
	params.Context = &ctx

	iter := chart.Get(params)
	var bars []model.PriceBar
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, model.PriceBar{
			Date:   time.Unix(int64(bar.Timestamp), 0),
			Open:   bar.Open.InexactFloat64(),
			High:   bar.High.InexactFloat64(),
			Low:    bar.Low.InexactFloat64(),
			Close:  bar.Close.InexactFloat64(),
			Volume: float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("financego chart %s: %w", symbol, err)
	}
	return normalizeBars(bars, interval, f.Location), nil
}
