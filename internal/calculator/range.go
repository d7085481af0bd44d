package calculator

import (
	"errors"

	"StockSMA/internal/model"
)

// CalculateDayRange returns the high and low of the first bar, which for a
// one-day request is the current trading day.
func CalculateDayRange(bars []model.PriceBar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	return bars[0].High, bars[0].Low, nil
}

// CalculateChangePercent returns the last close and its percentage change
// from the previous close. With a single bar the change is zero.
func CalculateChangePercent(bars []model.PriceBar) (last, changePct float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	last = bars[len(bars)-1].Close
	prev := last
	if len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	if prev == 0 {
		return last, 0, errors.New("previous close is zero")
	}
	return last, (last - prev) / prev * 100, nil
}
