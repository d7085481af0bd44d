// Package analyzer derives the SMA report for a date window from a raw
// price series.
package analyzer

import (
	"fmt"
	"math"

	"StockSMA/internal/calculator"
	"StockSMA/internal/model"
)

// Analyze computes the rolling SMA over the full series, restricts it to
// [startDate, endDate] and summarizes how the close moved against the SMA
// inside that window.
//
// The SMA uses the whole history, so days early in the window still get a
// value when enough earlier bars exist. Crossing statistics only compare
// adjacent days of the window itself.
func Analyze(bars []model.PriceBar, startDate, endDate string, smaWindow int) (*model.PeriodReport, error) {
	if smaWindow < 1 {
		return nil, fmt.Errorf("%w: sma window must be positive, got %d", ErrInvalidInput, smaWindow)
	}

	series := make([]model.PriceBar, len(bars))
	for i, b := range bars {
		if b.Date.IsZero() {
			return nil, fmt.Errorf("%w: bar %d is missing its date", ErrInvalidInput, i)
		}
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			return nil, fmt.Errorf("%w: bar %d has non-numeric close", ErrComputation, i)
		}
		b.Date = Naive(b.Date)
		if i > 0 && !b.Date.After(series[i-1].Date) {
			return nil, fmt.Errorf("%w: bar %d at %s is not after %s",
				ErrInvalidInput, i, model.FormatDate(b.Date), model.FormatDate(series[i-1].Date))
		}
		series[i] = b
	}

	start, err := ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	sma, ok, err := calculator.RollingSMA(model.Closes(series), smaWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComputation, err)
	}

	var details []model.SmaPoint
	for i, b := range series {
		// Bars without a full window are dropped before the date filter.
		if !ok[i] {
			continue
		}
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		details = append(details, model.SmaPoint{
			Date:       b.Date,
			ClosePrice: b.Close,
			SMA:        sma[i],
			Difference: b.Close - sma[i],
		})
	}
	if len(details) == 0 {
		return nil, ErrNoDataInRange
	}

	return &model.PeriodReport{
		Details:    details,
		Statistics: statistics(details),
	}, nil
}

func statistics(points []model.SmaPoint) model.PeriodStatistics {
	var st model.PeriodStatistics
	for i, p := range points {
		switch {
		case p.ClosePrice > p.SMA:
			st.AboveCount++
		case p.ClosePrice < p.SMA:
			st.BelowCount++
		}
		if i == 0 {
			continue
		}
		prev := points[i-1]
		if prev.ClosePrice < prev.SMA && p.ClosePrice > p.SMA {
			st.CrossingAboveCount++
		}
		if prev.ClosePrice > prev.SMA && p.ClosePrice < p.SMA {
			st.CrossingBelowCount++
		}
	}
	return st
}
