package analyzer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSMA/internal/model"
)

// dailyBars builds one bar per consecutive day starting at start.
func dailyBars(start time.Time, closes ...float64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return bars
}

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAnalyze_RisingSeries(t *testing.T) {
	bars := dailyBars(jan1, 10, 20, 30, 40, 50)

	report, err := Analyze(bars, "2024-01-01", "2024-01-05", 3)
	require.NoError(t, err)

	require.Len(t, report.Details, 3)
	wantSMA := []float64{20, 30, 40}
	for i, p := range report.Details {
		assert.Equal(t, jan1.AddDate(0, 0, i+2), p.Date)
		assert.Equal(t, wantSMA[i], p.SMA)
		assert.Equal(t, 10.0, p.Difference)
	}
	assert.Equal(t, model.PeriodStatistics{AboveCount: 3}, report.Statistics)
}

func TestAnalyze_UsesHistoryBeforeWindow(t *testing.T) {
	bars := dailyBars(jan1, 10, 20, 30, 40, 50)

	report, err := Analyze(bars, "2024-01-04", "2024-01-05", 3)
	require.NoError(t, err)

	require.Len(t, report.Details, 2)
	assert.Equal(t, 30.0, report.Details[0].SMA)
	assert.Equal(t, 40.0, report.Details[1].SMA)
}

func TestAnalyze_Crossings(t *testing.T) {
	// window 2: sma = 10, 10, 15, 15, 10, 10, 15
	bars := dailyBars(jan1, 10, 10, 10, 20, 10, 10, 10, 20)

	report, err := Analyze(bars, "2024-01-01", "2024-01-08", 2)
	require.NoError(t, err)

	require.Len(t, report.Details, 7)
	st := report.Statistics
	assert.Equal(t, 2, st.AboveCount)
	assert.Equal(t, 1, st.BelowCount)
	assert.Equal(t, 0, st.CrossingAboveCount, "equal days break a crossing")
	assert.Equal(t, 1, st.CrossingBelowCount)
	assert.LessOrEqual(t, st.AboveCount+st.BelowCount, len(report.Details))
}

func TestAnalyze_StrictCrossing(t *testing.T) {
	// window 2: closes 10,8,12,9 -> sma 9,10,10.5 for days 2..4
	bars := dailyBars(jan1, 10, 8, 12, 9)

	report, err := Analyze(bars, "2024-01-01", "2024-01-04", 2)
	require.NoError(t, err)

	assert.Equal(t, model.PeriodStatistics{
		AboveCount:         1,
		BelowCount:         2,
		CrossingAboveCount: 1,
		CrossingBelowCount: 1,
	}, report.Statistics)
}

func TestAnalyze_CrossingsIgnoreBarsOutsideWindow(t *testing.T) {
	closes := []float64{10, 8, 12, 9, 14, 7, 15}
	full, err := Analyze(dailyBars(jan1, closes...), "2024-01-04", "2024-01-06", 2)
	require.NoError(t, err)

	// A crossing right before the window must not be counted.
	require.Len(t, full.Details, 3)
	assert.Equal(t, model.PeriodStatistics{
		AboveCount:         1,
		BelowCount:         2,
		CrossingAboveCount: 1,
		CrossingBelowCount: 1,
	}, full.Statistics)

	// Dropping the trailing bar outside the window changes nothing.
	trimmed, err := Analyze(dailyBars(jan1, closes[:6]...), "2024-01-04", "2024-01-06", 2)
	require.NoError(t, err)
	assert.Equal(t, full.Statistics, trimmed.Statistics)
	assert.Equal(t, full.Details, trimmed.Details)
}

func TestAnalyze_EqualityIsNeitherAboveNorBelow(t *testing.T) {
	bars := dailyBars(jan1, 5, 5, 5, 5)

	report, err := Analyze(bars, "2024-01-01", "2024-01-04", 2)
	require.NoError(t, err)

	assert.Len(t, report.Details, 3)
	assert.Equal(t, model.PeriodStatistics{}, report.Statistics)
}

func TestAnalyze_FlatFractionalClosesEqualSMA(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		end    string
		want   model.PeriodStatistics
	}{
		{
			name:   "step then flat",
			closes: []float64{187.1, 187.3, 187.3, 187.3, 187.3, 187.3},
			end:    "2024-01-06",
			want:   model.PeriodStatistics{AboveCount: 1},
		},
		{
			name:   "flat tenths",
			closes: []float64{0.1, 0.1, 0.1, 0.1},
			end:    "2024-01-04",
			want:   model.PeriodStatistics{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Analyze(dailyBars(jan1, tt.closes...), "2024-01-01", tt.end, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Statistics)

			last := report.Details[len(report.Details)-1]
			assert.Equal(t, last.ClosePrice, last.SMA)
			assert.Zero(t, last.Difference)
		})
	}
}

func TestAnalyze_DetailCountMatchesEligibleBars(t *testing.T) {
	closes := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8}
	bars := dailyBars(jan1, closes...)
	tests := []struct {
		start, end string
		window     int
		want       int
	}{
		{"2024-01-01", "2024-01-12", 1, 12},
		{"2024-01-01", "2024-01-12", 4, 9},
		{"2024-01-02", "2024-01-03", 4, 0},
		{"2024-01-03", "2024-01-06", 4, 3},
		{"2024-01-06", "2024-01-06", 6, 1},
		{"2024-01-01", "2024-01-12", 12, 1},
	}
	for _, tt := range tests {
		report, err := Analyze(bars, tt.start, tt.end, tt.window)
		if tt.want == 0 {
			assert.ErrorIs(t, err, ErrNoDataInRange)
			continue
		}
		require.NoError(t, err)
		assert.Len(t, report.Details, tt.want, "%s..%s window %d", tt.start, tt.end, tt.window)
		for _, p := range report.Details {
			assert.Equal(t, p.ClosePrice-p.SMA, p.Difference)
		}
	}
}

func TestAnalyze_StripsTimezone(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	bars := []model.PriceBar{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, ny), Close: 1},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, ny), Close: 2},
		{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, ny), Close: 3},
	}

	// In UTC the last bar would be 2024-01-04T05:00; naive comparison keeps
	// it on the end date.
	report, err := Analyze(bars, "2024-01-02", "2024-01-04", 1)
	require.NoError(t, err)

	require.Len(t, report.Details, 3)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), report.Details[2].Date)
}

func TestAnalyze_Errors(t *testing.T) {
	good := dailyBars(jan1, 1, 2, 3)
	missingDate := dailyBars(jan1, 1, 2, 3)
	missingDate[1].Date = time.Time{}
	unordered := dailyBars(jan1, 1, 2, 3)
	unordered[0], unordered[1] = unordered[1], unordered[0]
	duplicate := dailyBars(jan1, 1, 2, 3)
	duplicate[2].Date = duplicate[1].Date
	nan := dailyBars(jan1, 1, 2, 3)
	nan[1].Close = math.NaN()

	tests := []struct {
		name       string
		bars       []model.PriceBar
		start, end string
		window     int
		want       error
	}{
		{"missing date", missingDate, "2024-01-01", "2024-01-03", 1, ErrInvalidInput},
		{"unordered", unordered, "2024-01-01", "2024-01-03", 1, ErrInvalidInput},
		{"duplicate date", duplicate, "2024-01-01", "2024-01-03", 1, ErrInvalidInput},
		{"zero window", good, "2024-01-01", "2024-01-03", 0, ErrInvalidInput},
		{"bad start", good, "2024-13-01", "2024-01-03", 1, ErrInvalidInput},
		{"bad end", good, "2024-01-01", "tomorrow", 1, ErrInvalidInput},
		{"non-numeric close", nan, "2024-01-01", "2024-01-03", 1, ErrComputation},
		{"window after data", good, "2025-01-01", "2025-02-01", 1, ErrNoDataInRange},
		{"reversed range", good, "2024-01-03", "2024-01-01", 1, ErrNoDataInRange},
		{"empty series", nil, "2024-01-01", "2024-01-03", 1, ErrNoDataInRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Analyze(tt.bars, tt.start, tt.end, tt.window)
			assert.Nil(t, report)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}
