package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingSMA(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		sma    []float64
		ok     []bool
	}{
		{
			name:   "window of three",
			prices: []float64{10, 20, 30, 40, 50},
			period: 3,
			sma:    []float64{0, 0, 20, 30, 40},
			ok:     []bool{false, false, true, true, true},
		},
		{
			name:   "window of one is the price",
			prices: []float64{1.5, 2.5},
			period: 1,
			sma:    []float64{1.5, 2.5},
			ok:     []bool{true, true},
		},
		{
			name:   "window longer than series",
			prices: []float64{1, 2},
			period: 5,
			sma:    []float64{0, 0},
			ok:     []bool{false, false},
		},
		{
			name:   "empty series",
			prices: nil,
			period: 2,
			sma:    []float64{},
			ok:     []bool{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sma, ok, err := RollingSMA(tt.prices, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.InDeltaSlice(t, tt.sma, sma, 1e-9)
		})
	}
}

func TestRollingSMA_InvalidPeriod(t *testing.T) {
	for _, p := range []int{0, -3} {
		_, _, err := RollingSMA([]float64{1, 2, 3}, p)
		assert.Error(t, err, "period %d", p)
	}
}

func TestRollingSMA_MatchesWindowMean(t *testing.T) {
	prices := []float64{101.25, 99.5, 102.75, 98, 100.5, 103.25, 97.75, 104}
	period := 4
	sma, ok, err := RollingSMA(prices, period)
	require.NoError(t, err)
	for i := period - 1; i < len(prices); i++ {
		require.True(t, ok[i])
		sum := 0.0
		for _, p := range prices[i-period+1 : i+1] {
			sum += p
		}
		assert.InDelta(t, sum/float64(period), sma[i], 1e-9, "index %d", i)
	}
}

func TestRollingSMA_FlatWindowIsExact(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		from   int // first index whose window is flat
	}{
		{"after a step", []float64{187.1, 187.3, 187.3, 187.3, 187.3, 187.3}, 3, 3},
		{"tenths", []float64{0.1, 0.1, 0.1, 0.1}, 3, 2},
		{"long run", []float64{99.99, 100.01, 33.33, 33.33, 33.33, 33.33, 33.33, 33.33}, 4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sma, ok, err := RollingSMA(tt.prices, tt.period)
			require.NoError(t, err)
			for i := tt.from; i < len(tt.prices); i++ {
				require.True(t, ok[i])
				assert.Equal(t, tt.prices[i], sma[i], "index %d", i)
			}
		})
	}
}
