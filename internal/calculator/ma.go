package calculator

import "errors"

// RollingSMA computes the trailing mean of prices over period for every
// index. ok[i] is false for the first period-1 entries, which have no SMA.
//
// The running sum is Kahan-compensated, and a window made of one repeated
// price yields exactly that price, so flat closes compare equal to their SMA.
func RollingSMA(prices []float64, period int) (sma []float64, ok []bool, err error) {
	if period <= 0 {
		return nil, nil, errors.New("period must be positive")
	}
	sma = make([]float64, len(prices))
	ok = make([]bool, len(prices))

	var acc kahanSum
	run := 0 // length of the run of equal prices ending at i
	for i, p := range prices {
		acc.add(p)
		if i >= period {
			acc.add(-prices[i-period])
		}
		if i > 0 && p == prices[i-1] {
			run++
		} else {
			run = 1
		}
		if i >= period-1 {
			if run >= period {
				sma[i] = p
			} else {
				sma[i] = acc.sum / float64(period)
			}
			ok[i] = true
		}
	}
	return sma, ok, nil
}

// kahanSum is a compensated running sum.
type kahanSum struct {
	sum, comp float64
}

func (k *kahanSum) add(v float64) {
	y := v - k.comp
	t := k.sum + y
	k.comp = (t - k.sum) - y
	k.sum = t
}
