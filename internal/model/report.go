package model

import (
	"encoding/json"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// SmaPoint is one day of an SMA report.
type SmaPoint struct {
	Date       time.Time
	ClosePrice float64
	SMA        float64
	Difference float64
}

// MarshalJSON renders the date as a calendar day, keeping the time of day
// only for intraday bars.
func (p SmaPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date       string  `json:"date"`
		ClosePrice float64 `json:"close_price"`
		SMA        float64 `json:"sma"`
		Difference float64 `json:"difference"`
	}{
		Date:       FormatDate(p.Date),
		ClosePrice: p.ClosePrice,
		SMA:        p.SMA,
		Difference: p.Difference,
	})
}

// PeriodStatistics aggregates how the close moved relative to the SMA
// within the reported window.
type PeriodStatistics struct {
	AboveCount         int `json:"Above SMA"`
	BelowCount         int `json:"Below SMA"`
	CrossingAboveCount int `json:"Crossing Above"`
	CrossingBelowCount int `json:"Crossing Below"`
}

// PeriodReport is the result of analyzing a date window.
type PeriodReport struct {
	Details    []SmaPoint       `json:"details"`
	Statistics PeriodStatistics `json:"statistics"`
}

// FormatDate formats t as YYYY-MM-DD, or YYYY-MM-DD HH:MM:SS when t is not
// at midnight.
func FormatDate(t time.Time) string {
	h, m, s := t.Clock()
	if h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}
