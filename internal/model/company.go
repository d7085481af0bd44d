package model

import "encoding/json"

// Company is a listed company shown on the market board.
type Company struct {
	Name   string `json:"name" yaml:"name"`
	Ticker string `json:"ticker" yaml:"ticker"`
}

// DefaultCompanies is the predefined market board.
var DefaultCompanies = []Company{
	{Name: "Apple Inc.", Ticker: "AAPL"},
	{Name: "Microsoft Corp.", Ticker: "MSFT"},
	{Name: "Amazon.com Inc.", Ticker: "AMZN"},
	{Name: "Tesla Inc.", Ticker: "TSLA"},
	{Name: "Alphabet Inc. Class A", Ticker: "GOOGL"},
	{Name: "NVIDIA Corp.", Ticker: "NVDA"},
	{Name: "Meta Platforms Inc.", Ticker: "META"},
	{Name: "Johnson & Johnson", Ticker: "JNJ"},
	{Name: "Procter & Gamble Co.", Ticker: "PG"},
}

// MarketPrice is one row of the market board. Price and ChangePercent are
// null when the ticker had no data and omitted when the lookup failed.
type MarketPrice struct {
	Name          string   `json:"name"`
	Ticker        string   `json:"ticker"`
	Price         *float64 `json:"price"`
	ChangePercent *float64 `json:"change_percent"`
	Error         string   `json:"error,omitempty"`
	NoData        bool     `json:"-"`
}

func (p MarketPrice) MarshalJSON() ([]byte, error) {
	if p.Error != "" && !p.NoData && p.Price == nil {
		return json.Marshal(struct {
			Name   string `json:"name"`
			Ticker string `json:"ticker"`
			Error  string `json:"error"`
		}{p.Name, p.Ticker, p.Error})
	}
	type row MarketPrice
	return json.Marshal(row(p))
}

// DayRange is the high and low of the latest trading day.
type DayRange struct {
	Ticker   string  `json:"ticker"`
	MaxValue float64 `json:"max_value"`
	MinValue float64 `json:"min_value"`
}
