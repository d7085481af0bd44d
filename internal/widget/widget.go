// Package widget renders the HTML served by the API.
package widget

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"StockSMA/internal/model"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.ParseFS(files, "templates/*.html"))

// ChartOptions tunes the TradingView widget.
type ChartOptions struct {
	Interval string // TradingView interval code, "D" for daily
	Theme    string
	Height   int
}

// DefaultChartOptions is the daily light-theme chart.
var DefaultChartOptions = ChartOptions{Interval: "D", Theme: "Light", Height: 600}

// TradingView returns an HTML document embedding the TradingView chart
// widget for ticker. The ticker is escaped for its script context.
func TradingView(ticker string, opts ChartOptions) (string, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return "", fmt.Errorf("ticker is required")
	}
	if opts.Interval == "" {
		opts.Interval = DefaultChartOptions.Interval
	}
	if opts.Theme == "" {
		opts.Theme = DefaultChartOptions.Theme
	}
	if opts.Height <= 0 {
		opts.Height = DefaultChartOptions.Height
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "tradingview.html", struct {
		Ticker string
		ChartOptions
	}{ticker, opts})
	if err != nil {
		return "", fmt.Errorf("render tradingview widget: %w", err)
	}
	return buf.String(), nil
}

// Index renders the landing page.
func Index(w io.Writer, companies []model.Company, now time.Time) error {
	sample := "AAPL"
	if len(companies) > 0 {
		sample = companies[0].Ticker
	}
	return templates.ExecuteTemplate(w, "index.html", map[string]any{
		"Sample":    sample,
		"Start":     now.AddDate(0, -3, 0).Format("2006-01-02"),
		"End":       now.Format("2006-01-02"),
		"Companies": companies,
	})
}
