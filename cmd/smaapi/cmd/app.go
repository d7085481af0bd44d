package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"StockSMA/internal/collector"
	"StockSMA/internal/config"
	"StockSMA/internal/metrics"
	"StockSMA/internal/recorder"
)

// newFetcher selects the market-data provider.
func newFetcher(c *config.Config) collector.Fetcher {
	ds := c.DataSource
	switch ds.Provider {
	case "financego":
		return collector.NewFinanceGoFetcher(c.Location())
	case "alpaca":
		return collector.NewAlpacaFetcher(ds.AlpacaKey, ds.AlpacaSecret, ds.BaseURL, ds.UpstreamTimeout, c.Location())
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(ds.BaseURL, ds.Proxy)
	}
}

func newCollector(c *config.Config, m *metrics.Metrics) *collector.Collector {
	fetcher := newFetcher(c)
	log.Info().Str("provider", fetcher.Name()).Msg("data source selected")
	return collector.NewCollector(fetcher, c.DataSource.UpstreamTimeout, m)
}

// newRecorder opens the SQLite audit log, falling back to noop.
func newRecorder(c *config.Config) recorder.Recorder {
	if c.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(c.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newMetrics() (*metrics.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return metrics.New(reg), reg
}
