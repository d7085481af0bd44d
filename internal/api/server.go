// Package api serves the SMA report endpoints over HTTP.
package api

import (
	"net/http"
	"time"

	"StockSMA/internal/collector"
	"StockSMA/internal/metrics"
	"StockSMA/internal/model"
	"StockSMA/internal/recorder"
	"StockSMA/internal/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options tunes the HTTP layer.
type Options struct {
	HistoryPeriod  string        // period fetched for SMA reports
	RequestTimeout time.Duration // per-request deadline
	RateLimitRPS   float64       // 0 disables inbound rate limiting
	RateLimitBurst int
	Companies      []model.Company
}

// Server holds the dependencies of every handler.
type Server struct {
	collector *collector.Collector
	board     *scheduler.Scheduler
	recorder  recorder.Recorder
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	validate  *validator.Validate
	opts      Options
	now       func() time.Time
}

// NewServer creates a Server. A nil recorder records nothing and a nil
// gatherer serves the default Prometheus registry.
func NewServer(col *collector.Collector, board *scheduler.Scheduler, rec recorder.Recorder, m *metrics.Metrics, gatherer prometheus.Gatherer, opts Options) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if opts.HistoryPeriod == "" {
		opts.HistoryPeriod = "1y"
	}
	if len(opts.Companies) == 0 {
		opts.Companies = model.DefaultCompanies
	}
	return &Server{
		collector: col,
		board:     board,
		recorder:  rec,
		metrics:   m,
		gatherer:  gatherer,
		validate:  newValidator(),
		opts:      opts,
		now:       time.Now,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer)
	if s.opts.RateLimitRPS > 0 {
		r.Use(newRateLimiter(s.opts.RateLimitRPS, s.opts.RateLimitBurst).Handler)
	}
	r.Use(s.observe)
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/stocks", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/candlestick-chart-tradingview", s.handleTradingView)
		r.Get("/sma-report/details", s.handleReportDetails)
		r.Get("/sma-report/export", s.handleReportExport)
		r.Get("/stocks/Pie-chart", s.handlePieChart)
		r.Get("/stocks/market-prices", s.handleMarketPrices)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}
