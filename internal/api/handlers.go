package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"StockSMA/internal/analyzer"
	"StockSMA/internal/collector"
	"StockSMA/internal/export"
	"StockSMA/internal/model"
	"StockSMA/internal/recorder"
	"StockSMA/internal/widget"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportResponse struct {
	Status     string                 `json:"status"`
	Details    []model.SmaPoint       `json:"details"`
	Statistics model.PeriodStatistics `json:"statistics"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := widget.Index(&buf, s.opts.Companies, s.now()); err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTradingView handles GET /stocks/candlestick-chart-tradingview.
func (s *Server) handleTradingView(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseTickerQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	html, err := widget.TradingView(q.Ticker, widget.DefaultChartOptions)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": statusSuccess,
		"html":   html,
	})
}

// handleReportDetails handles GET /stocks/sma-report/details.
func (s *Server) handleReportDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, report, err := s.buildReport(r)
	if err != nil {
		status := respondError(w, r, err)
		s.audit(r, start, q, status, nil, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reportResponse{
		Status:     statusSuccess,
		Details:    report.Details,
		Statistics: report.Statistics,
	})
	s.audit(r, start, q, http.StatusOK, report, nil)
}

// handleReportExport handles GET /stocks/sma-report/export.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, report, err := s.buildReport(r)
	if err != nil {
		status := respondError(w, r, err)
		s.audit(r, start, q, status, nil, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReportXLSX(&buf, q.Ticker, report); err != nil {
		status := respondError(w, r, err)
		s.audit(r, start, q, status, nil, err)
		return
	}
	name := fmt.Sprintf("%s_sma%d_%s_%s.xlsx", sanitizeFilename(q.Ticker), q.SMAPeriod,
		sanitizeFilename(q.StartDate), sanitizeFilename(q.EndDate))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
	s.audit(r, start, q, http.StatusOK, report, nil)
}

// buildReport parses the query, fetches history and runs the analyzer.
func (s *Server) buildReport(r *http.Request) (*reportQuery, *model.PeriodReport, error) {
	start := time.Now()
	q, err := s.parseReportQuery(r)
	if err != nil {
		s.metrics.ObserveReport("invalid_query")
		return nil, nil, err
	}

	bars, err := s.collector.History(r.Context(), q.Ticker, s.opts.HistoryPeriod, q.Timeframe)
	if err != nil {
		s.metrics.ObserveReport("fetch_error")
		return q, nil, err
	}

	report, err := analyzer.Analyze(bars, q.StartDate, q.EndDate, q.SMAPeriod)
	if err != nil {
		outcome := "error"
		if errors.Is(err, analyzer.ErrNoDataInRange) {
			outcome = "no_data_in_range"
		}
		s.metrics.ObserveReport(outcome)
		return q, nil, err
	}

	s.metrics.ObserveReport("ok")
	log.Debug().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("ticker", q.Ticker).
		Int("bars", len(bars)).
		Int("days", len(report.Details)).
		Dur("took", time.Since(start)).
		Msg("sma report built")
	return q, report, nil
}

// audit stores request metadata. Failures are logged and never reach the client.
func (s *Server) audit(r *http.Request, start time.Time, q *reportQuery, status int, report *model.PeriodReport, reqErr error) {
	evt := &recorder.ReportEvent{
		RequestID: middleware.GetReqID(r.Context()),
		Status:    status,
		Duration:  time.Since(start),
	}
	if q != nil {
		evt.Ticker = q.Ticker
		evt.Window = q.SMAPeriod
		evt.StartDate = q.StartDate
		evt.EndDate = q.EndDate
		evt.Interval = q.Timeframe
	} else {
		evt.Ticker = r.URL.Query().Get("ticker")
	}
	if report != nil {
		evt.Days = len(report.Details)
	}
	if reqErr != nil {
		evt.Err = reqErr.Error()
	}
	if err := s.recorder.RecordReport(evt); err != nil {
		log.Error().Err(err).Msg("record report request")
	}
}

// handlePieChart handles GET /stocks/stocks/Pie-chart. Errors use the
// {"error": message} shape its clients expect.
func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))
	if ticker == "" {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "Ticker symbol is required."})
		return
	}

	rng, err := s.collector.TodayRange(r.Context(), ticker)
	if err != nil {
		status, _ := classify(err)
		msg := err.Error()
		if errors.Is(err, collector.ErrNoData) {
			msg = "No data available for the provided ticker."
		}
		writeJSON(w, r, status, map[string]string{"error": msg})
		return
	}
	writeJSON(w, r, http.StatusOK, rng)
}

// handleMarketPrices handles GET /stocks/stocks/market-prices.
func (s *Server) handleMarketPrices(w http.ResponseWriter, r *http.Request) {
	board, err := s.board.Board(r.Context(), "http")
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": statusSuccess,
		"data":   board,
	})
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
