package api

import (
	"context"
	"errors"
	"net/http"

	"StockSMA/internal/analyzer"
	"StockSMA/internal/collector"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const statusSuccess = "success"

type errorResponse struct {
	Status    string            `json:"status"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, errorResponse{
		Status:    "error",
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	var qe *queryError
	switch {
	case errors.As(err, &qe):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, analyzer.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "INVALID_INPUT"
	case errors.Is(err, analyzer.ErrNoDataInRange):
		return http.StatusNotFound, "NO_DATA_IN_RANGE"
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound, "NO_DATA"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"
	case errors.Is(err, collector.ErrUpstream):
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	case errors.Is(err, analyzer.ErrComputation):
		return http.StatusInternalServerError, "COMPUTATION_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// respondError writes err in the error envelope and returns the status used.
func respondError(w http.ResponseWriter, r *http.Request, err error) int {
	status, code := classify(err)
	resp := errorResponse{
		Status:    "error",
		Code:      code,
		Message:   err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}
	var qe *queryError
	if errors.As(err, &qe) {
		resp.Fields = qe.Fields
	}
	writeJSON(w, r, status, resp)
	return status
}
