package api

import (
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"StockSMA/internal/collector"

	"github.com/go-playground/validator/v10"
)

// reportQuery holds the query parameters of the SMA report endpoints.
type reportQuery struct {
	Ticker    string `json:"ticker" validate:"required,max=20,printascii"`
	SMAPeriod int    `json:"sma_period" validate:"required,min=1,max=5000"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Timeframe string `json:"timeframe" validate:"required,interval"`
}

type tickerQuery struct {
	Ticker string `json:"ticker" validate:"required,max=20,printascii"`
}

// queryError is a request that failed parsing or validation.
type queryError struct {
	Fields map[string]string
}

func (e *queryError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("interval", func(fl validator.FieldLevel) bool {
		return slices.Contains(collector.ValidIntervals, fl.Field().String())
	})

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) check(q any) error {
	err := s.validate.Struct(q)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	qe := &queryError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		qe.Fields[fe.Field()] = validationMessage(fe)
	}
	return qe
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "interval":
		return fmt.Sprintf("must be one of %s", strings.Join(collector.ValidIntervals, ", "))
	case "printascii":
		return "must contain printable ASCII only"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func (s *Server) parseReportQuery(r *http.Request) (*reportQuery, error) {
	v := r.URL.Query()
	q := &reportQuery{
		Ticker:    strings.TrimSpace(v.Get("ticker")),
		StartDate: strings.TrimSpace(v.Get("start_date")),
		EndDate:   strings.TrimSpace(v.Get("end_date")),
		Timeframe: strings.TrimSpace(v.Get("timeframe")),
	}
	if q.Timeframe == "" {
		q.Timeframe = "1d"
	}
	if raw := strings.TrimSpace(v.Get("sma_period")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &queryError{Fields: map[string]string{"sma_period": "must be an integer"}}
		}
		q.SMAPeriod = n
	}
	if err := s.check(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Server) parseTickerQuery(r *http.Request) (*tickerQuery, error) {
	q := &tickerQuery{Ticker: strings.TrimSpace(r.URL.Query().Get("ticker"))}
	if err := s.check(q); err != nil {
		return nil, err
	}
	return q, nil
}
