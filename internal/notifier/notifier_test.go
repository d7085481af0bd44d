package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockSMA/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestFormatBoard(t *testing.T) {
	board := []model.MarketPrice{
		{Name: "Apple Inc.", Ticker: "AAPL", Price: ptr(190.12), ChangePercent: ptr(1.5)},
		{Name: "Tesla Inc.", Ticker: "TSLA", Price: ptr(170), ChangePercent: ptr(-2.25)},
		{Name: "Gone", Ticker: "GONE", Error: "No data available"},
	}
	msg := FormatBoard(board, time.Date(2024, 6, 14, 16, 0, 0, 0, time.UTC))

	assert.Contains(t, msg, "2024-06-14 16:00")
	assert.Contains(t, msg, "🟢 AAPL 190.12 (+1.50%)")
	assert.Contains(t, msg, "🔴 TSLA 170.00 (-2.25%)")
	assert.Contains(t, msg, "⚪ GONE: No data available")
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken123/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token123", "42", "")
	n.Client.SetBaseURL(srv.URL)

	require.NoError(t, n.Notify(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "<b>hi</b>", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramNotifier_RetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("t", "1", "")
	n.Client.SetBaseURL(srv.URL)
	n.Retries = 1

	err := n.Notify(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTelegramNotifier_ContextCancelsBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("t", "1", "")
	n.Client.SetBaseURL(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, n.Notify(ctx, "x"), context.DeadlineExceeded)
}
