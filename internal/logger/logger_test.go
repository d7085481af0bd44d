package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONToWriterAndFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	require.NoError(t, InitWithWriter(Config{Level: "info", Format: "json", File: file}, &buf))
	log.Info().Str("ticker", "AAPL").Msg("report served")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "AAPL", entry["ticker"])
	assert.Equal(t, "smaapi", entry["service"])

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "report served")
}

func TestInit_InvalidLevel(t *testing.T) {
	assert.Error(t, InitWithWriter(Config{Level: "loud"}, &bytes.Buffer{}))
}
