package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/code19m/errx"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/catalog/meta"
	"github.com/rise-and-shine/catalog/observability/logger"
)

func TestJSONLogger(t *testing.T) {
	var out bytes.Buffer
	log, err := logger.New(logger.Config{Level: "info", Encoding: "json"}, logger.WithWriter(&out))
	require.NoError(t, err)

	ctx := context.WithValue(t.Context(), meta.TraceID, "trace-1")
	log.Named("query.planner").WithContext(ctx).With("components", 2).Info("query done")
	log.Debug("suppressed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "query done", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "query.planner", entry["logger"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.InDelta(t, 2, entry["components"], 0)
}

func TestErrorxFields(t *testing.T) {
	var out bytes.Buffer
	log, err := logger.New(logger.Config{Level: "debug", Encoding: "json"}, logger.WithWriter(&out))
	require.NoError(t, err)

	log.Errorx(errx.New("boom", errx.WithCode("BAD_PAGE_TOKEN"), errx.WithType(errx.T_Validation)))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "BAD_PAGE_TOKEN", entry["error_code"])
	assert.Equal(t, errx.T_Validation.String(), entry["error_type"])
}

func TestPrettyLogger(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	log, err := logger.New(logger.Config{Level: "debug", Encoding: "pretty"}, logger.WithWriter(&out))
	require.NoError(t, err)

	log.Named("search").With("endpoint", "patients", "rows", map[string]any{"scanned": 3}).Warn("slow search")

	text := out.String()
	assert.Contains(t, text, "WARN  search slow search\n")
	assert.Contains(t, text, "    endpoint: patients\n")
	assert.Contains(t, text, `"scanned": 3`)
}

func TestDisabledLogger(t *testing.T) {
	log, err := logger.New(logger.Config{Disable: true})
	require.NoError(t, err)
	log.Info("nothing")
	assert.NoError(t, log.Sync())
}

func TestBadLevel(t *testing.T) {
	_, err := logger.New(logger.Config{Level: "loud", Encoding: "json"})
	require.Error(t, err)
}
