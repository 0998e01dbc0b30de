package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"DisputeDesk/pkg/correlation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestSetup_InjectsCorrelationID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := Setup(Options{Level: "info", Service: "dispute-desk", Output: &buf})

	ctx := correlation.WithID(context.Background(), "corr-1")
	l.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "corr-1", record["correlation_id"])
	assert.Equal(t, "dispute-desk", record["service"])
	assert.Equal(t, "hello", record["msg"])
}

func TestAccessLogger_LogsBodiesOnlyOnErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(CorrelationMiddleware(), AccessLogger(&buf))
	engine.POST("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	engine.POST("/bad", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{"message": "nope"}) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ok", strings.NewReader(`{"a":1}`)))
	assert.NotEmpty(t, w.Header().Get(correlation.HeaderName))
	assert.NotContains(t, buf.String(), "request_body")

	buf.Reset()
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bad", strings.NewReader(`{"a":1}`))
	req.Header.Set(correlation.HeaderName, "corr-42")
	engine.ServeHTTP(w, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corr-42", line["correlation_id"])
	assert.Equal(t, float64(http.StatusBadRequest), line["status"])
	assert.Equal(t, map[string]any{"a": float64(1)}, line["request_body"])
	assert.Equal(t, map[string]any{"message": "nope"}, line["response_body"])
}
