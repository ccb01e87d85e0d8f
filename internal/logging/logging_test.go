package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNew_JSONWithServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{ServiceName: "shop-api", Environment: "test", Level: "debug"})

	logger.Debug("hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "shop-api", line["service"])
	assert.Equal(t, "test", line["env"])
	assert.Equal(t, "v", line["k"])
}

func TestNew_TextFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "warn", Format: "text"})

	logger.Info("skipped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "msg=kept")
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{ServiceName: "shop-api"})

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	req.Header.Set("User-Agent", "test-agent")
	r.ServeHTTP(w, req)

	reqID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, reqID, "id должен генерироваться")

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "response", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "/ping?x=1", line["path"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, reqID, line["ray"])
	assert.Equal(t, "test-agent", line["ua"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
}

func TestRequestID_Propagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFromContext(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}
