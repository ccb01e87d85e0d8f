package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader заголовок с идентификатором запроса
	RequestIDHeader = "X-Request-ID"
	// CtxKeyRequestID ключ gin-контекста с идентификатором запроса
	CtxKeyRequestID = "request_id"
)

// RequestID берет X-Request-ID из запроса или генерирует новый (UUIDv4)
// и возвращает его в ответе.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(CtxKeyRequestID, reqID)
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}

// RequestIDFromContext возвращает идентификатор запроса, если он был установлен
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(CtxKeyRequestID)
}

// RequestAttrs возвращает метаданные запроса для логов:
// method, path (вместе с query), ray, ip, ua.
func RequestAttrs(c *gin.Context) []any {
	req := c.Request
	ray := req.Header.Get("CF-Ray")
	if ray == "" {
		ray = RequestIDFromContext(c)
	}
	if ray == "" {
		ray = req.Header.Get(RequestIDHeader)
	}
	return []any{
		slog.String("method", req.Method),
		slog.String("path", req.URL.RequestURI()),
		slog.String("ray", ray),
		slog.String("ip", c.ClientIP()),
		slog.String("ua", req.UserAgent()),
	}
}

// RequestLogger пишет одну строку на запрос после его обработки.
// Ответы 5xx пишутся с уровнем Error, 4xx с уровнем Warn.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := append(RequestAttrs(c),
			slog.Int("status", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "response", attrs...)
	}
}
