package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config описывает параметры логгера
type Config struct {
	ServiceName string
	Environment string
	Level       string
	Format      string // json | text
}

// ParseLevel переводит строковый уровень в slog.Level; неизвестное значение дает Info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger создает логгер, пишущий в stdout
func NewLogger(cfg Config) *slog.Logger {
	return New(os.Stdout, cfg)
}

// New создает логгер, пишущий в w
func New(w io.Writer, cfg Config) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Level))

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Environment),
	)
}

// Discard возвращает логгер, который ничего не пишет (для тестов и nil-зависимостей)
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
