package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourusername/shop-api/internal/domain/repository"
)

// ExpiredRowsCleaner периодически удаляет истекшие коды и сессии.
type ExpiredRowsCleaner struct {
	codes    repository.AuthCodeRepository
	sessions repository.SessionRepository
	logger   *slog.Logger

	now func() time.Time
}

func NewExpiredRowsCleaner(codes repository.AuthCodeRepository, sessions repository.SessionRepository, logger *slog.Logger) *ExpiredRowsCleaner {
	return &ExpiredRowsCleaner{
		codes:    codes,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep удаляет строки с expires_at < now. Строка с expires_at == now еще действительна.
func (c *ExpiredRowsCleaner) Sweep(ctx context.Context) (codes, sessions int64, err error) {
	now := c.now().Unix()

	codes, codesErr := c.codes.DeleteExpired(ctx, now)
	if codesErr != nil {
		codesErr = fmt.Errorf("delete expired auth codes: %w", codesErr)
	}
	sessions, sessionsErr := c.sessions.DeleteExpired(ctx, now)
	if sessionsErr != nil {
		sessionsErr = fmt.Errorf("delete expired sessions: %w", sessionsErr)
	}
	return codes, sessions, errors.Join(codesErr, sessionsErr)
}

// Run выполняет Sweep каждые interval до отмены ctx. interval <= 0 отключает очистку.
func (c *ExpiredRowsCleaner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		c.logger.Info("expired rows cleanup disabled")
		return
	}

	c.logger.Info("expired rows cleanup started", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			codes, sessions, err := c.Sweep(ctx)
			if err != nil {
				c.logger.Error("expired rows cleanup failed", "error", err)
			}
			if codes > 0 || sessions > 0 {
				c.logger.Info("expired rows removed", "auth_codes", codes, "sessions", sessions)
			}
		case <-ctx.Done():
			c.logger.Info("expired rows cleanup stopped")
			return
		}
	}
}
