package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yourusername/shop-api/internal/domain/repository"
)

// SessionTerminator завершает сессию. Выход всегда успешен для клиента:
// ошибки хранилища только логируются.
type SessionTerminator struct {
	sessions repository.SessionRepository
	logger   *slog.Logger
}

func NewSessionTerminator(sessions repository.SessionRepository, logger *slog.Logger) *SessionTerminator {
	return &SessionTerminator{sessions: sessions, logger: logger}
}

func (s *SessionTerminator) Logout(ctx context.Context, sid string) {
	sid = strings.TrimSpace(sid)
	if sid == "" || s.sessions == nil {
		return
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		s.logger.WarnContext(ctx, "failed to delete session on logout", "error", err)
	}
}
