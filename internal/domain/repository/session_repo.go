package repository

import (
	"context"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// SessionRepository хранит сессии пользователей.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// GetByID возвращает apperrors.ErrNotFound, если сессии нет
	GetByID(ctx context.Context, sessionID string) (*entity.Session, error)
	// Delete не считает ошибкой отсутствие сессии
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}
