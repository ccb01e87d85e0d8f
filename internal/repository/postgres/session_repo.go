package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/shop-api/internal/domain/entity"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo создает новый репозиторий сессий
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create сохраняет новую сессию
func (r *SessionRepo) Create(ctx context.Context, session *entity.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID возвращает сессию по идентификатору из куки
func (r *SessionRepo) GetByID(ctx context.Context, sessionID string) (*entity.Session, error) {
	var session entity.Session
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Delete удаляет сессию; отсутствие строки ошибкой не считается
func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&entity.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired удаляет истекшие сессии и возвращает их количество
func (r *SessionRepo) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&entity.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
