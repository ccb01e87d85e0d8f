package repository

import (
	"context"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create возвращает apperrors.ErrConflict, если email уже занят
	Create(ctx context.Context, user *entity.User) error
	// GetByEmail возвращает apperrors.ErrNotFound, если пользователя нет
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
