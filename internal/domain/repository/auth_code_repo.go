package repository

import (
	"context"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// AuthCodeRepository хранит хеши выданных кодов входа.
type AuthCodeRepository interface {
	Create(ctx context.Context, code *entity.AuthCode) error
	// GetLatestActive возвращает самый свежий непогашенный код для пары (email, hash)
	// или apperrors.ErrNotFound. Срок действия не проверяется.
	GetLatestActive(ctx context.Context, email, codeHash string) (*entity.AuthCode, error)
	// MarkConsumed гасит код одним условным UPDATE.
	// Возвращает false, если код уже был погашен другим запросом.
	MarkConsumed(ctx context.Context, id int64, consumedAt int64) (bool, error)
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}
