package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/shop-api/internal/domain/entity"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

type AuthCodeRepo struct {
	db *gorm.DB
}

func NewAuthCodeRepo(db *gorm.DB) *AuthCodeRepo {
	return &AuthCodeRepo{db: db}
}

func (r *AuthCodeRepo) Create(ctx context.Context, code *entity.AuthCode) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("failed to create auth code: %w", err)
	}
	return nil
}

func (r *AuthCodeRepo) GetLatestActive(ctx context.Context, email, codeHash string) (*entity.AuthCode, error) {
	var code entity.AuthCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code_hash = ? AND consumed_at IS NULL", email, codeHash).
		Order("created_at DESC, id DESC").
		Take(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest auth code: %w", err)
	}
	return &code, nil
}

func (r *AuthCodeRepo) MarkConsumed(ctx context.Context, id int64, consumedAt int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.AuthCode{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", consumedAt)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark auth code consumed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *AuthCodeRepo) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&entity.AuthCode{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired auth codes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
