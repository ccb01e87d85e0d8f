package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/shop-api/internal/domain/entity"
	"github.com/yourusername/shop-api/internal/domain/repository"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// Profile данные текущего пользователя для /api/me
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile возвращает профиль по email из сессии.
// Если строки пользователя нет, имя берется по умолчанию.
func (s *UserService) GetProfile(ctx context.Context, email string) (*Profile, error) {
	email = entity.NormalizeEmail(email)
	profile := &Profile{Email: email, Name: entity.DefaultUserName}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return profile, nil
		}
		return nil, fmt.Errorf("%w: failed to load profile: %w", apperrors.ErrStore, err)
	}

	profile.Name = user.DisplayName()
	return profile, nil
}
