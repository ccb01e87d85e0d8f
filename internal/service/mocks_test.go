package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев и доставки
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockAuthCodeRepository реализует repository.AuthCodeRepository
type MockAuthCodeRepository struct {
	mock.Mock
}

func (m *MockAuthCodeRepository) Create(ctx context.Context, code *entity.AuthCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockAuthCodeRepository) GetLatestActive(ctx context.Context, email, codeHash string) (*entity.AuthCode, error) {
	args := m.Called(ctx, email, codeHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthCode), args.Error(1)
}

func (m *MockAuthCodeRepository) MarkConsumed(ctx context.Context, id int64, consumedAt int64) (bool, error) {
	args := m.Called(ctx, id, consumedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthCodeRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository реализует repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, sessionID string) (*entity.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLoginCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	args := m.Called(ctx, toEmail, code, idempotencyKey)
	return args.Error(0)
}
