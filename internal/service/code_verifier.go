package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yourusername/shop-api/internal/domain/entity"
	"github.com/yourusername/shop-api/internal/domain/repository"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// VerifiedSession описывает сессию, созданную после успешной проверки кода
type VerifiedSession struct {
	SessionID string
	Email     string
	Name      string
	ExpiresAt int64
	// MaxAge время жизни куки в секундах
	MaxAge int
}

// CodeVerifierConfig настройки проверки кодов
type CodeVerifierConfig struct {
	SessionTTL time.Duration
	Pepper     string
}

// CodeVerifier обменивает действующий код на новую сессию.
type CodeVerifier struct {
	users      repository.UserRepository
	codes      repository.AuthCodeRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	pepper     string
	logger     *slog.Logger

	now func() time.Time
}

func NewCodeVerifier(
	users repository.UserRepository,
	codes repository.AuthCodeRepository,
	sessions repository.SessionRepository,
	cfg CodeVerifierConfig,
	logger *slog.Logger,
) (*CodeVerifier, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if codes == nil {
		return nil, fmt.Errorf("auth code repository is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session repository is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	return &CodeVerifier{
		users:      users,
		codes:      codes,
		sessions:   sessions,
		sessionTTL: cfg.SessionTTL,
		pepper:     cfg.Pepper,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// VerifyCode проверяет код и создает сессию.
// Неверный, истекший и уже использованный код дают одну и ту же ошибку ErrInvalidCode.
func (s *CodeVerifier) VerifyCode(ctx context.Context, email, code string) (*VerifiedSession, error) {
	email = entity.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and code required", apperrors.ErrValidation)
	}

	now := s.now()

	record, err := s.codes.GetLatestActive(ctx, email, hashLoginCode(code, s.pepper))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCode
		}
		return nil, fmt.Errorf("%w: failed to look up login code: %w", apperrors.ErrStore, err)
	}
	if record.IsExpired(now) {
		return nil, apperrors.ErrInvalidCode
	}

	consumed, err := s.codes.MarkConsumed(ctx, record.ID, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to consume login code: %w", apperrors.ErrStore, err)
	}
	if !consumed {
		s.logger.WarnContext(ctx, "login code already consumed", "code_id", record.ID)
		return nil, apperrors.ErrInvalidCode
	}

	name := entity.DefaultUserName
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		name = user.DisplayName()
	case !errors.Is(err, apperrors.ErrNotFound):
		s.logger.WarnContext(ctx, "user lookup failed during verification", "error", err)
	}

	sid, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &entity.Session{
		SessionID: sid,
		Email:     email,
		ExpiresAt: now.Add(s.sessionTTL).Unix(),
		CreatedAt: now.Unix(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: failed to create session: %w", apperrors.ErrStore, err)
	}

	s.logger.InfoContext(ctx, "session created", "code_id", record.ID, "expires_at", session.ExpiresAt)

	return &VerifiedSession{
		SessionID: sid,
		Email:     email,
		Name:      name,
		ExpiresAt: session.ExpiresAt,
		MaxAge:    int(s.sessionTTL / time.Second),
	}, nil
}
