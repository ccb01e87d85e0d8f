package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/shop-api/internal/domain/entity"
	"github.com/yourusername/shop-api/internal/domain/repository"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

const defaultCodeTTL = 10 * time.Minute

// IssuedCode результат выдачи кода.
// DemoCode заполняется только в деморежиме с включенным эхо кода.
type IssuedCode struct {
	DemoCode string
}

// CodeIssuerConfig настройки выдачи кодов
type CodeIssuerConfig struct {
	CodeTTL      time.Duration
	Pepper       string
	EchoDemoCode bool
}

// CodeIssuer регистрирует пользователя при первом обращении, выпускает код и доставляет его.
type CodeIssuer struct {
	users        repository.UserRepository
	codes        repository.AuthCodeRepository
	email        EmailService
	codeTTL      time.Duration
	pepper       string
	echoDemoCode bool
	logger       *slog.Logger

	now          func() time.Time
	generateCode func() (string, error)
}

func NewCodeIssuer(
	users repository.UserRepository,
	codes repository.AuthCodeRepository,
	email EmailService,
	cfg CodeIssuerConfig,
	logger *slog.Logger,
) (*CodeIssuer, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if codes == nil {
		return nil, fmt.Errorf("auth code repository is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email service is required")
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = defaultCodeTTL
	}

	return &CodeIssuer{
		users:        users,
		codes:        codes,
		email:        email,
		codeTTL:      cfg.CodeTTL,
		pepper:       cfg.Pepper,
		echoDemoCode: cfg.EchoDemoCode,
		logger:       logger,
		now:          time.Now,
		generateCode: generateLoginCode,
	}, nil
}

// RequestCode выдает новый код для email. Ранее выданные коды остаются действительными до истечения.
func (s *CodeIssuer) RequestCode(ctx context.Context, email, name string) (*IssuedCode, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", apperrors.ErrValidation)
	}

	now := s.now()
	if err := s.ensureUser(ctx, email, strings.TrimSpace(name), now); err != nil {
		return nil, err
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate login code: %w", err)
	}

	record := &entity.AuthCode{
		Email:     email,
		CodeHash:  hashLoginCode(code, s.pepper),
		ExpiresAt: now.Add(s.codeTTL).Unix(),
		CreatedAt: now.Unix(),
	}
	if err := s.codes.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: failed to save login code: %w", apperrors.ErrStore, err)
	}

	idempotencyKey := "login-code:" + strconv.FormatInt(record.ID, 10)
	if err := s.email.SendLoginCode(ctx, email, code, idempotencyKey); err != nil {
		s.logger.ErrorContext(ctx, "login code delivery failed", "code_id", record.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDelivery, err)
	}

	s.logger.InfoContext(ctx, "login code issued", "code_id", record.ID, "expires_at", record.ExpiresAt)

	issued := &IssuedCode{}
	if s.echoDemoCode {
		issued.DemoCode = code
	}
	return issued, nil
}

// ensureUser создает пользователя, если его еще нет.
// Параллельная вставка того же email не считается ошибкой.
func (s *CodeIssuer) ensureUser(ctx context.Context, email, name string, now time.Time) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: failed to look up user: %w", apperrors.ErrStore, err)
	}

	if name == "" {
		name = deriveNameFromEmail(email)
	}
	user := &entity.User{
		ID:        now.UnixMilli(),
		Name:      name,
		Email:     email,
		CreatedAt: now.UTC(),
	}

	err = s.users.Create(ctx, user)
	if err == nil {
		s.logger.InfoContext(ctx, "user registered on demand", "user_id", user.ID)
		return nil
	}
	if !errors.Is(err, apperrors.ErrConflict) {
		return fmt.Errorf("%w: failed to create user: %w", apperrors.ErrStore, err)
	}

	// Конфликт мог случиться и по id (два новых адреса в одну миллисекунду),
	// поэтому проверяем, что пользователь с этим email действительно появился.
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return fmt.Errorf("%w: failed to create user: %w", apperrors.ErrStore, err)
	}
	s.logger.DebugContext(ctx, "user provisioned concurrently")
	return nil
}
