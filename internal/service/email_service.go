package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

const (
	deliveryAttempts = 3
	maxRetryAfter    = 30 * time.Second
)

// EmailService доставляет коды входа.
type EmailService interface {
	SendLoginCode(ctx context.Context, toEmail, code, idempotencyKey string) error
}

// ErrEmailNotConfigured возвращается, если не включен DEV_DELIVERY и не настроен провайдер
var ErrEmailNotConfigured = errors.New("email sender not configured: set DEV_DELIVERY=true or configure a provider")

// loginCodeMessage письмо с кодом входа; одно и то же для лога и для Resend
type loginCodeMessage struct {
	Subject string
	Text    string
	HTML    string
}

func newLoginCodeMessage(code string, ttl time.Duration) loginCodeMessage {
	expires := ttlText(ttl)
	return loginCodeMessage{
		Subject: "Your login code",
		Text:    fmt.Sprintf("Your verification code: %s\nIt expires in %s.", code, expires),
		HTML: fmt.Sprintf("<p>Your verification code: <strong>%s</strong></p><p>It expires in %s.</p>",
			html.EscapeString(code), expires),
	}
}

func ttlText(ttl time.Duration) string {
	minutes := int(ttl / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	if minutes > 1 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%d seconds", int(ttl/time.Second))
}

// NewEmailService выбирает способ доставки: лог (devDelivery), Resend или заглушку,
// которая отвечает ошибкой на каждую отправку.
func NewEmailService(devDelivery bool, apiKey, from string, codeTTL time.Duration, logger *slog.Logger) (EmailService, error) {
	if devDelivery {
		return NewLogEmailService(codeTTL, logger), nil
	}
	if strings.TrimSpace(apiKey) == "" {
		logger.Warn("email delivery is not configured, login codes will not be sent")
		return UnconfiguredEmailService{}, nil
	}
	return NewResendEmailService(apiKey, from, codeTTL)
}

// UnconfiguredEmailService отказывает в каждой отправке
type UnconfiguredEmailService struct{}

func (UnconfiguredEmailService) SendLoginCode(context.Context, string, string, string) error {
	return ErrEmailNotConfigured
}

// LogEmailService пишет письмо в лог вместо отправки (деморежим)
type LogEmailService struct {
	codeTTL time.Duration
	logger  *slog.Logger
}

func NewLogEmailService(codeTTL time.Duration, logger *slog.Logger) *LogEmailService {
	return &LogEmailService{codeTTL: codeTTL, logger: logger}
}

func (s *LogEmailService) SendLoginCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	msg := newLoginCodeMessage(code, s.codeTTL)
	s.logger.InfoContext(ctx, "demo mail",
		"to", toEmail,
		"subject", msg.Subject,
		"text", msg.Text,
		"idempotency_key", idempotencyKey,
	)
	return nil
}

// resendEmails часть resend.EmailsSvc, которая нужна для отправки кода
type resendEmails interface {
	SendWithOptions(ctx context.Context, params *resend.SendEmailRequest, options *resend.SendEmailOptions) (*resend.SendEmailResponse, error)
}

// ResendEmailService отправляет письма через Resend REST API.
// Повторяет отправку при rate limit и сетевых таймаутах; ключ идемпотентности
// не дает повтору прислать второе письмо.
type ResendEmailService struct {
	from    string
	codeTTL time.Duration
	emails  resendEmails

	wait func(ctx context.Context, d time.Duration) error
}

func NewResendEmailService(apiKey, from string, codeTTL time.Duration) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:    from,
		codeTTL: codeTTL,
		emails:  resend.NewClient(apiKey).Emails,
		wait:    waitContext,
	}, nil
}

func (s *ResendEmailService) SendLoginCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	if toEmail == "" || code == "" {
		return fmt.Errorf("toEmail and code are required")
	}

	msg := newLoginCodeMessage(code, s.codeTTL)
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
	options := &resend.SendEmailOptions{IdempotencyKey: strings.TrimSpace(idempotencyKey)}

	var err error
	for attempt := 1; attempt <= deliveryAttempts; attempt++ {
		if _, err = s.emails.SendWithOptions(ctx, params, options); err == nil {
			return nil
		}

		backoff, retryable := deliveryBackoff(err, attempt)
		if !retryable {
			return fmt.Errorf("resend send failed: %w", err)
		}
		if attempt == deliveryAttempts {
			break
		}
		if werr := s.wait(ctx, backoff); werr != nil {
			return werr
		}
	}

	return fmt.Errorf("resend send failed after %d attempts: %w", deliveryAttempts, err)
}

// deliveryBackoff: сколько ждать перед попыткой attempt+1.
// Rate limit уважает Retry-After (не дольше maxRetryAfter), таймаут сети растет линейно.
func deliveryBackoff(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter))
		if convErr != nil || seconds <= 0 {
			return time.Duration(attempt) * time.Second, true
		}
		return min(time.Duration(seconds)*time.Second, maxRetryAfter), true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt) * 500 * time.Millisecond, true
	}

	return 0, false
}

func waitContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
