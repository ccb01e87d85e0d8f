package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/middleware"
	"github.com/yourusername/shop-api/internal/service"
)

var errSessionMissing = errors.New("session is missing from request context")

// ProfileReader возвращает профиль пользователя по email сессии
type ProfileReader interface {
	GetProfile(ctx context.Context, email string) (*service.Profile, error)
}

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	profiles ProfileReader
	logger   *slog.Logger
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(profiles ProfileReader, logger *slog.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, logger: logger}
}

// GetMe GET /api/me. Email берется из контекста, который заполняет SessionGate.
func (h *UserHandler) GetMe(c *gin.Context) {
	email := c.GetString(middleware.CtxKeyEmail)
	if email == "" {
		// Маршрут подключен без SessionGate
		respondError(c, h.logger, errSessionMissing)
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
