package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/handler/dto"
	"github.com/yourusername/shop-api/internal/logging"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// respondError отдает ошибку в формате {"error","error_type"}.
// Детали сбоев хранилища и почты остаются в логе.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		logger.Error("request failed", append(logging.RequestAttrs(c), "error", err)...)
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:     apperrors.PublicMessage(err),
		ErrorType: apperrors.Type(err),
	})
}

// bindJSON разбирает тело запроса. Пустое тело считается пустым объектом.
func bindJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid request body", apperrors.ErrValidation)
	}
	return nil
}
