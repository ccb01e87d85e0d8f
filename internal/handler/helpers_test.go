package handler

import (
	"fmt"

	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

func wrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, msg)
}

func wrapErr(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
