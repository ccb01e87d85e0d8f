package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись не найдена в хранилище.
	ErrNotFound = errors.New("record not found")

	// ErrConflict используется при нарушении уникальности (например, email уже занят).
	ErrConflict = errors.New("resource state conflict")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCode используется и для неверного, и для истекшего кода входа.
	// Снаружи эти два случая неразличимы.
	ErrInvalidCode = errors.New("invalid or expired code")

	// ErrAuthRequired используется, когда нет действующей сессии.
	ErrAuthRequired = errors.New("authentication required")

	// ErrStore используется для сбоев хранилища учетных данных.
	ErrStore = errors.New("store error")

	// ErrDelivery используется, когда код не удалось доставить.
	ErrDelivery = errors.New("delivery error")
)

// Стабильные значения поля error_type в JSON-ответах
const (
	TypeValidation  = "validation_error"
	TypeInvalidCode = "invalid_code"
	TypeAuthReq     = "auth_required"
	TypeStore       = "store_error"
	TypeDelivery    = "delivery_error"
	TypeConflict    = "conflict"
	TypeNotFound    = "not_found"
	TypeInternal    = "internal_server_error"
)

// HTTPStatus возвращает HTTP статус для ошибки.
// Неизвестные ошибки считаются внутренними (500).
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthRequired):
		return http.StatusFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Type возвращает значение error_type для ответа клиенту.
func Type(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return TypeValidation
	case errors.Is(err, ErrInvalidCode):
		return TypeInvalidCode
	case errors.Is(err, ErrAuthRequired):
		return TypeAuthReq
	case errors.Is(err, ErrDelivery):
		return TypeDelivery
	case errors.Is(err, ErrStore):
		return TypeStore
	case errors.Is(err, ErrConflict):
		return TypeConflict
	case errors.Is(err, ErrNotFound):
		return TypeNotFound
	default:
		return TypeInternal
	}
}

// PublicMessage возвращает безопасное сообщение для клиента.
// Для ошибок валидации отдается текст ошибки (он формируется нашим кодом),
// для инфраструктурных ошибок детали хранилища и почты наружу не попадают.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
	case errors.Is(err, ErrInvalidCode):
		return ErrInvalidCode.Error()
	case errors.Is(err, ErrAuthRequired):
		return ErrAuthRequired.Error()
	case errors.Is(err, ErrDelivery):
		return "failed to deliver login code"
	case errors.Is(err, ErrStore):
		return "internal server error"
	case errors.Is(err, ErrConflict):
		return "email already exists"
	case errors.Is(err, ErrNotFound):
		return "resource not found"
	default:
		return "internal server error"
	}
}
