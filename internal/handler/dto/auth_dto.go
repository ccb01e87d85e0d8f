package dto

// RequestCodeRequest тело POST /api/auth/request-code.
// Формат email проверяет сервис, чтобы ответ совпадал для всех клиентов.
type RequestCodeRequest struct {
	Email string `json:"email" binding:"max=254"`
	Name  string `json:"name" binding:"max=100"`
}

// VerifyCodeRequest тело POST /api/auth/verify-code
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"max=254"`
	Code  string `json:"code" binding:"max=32"`
}

// OKResponse стандартный успешный ответ эндпоинтов входа.
// DemoCode присутствует только в деморежиме.
type OKResponse struct {
	OK       bool   `json:"ok"`
	DemoCode string `json:"demo_code,omitempty"`
}

// ProfileCookie содержимое куки "u"
type ProfileCookie struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// HealthResponse ответ /internal/healthz
type HealthResponse struct {
	Status string `json:"status"`
}
