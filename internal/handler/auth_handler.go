package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/handler/dto"
	"github.com/yourusername/shop-api/internal/metrics"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
	"github.com/yourusername/shop-api/internal/service"
	"github.com/yourusername/shop-api/pkg/cookie"
)

// CodeIssuer выдает коды входа
type CodeIssuer interface {
	RequestCode(ctx context.Context, email, name string) (*service.IssuedCode, error)
}

// CodeVerifier обменивает код на сессию
type CodeVerifier interface {
	VerifyCode(ctx context.Context, email, code string) (*service.VerifiedSession, error)
}

// SessionTerminator завершает сессию
type SessionTerminator interface {
	Logout(ctx context.Context, sid string)
}

// AuthHandler обрабатывает вход по коду из письма и выход
type AuthHandler struct {
	issuer       CodeIssuer
	verifier     CodeVerifier
	terminator   SessionTerminator
	cookieSecure bool
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(
	issuer CodeIssuer,
	verifier CodeVerifier,
	terminator SessionTerminator,
	cookieSecure bool,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		issuer:       issuer,
		verifier:     verifier,
		terminator:   terminator,
		cookieSecure: cookieSecure,
		metrics:      m,
		logger:       logger,
	}
}

// RequestCode POST /api/auth/request-code
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req dto.RequestCodeRequest
	if err := bindJSON(c, &req); err != nil {
		h.metrics.CodeRequested(apperrors.Type(err))
		respondError(c, h.logger, err)
		return
	}

	issued, err := h.issuer.RequestCode(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		h.metrics.CodeRequested(apperrors.Type(err))
		respondError(c, h.logger, err)
		return
	}

	h.metrics.CodeRequested("ok")
	c.JSON(http.StatusOK, dto.OKResponse{OK: true, DemoCode: issued.DemoCode})
}

// VerifyCode POST /api/auth/verify-code. При успехе выдает куки sid и u.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := bindJSON(c, &req); err != nil {
		h.metrics.CodeVerified(apperrors.Type(err))
		respondError(c, h.logger, err)
		return
	}

	session, err := h.verifier.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.metrics.CodeVerified(apperrors.Type(err))
		respondError(c, h.logger, err)
		return
	}

	profile, err := json.Marshal(dto.ProfileCookie{Email: session.Email, Name: session.Name})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	header := c.Writer.Header()
	cookie.Append(header, cookie.SessionName, session.SessionID, h.sessionCookieAttrs(session.MaxAge))
	cookie.Append(header, cookie.ProfileName, cookie.EncodeValue(string(profile)), h.profileCookieAttrs(session.MaxAge))

	h.metrics.CodeVerified("ok")
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Logout POST /api/auth/logout. Всегда 200, куки очищаются.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, ok := cookie.FromRequest(c.Request, cookie.SessionName); ok {
		h.terminator.Logout(c.Request.Context(), sid)
	}

	header := c.Writer.Header()
	cookie.Clear(header, cookie.SessionName, h.sessionCookieAttrs(0))
	cookie.Clear(header, cookie.ProfileName, h.profileCookieAttrs(0))

	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AuthHandler) sessionCookieAttrs(maxAge int) cookie.Attributes {
	return cookie.Attributes{
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	}
}

// profileCookieAttrs: кука u читается скриптами страницы, поэтому без HttpOnly
func (h *AuthHandler) profileCookieAttrs(maxAge int) cookie.Attributes {
	attrs := h.sessionCookieAttrs(maxAge)
	attrs.HTTPOnly = false
	return attrs
}
