package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/domain/repository"
	"github.com/yourusername/shop-api/internal/logging"
	"github.com/yourusername/shop-api/internal/metrics"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
	"github.com/yourusername/shop-api/pkg/cookie"
)

// Ключи gin.Context, которые выставляет SessionGate
const (
	CtxKeySessionID = "session_id"
	CtxKeyEmail     = "email"
)

// SessionGate пропускает запрос к защищенному пути только при действующей сессии.
// Без сессии запрос перенаправляется на страницу входа.
type SessionGate struct {
	sessions  repository.SessionRepository
	routes    RouteTable
	loginPath string
	metrics   *metrics.Metrics
	logger    *slog.Logger

	now func() time.Time
}

func NewSessionGate(
	sessions repository.SessionRepository,
	routes RouteTable,
	loginPath string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SessionGate {
	if loginPath == "" {
		loginPath = "/login.html"
	}
	return &SessionGate{
		sessions:  sessions,
		routes:    routes,
		loginPath: loginPath,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle возвращает gin middleware. Паника в любом следующем обработчике
// превращается в 500.
func (g *SessionGate) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer g.recoverPanic(c)

		if c.Request.Method == http.MethodOptions {
			g.metrics.GateDecision(metrics.DecisionPreflight)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if g.routes.IsOpen(requestPath(c.Request.URL)) {
			g.metrics.GateDecision(metrics.DecisionOpen)
			c.Next()
			return
		}

		sid, ok := cookie.FromRequest(c.Request, cookie.SessionName)
		if !ok {
			g.requireLogin(c)
			return
		}

		if g.sessions == nil {
			g.logger.Error("session gate has no session store bound, denying request", logging.RequestAttrs(c)...)
			g.requireLogin(c)
			return
		}

		session, err := g.sessions.GetByID(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				g.requireLogin(c)
				return
			}
			g.logger.Error("session lookup failed",
				append(logging.RequestAttrs(c), "error", err)...)
			g.metrics.GateDecision(metrics.DecisionError)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      apperrors.PublicMessage(apperrors.ErrStore),
				"error_type": apperrors.TypeStore,
			})
			return
		}

		if session.IsExpired(g.now()) {
			g.requireLogin(c)
			return
		}

		c.Set(CtxKeySessionID, session.SessionID)
		c.Set(CtxKeyEmail, session.Email)
		g.metrics.GateDecision(metrics.DecisionAllowed)
		c.Next()
	}
}

// requireLogin: 302 на страницу входа с next=<путь?запрос>.
// Сама страница входа получает 204, чтобы не зациклить перенаправление.
func (g *SessionGate) requireLogin(c *gin.Context) {
	if requestPath(c.Request.URL) == g.loginPath {
		g.metrics.GateDecision(metrics.DecisionLoginPage)
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	g.metrics.GateDecision(metrics.DecisionRedirect)
	c.Redirect(http.StatusFound, LoginRedirectURL(g.loginPath, c.Request.URL))
	c.Abort()
}

func (g *SessionGate) recoverPanic(c *gin.Context) {
	r := recover()
	if r == nil {
		return
	}
	if r == http.ErrAbortHandler {
		panic(r)
	}

	g.logger.Error("panic recovered",
		append(logging.RequestAttrs(c), "panic", fmt.Sprint(r), "stack", string(debug.Stack()))...)
	g.metrics.GateDecision(metrics.DecisionPanic)

	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":      "internal server error",
		"error_type": apperrors.TypeInternal,
	})
}

// requestPath возвращает путь без сегментов "." и ".." и повторных "/".
// Таблица маршрутов сравнивается с тем же путем, который откроет раздача файлов.
func requestPath(u *url.URL) string {
	p := path.Clean("/" + u.Path)
	if p != "/" && strings.HasSuffix(u.Path, "/") {
		p += "/"
	}
	return p
}

// LoginRedirectURL строит адрес страницы входа с параметром next
func LoginRedirectURL(loginPath string, u *url.URL) string {
	return loginPath + "?next=" + url.QueryEscape(u.RequestURI())
}
