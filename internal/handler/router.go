package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/logging"
	"github.com/yourusername/shop-api/internal/metrics"
	"github.com/yourusername/shop-api/internal/middleware"
)

// RouterDeps зависимости HTTP-слоя
type RouterDeps struct {
	Auth   *AuthHandler
	Users  *UserHandler
	Health *HealthHandler
	Static *StaticHandler

	Gate        *middleware.SessionGate
	RateLimiter *middleware.RateLimiter
	// Лимиты запросов в минуту на IP; 0 отключает лимит
	RequestCodeLimit int
	VerifyCodeLimit  int

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler

	AllowOrigins   []string
	TrustedProxies []string
	Logger         *slog.Logger
}

// NewRouter собирает gin.Engine. SessionGate подключен глобально, поэтому
// закрыт любой путь, не перечисленный в таблице открытых маршрутов.
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()

	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		d.Logger.Warn("failed to set trusted proxies", "error", err)
	}

	router.Use(
		logging.RequestID(),
		logging.RequestLogger(d.Logger),
		d.Metrics.HTTP(),
	)

	// CORS стоит перед SessionGate: preflight с разрешенного Origin получает 204
	// с заголовками CORS, с чужого Origin 403. Запросы без Origin доходят до гейта.
	if len(d.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logging.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(d.Gate.Handle())

	internal := router.Group("/internal")
	{
		internal.GET("/healthz", d.Health.Healthz)
		if d.MetricsHandler != nil {
			internal.GET("/metrics", gin.WrapH(d.MetricsHandler))
		}
	}

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/request-code",
				d.RateLimiter.Limit(middleware.RequestCodeRateLimitConfig(d.RequestCodeLimit)),
				d.Auth.RequestCode)
			authGroup.POST("/verify-code",
				d.RateLimiter.Limit(middleware.VerifyCodeRateLimitConfig(d.VerifyCodeLimit)),
				d.Auth.VerifyCode)
			authGroup.POST("/logout", d.Auth.Logout)
		}

		api.GET("/me", d.Users.GetMe)
	}

	router.NoRoute(d.Static.NoRoute)

	return router
}
