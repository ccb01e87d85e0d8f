package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/shop-api/internal/config"
	"github.com/yourusername/shop-api/internal/handler"
	"github.com/yourusername/shop-api/internal/logging"
	"github.com/yourusername/shop-api/internal/metrics"
	"github.com/yourusername/shop-api/internal/middleware"
	pgRepo "github.com/yourusername/shop-api/internal/repository/postgres"
	"github.com/yourusername/shop-api/internal/service"
	"github.com/yourusername/shop-api/pkg/database"
)

const serviceName = "shop-api"

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: serviceName,
		Environment: cfg.Log.Environment,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	slog.SetDefault(logger)

	isProduction := cfg.Log.Environment == "production"
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// PostgreSQL и миграции
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		logger.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = database.DefaultMigrationsPath
	}
	if err := database.MigrateDB(db, migrationsPath, logger); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis нужен только для лимитов; без него лимиты отключены
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		logger.Info("connected to redis", "mode", cfg.Redis.Mode)
	} else {
		logger.Warn("redis is not configured, rate limiting disabled")
	}

	// Репозитории
	userRepo := pgRepo.NewUserRepo(db)
	codeRepo := pgRepo.NewAuthCodeRepo(db)
	sessionRepo := pgRepo.NewSessionRepo(db)

	// Сервисы
	emailService, err := service.NewEmailService(
		cfg.Auth.DevDelivery, cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Auth.CodeTTL(), logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", "error", err)
		os.Exit(1)
	}

	issuer, err := service.NewCodeIssuer(userRepo, codeRepo, emailService, service.CodeIssuerConfig{
		CodeTTL:      cfg.Auth.CodeTTL(),
		Pepper:       cfg.Auth.CodePepper,
		EchoDemoCode: cfg.Auth.DevDelivery && cfg.Auth.EchoDemoCode,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize code issuer", "error", err)
		os.Exit(1)
	}

	verifier, err := service.NewCodeVerifier(userRepo, codeRepo, sessionRepo, service.CodeVerifierConfig{
		SessionTTL: cfg.Auth.SessionTTL(),
		Pepper:     cfg.Auth.CodePepper,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize code verifier", "error", err)
		os.Exit(1)
	}

	terminator := service.NewSessionTerminator(sessionRepo, logger)
	userService := service.NewUserService(userRepo)
	cleaner := service.NewExpiredRowsCleaner(codeRepo, sessionRepo, logger)

	// Метрики в собственном реестре
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry, serviceName)

	gate := middleware.NewSessionGate(
		sessionRepo,
		middleware.DefaultOpenRoutes(cfg.Auth.LoginPath),
		cfg.Auth.LoginPath,
		appMetrics,
		logger,
	)

	// Production: не доверять прокси-заголовкам. Development: доверяем localhost
	var trustedProxies []string
	if !isProduction {
		trustedProxies = []string{"127.0.0.1", "::1"}
	}

	router := handler.NewRouter(handler.RouterDeps{
		Auth:             handler.NewAuthHandler(issuer, verifier, terminator, cfg.Auth.CookieSecure, appMetrics, logger),
		Users:            handler.NewUserHandler(userService, logger),
		Health:           handler.NewHealthHandler(sqlDB, logger),
		Static:           handler.NewStaticHandler(cfg.Server.PublicDir),
		Gate:             gate,
		RateLimiter:      middleware.NewRateLimiter(redisClient, logger),
		RequestCodeLimit: cfg.Auth.RequestCodeLimit,
		VerifyCodeLimit:  cfg.Auth.VerifyCodeLimit,
		Metrics:          appMetrics,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		AllowOrigins:     cfg.Server.AllowOrigins,
		TrustedProxies:   trustedProxies,
		Logger:           logger,
	})

	// Фоновая очистка истекших кодов и сессий
	go cleaner.Run(ctx, cfg.Auth.CleanupInterval)

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("starting server",
			"port", cfg.Server.Port,
			"dev_delivery", cfg.Auth.DevDelivery,
			"public_dir", cfg.Server.PublicDir,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Останавливаем фоновые горутины
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited properly")
}
