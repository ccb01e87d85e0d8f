package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Email    EmailConfig
	Log      LogConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	// PublicDir: каталог со статикой (login.html, assets/...). Пустая строка отключает раздачу.
	PublicDir    string   `mapstructure:"public_dir"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки подключения к Redis.
// Redis нужен только для rate limiting эндпоинтов входа; пустой адрес отключает лимиты.
type RedisConfig struct {
	// Mode: "single", "sentinel" или "cluster". По умолчанию "single".
	Mode string `mapstructure:"mode"`

	Addrs []string `mapstructure:"addrs"`
	Addr  string   `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: только для режима "sentinel"
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// Enabled сообщает, сконфигурирован ли Redis
func (r RedisConfig) Enabled() bool {
	return len(r.Addrs) > 0 || r.Addr != ""
}

// AuthConfig содержит настройки входа по коду и сессий
type AuthConfig struct {
	CodeTTLSec    int `mapstructure:"code_ttl_sec"`
	SessionTTLSec int `mapstructure:"session_ttl_sec"`

	// DevDelivery: код не отправляется письмом, а пишется в лог.
	DevDelivery bool `mapstructure:"dev_delivery"`
	// EchoDemoCode: при DevDelivery вернуть код в ответе (demo_code). Работает только вместе с DevDelivery.
	EchoDemoCode bool `mapstructure:"echo_demo_code"`

	CodePepper   string `mapstructure:"code_pepper"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
	LoginPath    string `mapstructure:"login_path"`

	// CleanupInterval: период удаления истекших кодов и сессий. 0 отключает очистку.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`

	// Лимиты запросов кода и проверки кода на один IP в минуту
	RequestCodeLimit int `mapstructure:"request_code_limit"`
	VerifyCodeLimit  int `mapstructure:"verify_code_limit"`
}

// CodeTTL возвращает время жизни кода
func (a AuthConfig) CodeTTL() time.Duration {
	return time.Duration(a.CodeTTLSec) * time.Second
}

// SessionTTL возвращает время жизни сессии
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLSec) * time.Second
}

// EmailConfig содержит настройки отправки писем через Resend
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"` // json или text
	Environment string `mapstructure:"environment"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL для gorm
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения (нужен golang-migrate и lib/pq)
func (d *DatabaseConfig) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readTimeout", 15)
	vip.SetDefault("server.writeTimeout", 15)
	vip.SetDefault("server.public_dir", "./public")

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")

	vip.SetDefault("redis.mode", "single")

	vip.SetDefault("auth.code_ttl_sec", 600)
	vip.SetDefault("auth.session_ttl_sec", 7*24*60*60)
	vip.SetDefault("auth.cookie_secure", true)
	vip.SetDefault("auth.login_path", "/login.html")
	vip.SetDefault("auth.request_code_limit", 5)
	vip.SetDefault("auth.verify_code_limit", 10)

	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.format", "json")
	vip.SetDefault("log.environment", "production")
}

// Load загружает конфигурацию из файла и переменных окружения.
// Отсутствие файла не является ошибкой.
func Load(configPath string) (*Config, error) {
	vip := viper.New() // отдельный экземпляр, без глобального состояния

	setDefaults(vip)

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("auth.code_ttl_sec", "AUTH_CODE_TTL_SEC")
	vip.BindEnv("auth.session_ttl_sec", "AUTH_SESSION_TTL_SEC")
	vip.BindEnv("auth.dev_delivery", "DEV_DELIVERY")
	vip.BindEnv("auth.echo_demo_code", "AUTH_ECHO_DEMO_CODE")
	vip.BindEnv("auth.code_pepper", "AUTH_CODE_PEPPER")
	vip.BindEnv("auth.cookie_secure", "AUTH_COOKIE_SECURE")
	vip.BindEnv("auth.cleanup_interval", "AUTH_CLEANUP_INTERVAL")
	vip.BindEnv("auth.login_path", "AUTH_LOGIN_PATH")
	vip.BindEnv("auth.request_code_limit", "AUTH_REQUEST_CODE_LIMIT")
	vip.BindEnv("auth.verify_code_limit", "AUTH_VERIFY_CODE_LIMIT")

	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	vip.BindEnv("log.level", "LOG_LEVEL")
	vip.BindEnv("log.format", "LOG_FORMAT")
	vip.BindEnv("log.environment", "APP_ENV")

	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.public_dir", "SERVER_PUBLIC_DIR")
	vip.BindEnv("server.allow_origins", "SERVER_ALLOW_ORIGINS")

	var fileErr error
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			// Файл не обязателен: переменных окружения достаточно
			fileErr = err
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// REDIS_ADDRS и SERVER_ALLOW_ORIGINS приходят строкой "a, b"
	cfg.Redis.Addrs = normalizeList(cfg.Redis.Addrs)
	cfg.Server.AllowOrigins = normalizeList(cfg.Server.AllowOrigins)

	if err := cfg.Validate(); err != nil {
		if fileErr != nil {
			return nil, fmt.Errorf("%w (config file: %v)", err, fileErr)
		}
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Auth.CodeTTLSec <= 0 {
		return fmt.Errorf("auth.code_ttl_sec must be positive")
	}
	if c.Auth.SessionTTLSec <= 0 {
		return fmt.Errorf("auth.session_ttl_sec must be positive")
	}
	if !strings.HasPrefix(c.Auth.LoginPath, "/") {
		return fmt.Errorf("auth.login_path must start with /")
	}
	if !c.Auth.DevDelivery && c.Email.ResendAPIKey != "" && c.Email.From == "" {
		return fmt.Errorf("email.from is required when RESEND_API_KEY is set (check EMAIL_FROM env var)")
	}
	if c.Auth.EchoDemoCode && !c.Auth.DevDelivery {
		return fmt.Errorf("auth.echo_demo_code requires DEV_DELIVERY=true")
	}
	return nil
}

func normalizeList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
