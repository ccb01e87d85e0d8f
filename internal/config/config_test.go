package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_USER", "shop")
	t.Setenv("DATABASE_DBNAME", "shop_db")
}

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	setRequiredDBEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 600, cfg.Auth.CodeTTLSec)
	assert.Equal(t, 604800, cfg.Auth.SessionTTLSec)
	assert.Equal(t, 10*time.Minute, cfg.Auth.CodeTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, "/login.html", cfg.Auth.LoginPath)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.Auth.DevDelivery)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_DevDeliveryFlag(t *testing.T) {
	setRequiredDBEnv(t)
	t.Setenv("DEV_DELIVERY", "true")
	t.Setenv("AUTH_ECHO_DEMO_CODE", "true")
	t.Setenv("REDIS_ADDRS", "r1:6379,r2:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Auth.DevDelivery)
	assert.True(t, cfg.Auth.EchoDemoCode)
	assert.Equal(t, []string{"r1:6379", "r2:6379"}, cfg.Redis.Addrs)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_DeploymentKnobsFromEnv(t *testing.T) {
	setRequiredDBEnv(t)
	t.Setenv("AUTH_LOGIN_PATH", "/signin.html")
	t.Setenv("AUTH_REQUEST_CODE_LIMIT", "3")
	t.Setenv("AUTH_VERIFY_CODE_LIMIT", "0")
	t.Setenv("SERVER_ALLOW_ORIGINS", "https://shop.test, http://localhost:3000")
	t.Setenv("REDIS_ADDRS", " r1:6379 ,r2:6379,")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/signin.html", cfg.Auth.LoginPath)
	assert.Equal(t, 3, cfg.Auth.RequestCodeLimit)
	assert.Equal(t, 0, cfg.Auth.VerifyCodeLimit, "0 отключает лимит")
	assert.Equal(t, []string{"https://shop.test", "http://localhost:3000"}, cfg.Server.AllowOrigins)
	assert.Equal(t, []string{"r1:6379", "r2:6379"}, cfg.Redis.Addrs)
}

func TestLoad_CleanupDisabledByDefault(t *testing.T) {
	setRequiredDBEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.Auth.CleanupInterval)
}

func TestShippedConfigKeepsExpiredRows(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)

	assert.Zero(t, cfg.Auth.CleanupInterval, "очистка истекших строк включается только явно")
	assert.Equal(t, "/login.html", cfg.Auth.LoginPath)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: "9000"
  public_dir: ./web
database:
  host: db.internal
  user: shop
  dbname: shop_db
auth:
  code_ttl_sec: 300
  cleanup_interval: 30m
email:
  from: "Shop <no-reply@shop.test>"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "env имеет приоритет над файлом")
	assert.Equal(t, "./web", cfg.Server.PublicDir)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 300, cfg.Auth.CodeTTLSec)
	assert.Equal(t, 30*time.Minute, cfg.Auth.CleanupInterval)
	assert.Equal(t, "Shop <no-reply@shop.test>", cfg.Email.From)
}

func TestLoad_MissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_HOST", "")
	t.Setenv("DATABASE_USER", "")
	t.Setenv("DATABASE_DBNAME", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database configuration")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Database: DatabaseConfig{Host: "h", User: "u", DBName: "d"},
			Auth:     AuthConfig{CodeTTLSec: 600, SessionTTLSec: 604800, LoginPath: "/login.html"},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Auth.EchoDemoCode = true
	assert.Error(t, cfg.Validate(), "demo code без dev delivery запрещен")

	cfg = base()
	cfg.Email.ResendAPIKey = "re_123"
	assert.Error(t, cfg.Validate(), "нужен отправитель")

	cfg = base()
	cfg.Auth.LoginPath = "login.html"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Auth.SessionTTLSec = 0
	assert.Error(t, cfg.Validate())
}

func TestPostgresURL(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "shop", Password: "p@ss", DBName: "shop_db", SSLMode: "disable"}
	assert.Equal(t, "postgres://shop:p%40ss@db:5432/shop_db?sslmode=disable", d.PostgresURL())
	assert.Equal(t, "host=db port=5432 user=shop password=p@ss dbname=shop_db sslmode=disable", d.PostgresConnectionString())
}
