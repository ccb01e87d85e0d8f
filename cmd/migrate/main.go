// Команда migrate управляет схемой базы вне основного процесса:
//
//	migrate up | down | version | force N
//
// Конфигурация БД берется так же, как в cmd/api (CONFIG_PATH и DATABASE_*).
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/yourusername/shop-api/internal/config"
	"github.com/yourusername/shop-api/internal/logging"
	"github.com/yourusername/shop-api/pkg/database"
)

func main() {
	source := flag.String("source", database.DefaultMigrationsPath, "migrations source URL")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [-source URL] up|down|version|force N\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logging.NewLogger(logging.Config{ServiceName: "shop-migrate", Format: "text"})

	if err := run(*source, flag.Args(), logger); err != nil {
		logger.Error("migration command failed", "error", err)
		os.Exit(1)
	}
}

func run(source string, args []string, logger *slog.Logger) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("command is required")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresURL())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		return ignoreNoChange(m.Up(), logger)
	case "down":
		// Один шаг назад, полный откат только явно через force
		return ignoreNoChange(m.Steps(-1), logger)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("schema version", "version", version, "dirty", dirty)
		return nil
	case "force":
		if len(args) < 2 {
			return errors.New("force requires a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		logger.Info("dirty state cleaned", "version", version)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func ignoreNoChange(err error, logger *slog.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no change")
		return nil
	}
	if err == nil {
		logger.Info("done")
	}
	return err
}
