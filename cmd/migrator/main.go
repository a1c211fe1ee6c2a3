package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Kytol/tuplausApi/internal/config"
	"github.com/Kytol/tuplausApi/internal/infra/logging"
	"github.com/Kytol/tuplausApi/internal/infra/pgutils"
	"github.com/Kytol/tuplausApi/pkg/envconf"
)

//go:embed migrations/*.sql
var baseFS embed.FS

//go:embed test_data/*.sql
var devFS embed.FS

// Dev seeds keep their own history table so their versions never collide
// with the schema migrations.
const seedMigrationsTable = "seed_migrations"

type migratorConfig struct {
	AppEnv      string        `env:"APP_ENV"         envDefault:"PROD"`
	PingTimeout time.Duration `env:"PG_PING_TIMEOUT" envDefault:"10s"`

	Log      config.LogConfig
	Postgres config.PostgresConfig
}

func main() {
	err := migrateAll()
	if err != nil {
		slog.Error("migration run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("migration run finished successfully")
}

func migrateAll() error {
	cfg := new(migratorConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(cfg.Log)

	if cfg.Postgres.DSN == "" {
		return errors.New("PG_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	//nolint:errcheck
	defer db.Close()

	err = runMigrations(db, &postgres.Config{}, baseFS, "migrations")
	if err != nil {
		return fmt.Errorf("base migrations failed: %w", err)
	}

	slog.Info("base migrations applied")

	if cfg.AppEnv == "DEV" {
		err = runMigrations(db, &postgres.Config{MigrationsTable: seedMigrationsTable}, devFS, "test_data")
		if err != nil {
			return fmt.Errorf("dev seed migrations failed: %w", err)
		}

		slog.Info("dev seed migrations applied")
	}

	return nil
}

func runMigrations(db *sql.DB, pgCfg *postgres.Config, fsys embed.FS, dir string) error {
	driver, err := postgres.WithInstance(db, pgCfg)
	if err != nil {
		return fmt.Errorf("init postgres driver: %w", err)
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Up: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		slog.Info("schema version", "dir", dir, "version", version, "dirty", dirty)
	}

	return nil
}
