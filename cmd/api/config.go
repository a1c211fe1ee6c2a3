package main

import (
	"fmt"
	"time"

	"github.com/Kytol/tuplausApi/internal/config"
	"github.com/Kytol/tuplausApi/internal/services/game"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT"             envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Store           string        `env:"APP_STORE"            envDefault:"postgres"`
	CORSOrigins     []string      `env:"APP_CORS_ORIGINS"     envDefault:"" envSeparator:","`

	Log      config.LogConfig
	Postgres config.PostgresConfig
	Redis    config.RedisConfig
	Auth     config.AuthConfig
	Ledger   config.LedgerConfig
	Game     config.GameConfig
}

func (c *apiConfig) validate() error {
	switch c.Store {
	case storePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("PG_DSN is required when APP_STORE=%s", storePostgres)
		}
	case storeMemory:
	default:
		return fmt.Errorf("unknown APP_STORE %q", c.Store)
	}

	rank := c.Game.RiggedRank
	if rank != 0 && (rank < game.MinRank || rank > game.MaxRank) {
		return fmt.Errorf("GAME_RIGGED_RANK must be between %d and %d, got %d", game.MinRank, game.MaxRank, rank)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}

	return nil
}

// newResolver returns the random deck unless a rigged rank is configured.
func newResolver(cfg config.GameConfig) game.Resolver {
	if cfg.RiggedRank == 0 {
		return game.NewRandomResolver(nil)
	}

	return game.Fixed(cfg.RiggedRank)
}
