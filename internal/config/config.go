package config

import (
	"log/slog"
	"time"
)

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"                envDefault:""`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS"     envDefault:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS"     envDefault:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME"  envDefault:"30m"`
}

// RedisConfig backs request idempotency. An empty URL disables it.
type RedisConfig struct {
	URL            string        `env:"REDIS_URL"       envDefault:""`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	Issuer    string `env:"JWT_ISSUER" envDefault:""`
}

// LedgerConfig bounds the optimistic-write retry loop.
type LedgerConfig struct {
	MaxAttempts  int           `env:"LEDGER_MAX_ATTEMPTS"  envDefault:"5"`
	RetryBudget  time.Duration `env:"LEDGER_RETRY_BUDGET"  envDefault:"2s"`
	RetryBackoff time.Duration `env:"LEDGER_RETRY_BACKOFF" envDefault:"5ms"`
	StoreTimeout time.Duration `env:"LEDGER_STORE_TIMEOUT" envDefault:"3s"`
}

// GameConfig pins every draw to one rank when RiggedRank is set. Zero keeps
// the random deck; it exists for end-to-end runs.
type GameConfig struct {
	RiggedRank int `env:"GAME_RIGGED_RANK" envDefault:"0"`
}

type LogConfig struct {
	Level  slog.Level `env:"APP_LOG_LEVEL"  envDefault:"INFO"`
	Format string     `env:"APP_LOG_FORMAT" envDefault:"json"`
}

// DefaultLedgerConfig mirrors the envDefault tags of LedgerConfig.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		MaxAttempts:  5,
		RetryBudget:  2 * time.Second,
		RetryBackoff: 5 * time.Millisecond,
		StoreTimeout: 3 * time.Second,
	}
}
