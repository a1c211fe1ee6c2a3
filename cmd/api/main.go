package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/Kytol/tuplausApi/internal/api"
	"github.com/Kytol/tuplausApi/internal/infra/logging"
	"github.com/Kytol/tuplausApi/internal/infra/pgutils"
	"github.com/Kytol/tuplausApi/internal/infra/redisutils"
	"github.com/Kytol/tuplausApi/internal/repos/accounts"
	"github.com/Kytol/tuplausApi/internal/repos/accounts/memory"
	pgaccounts "github.com/Kytol/tuplausApi/internal/repos/accounts/postgres"
	"github.com/Kytol/tuplausApi/internal/services/account"
	"github.com/Kytol/tuplausApi/pkg/envconf"
	"github.com/Kytol/tuplausApi/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	err = cfg.validate()
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.Setup(cfg.Log)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	var cache *redis.Client

	if cfg.Redis.URL != "" {
		cache, err = redisutils.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}

		shutdownqueue.Add("redis", func(context.Context) error {
			return cache.Close()
		})
	} else {
		slog.Info("REDIS_URL not set, Idempotency-Key handling disabled")
	}

	if cfg.Game.RiggedRank != 0 {
		slog.Warn("rigged deck enabled, every draw has the same rank", "rank", cfg.Game.RiggedRank)
	}

	svc := account.New(store, newResolver(cfg.Game), cfg.Ledger)

	// --- HTTP server ---
	handler := api.NewRouter(svc, api.RouterOptions{
		Logger:         logger,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		JWTIssuer:      cfg.Auth.Issuer,
		CORSOrigins:    cfg.CORSOrigins,
		Redis:          cache,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
	})

	srv := api.NewServer(cfg.Port, handler)

	shutdownqueue.Add("http server", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "store", cfg.Store)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

func openStore(ctx context.Context, cfg *apiConfig) (accounts.Accounts, error) {
	if cfg.Store == storeMemory {
		slog.Warn("using in-memory account store, balances are lost on restart")
		return memory.New(), nil
	}

	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("postgres", func(context.Context) error {
		return db.Close()
	})

	return pgaccounts.New(db), nil
}
