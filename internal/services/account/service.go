package account

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Kytol/tuplausApi/internal/config"
	"github.com/Kytol/tuplausApi/internal/repos/accounts"
	"github.com/Kytol/tuplausApi/internal/services/game"
	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

type AccountService struct {
	store      accounts.Accounts
	resolver   game.Resolver
	cfg        config.LedgerConfig
	newVersion func() string
}

func New(store accounts.Accounts, resolver game.Resolver, cfg config.LedgerConfig) *AccountService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return &AccountService{
		store:      store,
		resolver:   resolver,
		cfg:        cfg,
		newVersion: accounts.NewVersion,
	}
}

// mutation computes the next state from the current one. It runs once per
// attempt, always against freshly loaded state.
type mutation func(cur ledger.Account) (ledger.Account, error)

// execute runs the optimistic read-compute-write loop:
//
// 1) Load the account (absent -> ErrAccountNotFound).
// 2) Compute the next state; ledger rejections end the call unchanged.
// 3) Write it only if the stored version is still the one loaded.
// 4) On a version mismatch start over, until MaxAttempts or RetryBudget
// is spent (-> ErrContention).
func (s *AccountService) execute(ctx context.Context, accountID string, mutate mutation) (ledger.Account, error) {
	var deadline time.Time
	if s.cfg.RetryBudget > 0 {
		deadline = time.Now().Add(s.cfg.RetryBudget)
	}

	for attempt := 1; ; attempt++ {
		err := ctx.Err()
		if err != nil {
			return ledger.Account{}, fmt.Errorf("attempt %d: %w", attempt, err)
		}

		cur, err := s.load(ctx, accountID)
		if err != nil {
			return ledger.Account{}, err
		}

		next, err := mutate(cur)
		if err != nil {
			return ledger.Account{}, err
		}

		next.ID = cur.ID
		next.Version = s.newVersion()

		ok, err := s.put(ctx, accountID, next, cur.Version)
		if err != nil {
			return ledger.Account{}, err
		}

		if ok {
			return next, nil
		}

		slog.Debug("version conflict, retrying",
			"account_id", accountID, "attempt", attempt, "read_version", cur.Version)

		if attempt >= s.cfg.MaxAttempts || (!deadline.IsZero() && time.Now().After(deadline)) {
			slog.Warn("giving up on contended account", "account_id", accountID, "attempts", attempt)

			return ledger.Account{}, fmt.Errorf("%w: %d attempts", ErrContention, attempt)
		}

		err = s.backoff(ctx, attempt)
		if err != nil {
			return ledger.Account{}, fmt.Errorf("wait before retry: %w", err)
		}
	}
}

func (s *AccountService) load(ctx context.Context, accountID string) (ledger.Account, error) {
	acc, ok, err := s.store.Get(ctx, accountID)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if !ok {
		return ledger.Account{}, ErrAccountNotFound
	}

	return acc, nil
}

// put is not tied to the caller's cancellation: once issued, the write
// finishes (or times out) on its own.
func (s *AccountService) put(ctx context.Context, accountID string, next ledger.Account, expectedVersion string) (bool, error) {
	putCtx := context.WithoutCancel(ctx)

	if s.cfg.StoreTimeout > 0 {
		var cancel context.CancelFunc

		putCtx, cancel = context.WithTimeout(putCtx, s.cfg.StoreTimeout)
		defer cancel()
	}

	ok, err := s.store.ConditionalPut(putCtx, accountID, next, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return ok, nil
}

func (s *AccountService) backoff(ctx context.Context, attempt int) error {
	base := s.cfg.RetryBackoff
	if base <= 0 {
		return nil
	}

	wait := base*time.Duration(attempt) + rand.N(base)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// onceResolver pins the first draw so a retried wager replays the same card
// against fresh state instead of drawing again.
type onceResolver struct {
	inner game.Resolver
	drawn bool
	res   game.Result
}

func (o *onceResolver) Resolve(choice game.Choice) game.Result {
	if !o.drawn {
		o.res = o.inner.Resolve(choice)
		o.drawn = true
	}

	return o.res
}
