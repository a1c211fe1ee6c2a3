package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/Kytol/tuplausApi/internal/repos/accounts"
	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

func TestAccounts_CreateAndGet(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := t.Context()

	_, ok, err := repo.Get(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("missing account: want (false, nil), got (%v, %v)", ok, err)
	}

	acc := ledger.Account{ID: "u1", Balance: 500, Version: "v1"}

	err = repo.Create(ctx, acc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = repo.Create(ctx, acc)
	if !errors.Is(err, accounts.ErrAccountExists) {
		t.Fatalf("duplicate create: want ErrAccountExists, got %v", err)
	}

	got, ok, err := repo.Get(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}

	if got != acc {
		t.Fatalf("want %+v, got %+v", acc, got)
	}
}

func TestAccounts_ConditionalPut_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		accountID   string
		expected    string
		wantOK      bool
		wantBalance ledger.Money
	}{
		{name: "matching_version_commits", accountID: "u1", expected: "v1", wantOK: true, wantBalance: 900},
		{name: "stale_version_rejected", accountID: "u1", expected: "v0", wantOK: false, wantBalance: 100},
		{name: "missing_account_rejected", accountID: "nobody", expected: "v1", wantOK: false, wantBalance: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := New()
			ctx := t.Context()

			err := repo.Create(ctx, ledger.Account{ID: "u1", Balance: 100, Version: "v1"})
			if err != nil {
				t.Fatalf("seed: %v", err)
			}

			ok, err := repo.ConditionalPut(ctx, tt.accountID, ledger.Account{Balance: 900, Version: "v2"}, tt.expected)
			if err != nil {
				t.Fatalf("conditional put: %v", err)
			}

			if ok != tt.wantOK {
				t.Fatalf("ok: want %v, got %v", tt.wantOK, ok)
			}

			got, _, _ := repo.Get(ctx, "u1")
			if got.Balance != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got.Balance)
			}

			if got.ID != "u1" {
				t.Fatalf("id changed: %q", got.ID)
			}
		})
	}
}

func TestAccounts_ConditionalPut_OnlyOneWinnerPerVersion(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := t.Context()

	err := repo.Create(ctx, ledger.Account{ID: "u1", Balance: 100, Version: "v1"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	const writers = 16

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	wg.Add(writers)

	for i := range writers {
		go func() {
			defer wg.Done()

			next := ledger.Account{Balance: ledger.Money(i), Version: accounts.NewVersion()}

			ok, err := repo.ConditionalPut(ctx, "u1", next, "v1")
			if err != nil {
				t.Errorf("writer %d: %v", i, err)
				return
			}

			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if wins != 1 {
		t.Fatalf("want exactly one committed write, got %d", wins)
	}
}
