package memory

import (
	"context"
	"sync"

	"github.com/Kytol/tuplausApi/internal/repos/accounts"
	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct {
	mu      sync.RWMutex
	records map[string]ledger.Account
}

// New returns a process-local store with the same conditional-write
// contract as the Postgres one.
func New() *accountsRepo {
	return &accountsRepo{records: make(map[string]ledger.Account)}
}

func (r *accountsRepo) Get(_ context.Context, accountID string) (ledger.Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.records[accountID]

	return acc, ok, nil
}

func (r *accountsRepo) ConditionalPut(
	_ context.Context,
	accountID string,
	next ledger.Account,
	expectedVersion string,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.records[accountID]
	if !ok || cur.Version != expectedVersion {
		return false, nil
	}

	next.ID = accountID
	r.records[accountID] = next

	return true, nil
}

func (r *accountsRepo) Create(_ context.Context, acc ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[acc.ID]; exists {
		return accounts.ErrAccountExists
	}

	r.records[acc.ID] = acc

	return nil
}
