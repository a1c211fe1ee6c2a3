package accounts

import (
	"context"
	"errors"

	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

var ErrAccountExists = errors.New("account already exists")

// Accounts is the storage contract the account service relies on.
//
// ConditionalPut replaces the stored record only if its version still equals
// expectedVersion. It reports false, with a nil error, when the version no
// longer matches or the record is gone.
type Accounts interface {
	Get(ctx context.Context, accountID string) (ledger.Account, bool, error)
	ConditionalPut(ctx context.Context, accountID string, next ledger.Account, expectedVersion string) (bool, error)
	Create(ctx context.Context, acc ledger.Account) error
}
