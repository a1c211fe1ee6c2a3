package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

func (r *accountsRepo) Get(ctx context.Context, accountID string) (ledger.Account, bool, error) {
	var (
		acc     ledger.Account
		balance int64
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, balance, is_playing, version
		FROM accounts
		WHERE id = $1
	`, accountID).Scan(&acc.ID, &balance, &acc.IsPlaying, &acc.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Account{}, false, nil
		}

		return ledger.Account{}, false, fmt.Errorf("get account: %w", err)
	}

	acc.Balance = ledger.Money(balance)

	return acc, true, nil
}
