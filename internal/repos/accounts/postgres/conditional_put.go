package accounts

import (
	"context"
	"fmt"

	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

func (r *accountsRepo) ConditionalPut(
	ctx context.Context,
	accountID string,
	next ledger.Account,
	expectedVersion string,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $2,
		    is_playing = $3,
		    version = $4,
		    updated_at = now()
		WHERE id = $1
		  AND version = $5
	`, accountID, int64(next.Balance), next.IsPlaying, next.Version, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("conditional put: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected == 1, nil
}
