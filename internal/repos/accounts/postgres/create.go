package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kytol/tuplausApi/internal/repos/accounts"
	"github.com/Kytol/tuplausApi/internal/services/ledger"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *accountsRepo) Create(ctx context.Context, acc ledger.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, balance, is_playing, version)
		VALUES ($1, $2, $3, $4)
	`, acc.ID, int64(acc.Balance), acc.IsPlaying, acc.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return accounts.ErrAccountExists
			}
		}

		return fmt.Errorf("create account: %w", err)
	}

	return nil
}
