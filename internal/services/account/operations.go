package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

// GetBalance returns the account's balance (no write, no retry).
func (s *AccountService) GetBalance(ctx context.Context, accountID string) (ledger.Money, error) {
	acc, err := s.load(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return acc.Balance, nil
}

// GetUserInfo returns a full snapshot of the account.
func (s *AccountService) GetUserInfo(ctx context.Context, accountID string) (ledger.Account, error) {
	acc, err := s.load(ctx, accountID)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("get user info: %w", err)
	}

	return acc, nil
}

func (s *AccountService) AddFunds(ctx context.Context, accountID string, req DepositRequest) (ledger.Account, error) {
	acc, err := s.execute(ctx, accountID, func(cur ledger.Account) (ledger.Account, error) {
		return ledger.Deposit(cur, req.Amount)
	})
	if err != nil {
		return ledger.Account{}, fmt.Errorf("add funds: %w", err)
	}

	return acc, nil
}

func (s *AccountService) WithdrawFunds(ctx context.Context, accountID string, req WithdrawRequest) (ledger.Account, error) {
	acc, err := s.execute(ctx, accountID, func(cur ledger.Account) (ledger.Account, error) {
		return ledger.Withdraw(cur, req.Amount)
	})
	if err != nil {
		return ledger.Account{}, fmt.Errorf("withdraw funds: %w", err)
	}

	return acc, nil
}

func (s *AccountService) ToggleMode(ctx context.Context, accountID string) (ledger.Account, error) {
	acc, err := s.execute(ctx, accountID, func(cur ledger.Account) (ledger.Account, error) {
		return ledger.ToggleMode(cur), nil
	})
	if err != nil {
		return ledger.Account{}, fmt.Errorf("toggle mode: %w", err)
	}

	return acc, nil
}

// Wager plays one round of double or nothing. The card is drawn at most once
// per call, however many times the write has to be retried.
func (s *AccountService) Wager(ctx context.Context, accountID string, req WagerRequest) (ledger.WagerOutcome, error) {
	var (
		out      ledger.WagerOutcome
		resolver = &onceResolver{inner: s.resolver}
	)

	_, err := s.execute(ctx, accountID, func(cur ledger.Account) (ledger.Account, error) {
		next, o, err := ledger.Wager(cur, req.Choice, req.Bet, resolver)
		if err != nil {
			return ledger.Account{}, err
		}

		out = o

		return next, nil
	})
	if err != nil {
		return ledger.WagerOutcome{}, fmt.Errorf("wager: %w", err)
	}

	return out, nil
}

// OpenAccount provisions an empty account for accountID.
func (s *AccountService) OpenAccount(ctx context.Context, accountID string) (ledger.Account, error) {
	acc := ledger.Account{ID: accountID, Version: s.newVersion()}

	err := s.store.Create(ctx, acc)
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return ledger.Account{}, fmt.Errorf("open account: %w", ErrAccountExists)
		}

		return ledger.Account{}, fmt.Errorf("open account: %w: %w", ErrStoreUnavailable, err)
	}

	return acc, nil
}
