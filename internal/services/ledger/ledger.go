// Package ledger computes the next state of an account for a requested
// operation. It performs no I/O; every function either returns the new
// account or a rejection, and never mutates its input.
package ledger

import (
	"errors"
	"math"

	"github.com/Kytol/tuplausApi/internal/services/game"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidBet        = errors.New("invalid bet")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type Account struct {
	ID        string
	Balance   Money
	IsPlaying bool
	Version   string
}

// WagerOutcome is what the caller gets back from a wager. Result is the
// payout shown to the player; it is not credited to the balance.
type WagerOutcome struct {
	Card   game.Card
	Status game.Status
	Result Money
}

func Deposit(acc Account, amount Money) (Account, error) {
	if amount <= 0 {
		return acc, ErrInvalidAmount
	}

	if acc.Balance > math.MaxInt64-amount {
		return acc, ErrInvalidAmount
	}

	acc.Balance += amount

	return acc, nil
}

func Withdraw(acc Account, amount Money) (Account, error) {
	if amount <= 0 {
		return acc, ErrInvalidAmount
	}

	if amount > acc.Balance {
		return acc, ErrInsufficientFunds
	}

	acc.Balance -= amount

	return acc, nil
}

func ToggleMode(acc Account) Account {
	acc.IsPlaying = !acc.IsPlaying

	return acc
}

// Wager validates the bet, asks r for a draw and applies the outcome:
//
//	Win  -> result 2*bet, balance unchanged
//	Draw -> result 0,     balance unchanged
//	Lose -> result 0,     balance - bet
//
// r is only consulted once the bet has been accepted.
func Wager(acc Account, choice game.Choice, bet Money, r game.Resolver) (Account, WagerOutcome, error) {
	if bet <= 0 || bet > math.MaxInt64/2 {
		return acc, WagerOutcome{}, ErrInvalidBet
	}

	if bet > acc.Balance {
		return acc, WagerOutcome{}, ErrInsufficientFunds
	}

	res := r.Resolve(choice)
	out := WagerOutcome{Card: res.Card, Status: res.Status}

	switch res.Status {
	case game.StatusWin:
		out.Result = 2 * bet
	case game.StatusDraw:
	default:
		acc.Balance -= bet
	}

	return acc, out, nil
}
