package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/Kytol/tuplausApi/internal/services/game"
)

type countingResolver struct {
	inner game.Resolver
	calls int
}

func (c *countingResolver) Resolve(choice game.Choice) game.Result {
	c.calls++

	return c.inner.Resolve(choice)
}

func TestDeposit_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     Money
		amount      Money
		wantBalance Money
		wantErr     error
	}{
		{name: "adds_to_zero", balance: 0, amount: 1_000, wantBalance: 1_000},
		{name: "adds_to_positive", balance: 250, amount: 1, wantBalance: 251},
		{name: "zero_rejected", balance: 500, amount: 0, wantBalance: 500, wantErr: ErrInvalidAmount},
		{name: "negative_rejected", balance: 500, amount: -100, wantBalance: 500, wantErr: ErrInvalidAmount},
		{name: "overflow_rejected", balance: math.MaxInt64 - 5, amount: 10, wantBalance: math.MaxInt64 - 5, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			acc := Account{ID: "u1", Balance: tt.balance, Version: "v1"}

			got, err := Deposit(acc, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want err %v, got %v", tt.wantErr, err)
			}

			if got.Balance != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got.Balance)
			}

			if got.IsPlaying != acc.IsPlaying || got.ID != acc.ID || got.Version != acc.Version {
				t.Fatalf("unexpected change to non-balance fields: %+v", got)
			}
		})
	}
}

func TestWithdraw_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     Money
		amount      Money
		wantBalance Money
		wantErr     error
	}{
		{name: "partial", balance: 1_000, amount: 250, wantBalance: 750},
		{name: "exact_to_zero", balance: 300, amount: 300, wantBalance: 0},
		{name: "insufficient", balance: 200, amount: 300, wantBalance: 200, wantErr: ErrInsufficientFunds},
		{name: "zero_rejected", balance: 200, amount: 0, wantBalance: 200, wantErr: ErrInvalidAmount},
		{name: "negative_rejected", balance: 200, amount: -1, wantBalance: 200, wantErr: ErrInvalidAmount},
		{name: "empty_account_insufficient", balance: 0, amount: 1, wantBalance: 0, wantErr: ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Withdraw(Account{ID: "u1", Balance: tt.balance}, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want err %v, got %v", tt.wantErr, err)
			}

			if got.Balance != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got.Balance)
			}

			if got.Balance < 0 {
				t.Fatalf("negative balance: %d", got.Balance)
			}
		})
	}
}

func TestToggleMode_IsItsOwnInverse(t *testing.T) {
	t.Parallel()

	for _, start := range []bool{false, true} {
		acc := Account{ID: "u1", Balance: 4_200, IsPlaying: start}

		once := ToggleMode(acc)
		if once.IsPlaying == start {
			t.Fatalf("toggle did not flip from %v", start)
		}

		twice := ToggleMode(once)
		if twice != acc {
			t.Fatalf("double toggle: want %+v, got %+v", acc, twice)
		}

		if once.Balance != acc.Balance {
			t.Fatalf("toggle changed balance: %d -> %d", acc.Balance, once.Balance)
		}
	}
}

func TestWager_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     Money
		choice      game.Choice
		bet         Money
		rank        int
		wantStatus  game.Status
		wantResult  Money
		wantBalance Money
		wantErr     error
		wantDraws   int
	}{
		{
			name: "small_three_wins_balance_unchanged", balance: 1_000, choice: game.ChoiceSmall, bet: 100, rank: 3,
			wantStatus: game.StatusWin, wantResult: 200, wantBalance: 1_000, wantDraws: 1,
		},
		{
			name: "big_seven_draws", balance: 1_000, choice: game.ChoiceBig, bet: 100, rank: 7,
			wantStatus: game.StatusDraw, wantResult: 0, wantBalance: 1_000, wantDraws: 1,
		},
		{
			name: "small_ten_loses_bet", balance: 1_000, choice: game.ChoiceSmall, bet: 100, rank: 10,
			wantStatus: game.StatusLose, wantResult: 0, wantBalance: 900, wantDraws: 1,
		},
		{
			name: "big_queen_wins", balance: 500, choice: game.ChoiceBig, bet: 500, rank: 12,
			wantStatus: game.StatusWin, wantResult: 1_000, wantBalance: 500, wantDraws: 1,
		},
		{
			name: "all_in_lose_to_zero", balance: 500, choice: game.ChoiceBig, bet: 500, rank: 2,
			wantStatus: game.StatusLose, wantResult: 0, wantBalance: 0, wantDraws: 1,
		},
		{
			name: "unknown_choice_loses", balance: 500, choice: game.Choice("middle"), bet: 50, rank: 4,
			wantStatus: game.StatusLose, wantResult: 0, wantBalance: 450, wantDraws: 1,
		},
		{
			name: "bet_exceeds_balance", balance: 99, choice: game.ChoiceSmall, bet: 100, rank: 3,
			wantBalance: 99, wantErr: ErrInsufficientFunds,
		},
		{
			name: "zero_bet", balance: 99, choice: game.ChoiceSmall, bet: 0, rank: 3,
			wantBalance: 99, wantErr: ErrInvalidBet,
		},
		{
			name: "negative_bet", balance: 99, choice: game.ChoiceSmall, bet: -5, rank: 3,
			wantBalance: 99, wantErr: ErrInvalidBet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &countingResolver{inner: game.Fixed(tt.rank)}
			acc := Account{ID: "u1", Balance: tt.balance}

			got, out, err := Wager(acc, tt.choice, tt.bet, r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want err %v, got %v", tt.wantErr, err)
			}

			if got.Balance != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got.Balance)
			}

			if r.calls != tt.wantDraws {
				t.Fatalf("draws: want %d, got %d", tt.wantDraws, r.calls)
			}

			if tt.wantErr != nil {
				return
			}

			if out.Status != tt.wantStatus {
				t.Fatalf("status: want %s, got %s", tt.wantStatus, out.Status)
			}

			if out.Result != tt.wantResult {
				t.Fatalf("result: want %d, got %d", tt.wantResult, out.Result)
			}

			if out.Card.Rank != tt.rank {
				t.Fatalf("card rank: want %d, got %d", tt.rank, out.Card.Rank)
			}
		})
	}
}
