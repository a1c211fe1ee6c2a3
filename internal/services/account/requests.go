package account

import (
	"github.com/Kytol/tuplausApi/internal/services/game"
	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

type DepositRequest struct {
	Amount ledger.Money
}

type WithdrawRequest struct {
	Amount ledger.Money
}

type WagerRequest struct {
	Choice game.Choice
	Bet    ledger.Money
}
