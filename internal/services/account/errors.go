package account

import (
	"errors"

	"github.com/Kytol/tuplausApi/internal/repos/accounts"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrContention       = errors.New("too much contention on account")
	ErrStoreUnavailable = errors.New("account store unavailable")
	ErrAccountExists    = accounts.ErrAccountExists
)
