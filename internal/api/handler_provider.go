package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Kytol/tuplausApi/internal/services/account"
	"github.com/Kytol/tuplausApi/internal/services/game"
	"github.com/Kytol/tuplausApi/internal/services/ledger"
)

const maxBodyBytes = 1 << 20

// LedgerService is the account service as seen by the HTTP layer.
type LedgerService interface {
	GetBalance(ctx context.Context, accountID string) (ledger.Money, error)
	GetUserInfo(ctx context.Context, accountID string) (ledger.Account, error)
	AddFunds(ctx context.Context, accountID string, req account.DepositRequest) (ledger.Account, error)
	WithdrawFunds(ctx context.Context, accountID string, req account.WithdrawRequest) (ledger.Account, error)
	ToggleMode(ctx context.Context, accountID string) (ledger.Account, error)
	Wager(ctx context.Context, accountID string, req account.WagerRequest) (ledger.WagerOutcome, error)
	OpenAccount(ctx context.Context, accountID string) (ledger.Account, error)
}

// HandlerProvider wraps a LedgerService and exposes HTTP handlers.
type HandlerProvider struct {
	svc LedgerService
}

func NewHandler(svc LedgerService) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Wire types ---

// jsonAmount holds a JSON number literal verbatim. Quoted numbers are
// rejected so "10" is never taken for 10.
type jsonAmount string

var errQuotedAmount = errors.New("amount must be a JSON number, not a string")

func (a *jsonAmount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return errQuotedAmount
	}

	var n json.Number

	err := json.Unmarshal(b, &n)
	if err != nil {
		return err
	}

	*a = jsonAmount(n)

	return nil
}

type addFundsRequest struct {
	Deposit jsonAmount `json:"deposit"`
}

type withdrawFundsRequest struct {
	WithdrawAmount jsonAmount `json:"withdrawAmount"`
}

type doubleRequest struct {
	Choice string     `json:"choice"`
	Bet    jsonAmount `json:"bet"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type balanceResponse struct {
	Balance ledger.Money `json:"balance"`
}

type cardResponse struct {
	Number int    `json:"number"`
	Suit   string `json:"suit"`
	Icon   string `json:"icon"`
}

type doubleResponse struct {
	Message   string       `json:"message"`
	Result    ledger.Money `json:"result"`
	Card      cardResponse `json:"card"`
	WinStatus game.Status  `json:"winStatus"`
}

type userInfoResponse struct {
	ID        string       `json:"id"`
	Balance   ledger.Money `json:"balance"`
	IsPlaying bool         `json:"isPlaying"`
	Version   string       `json:"version"`
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

var errEmptyBody = errors.New("empty body")

// decodeJSON limits the body size and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

func parseAmount(n jsonAmount) (ledger.Money, error) {
	amount, err := ledger.ParseMoney(string(n))
	if err != nil {
		return 0, fmt.Errorf("parse amount: %w", err)
	}

	return amount, nil
}

// writeServiceError maps service and ledger errors onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		writeMessage(w, http.StatusBadRequest, "Invalid amount")
	case errors.Is(err, ledger.ErrInvalidBet):
		writeMessage(w, http.StatusBadRequest, "Invalid bet")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeMessage(w, http.StatusBadRequest, "Not enough funds")
	case errors.Is(err, account.ErrAccountNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, account.ErrAccountExists):
		writeMessage(w, http.StatusConflict, "Account already exists")
	case errors.Is(err, account.ErrContention):
		w.Header().Set("Retry-After", "1")
		writeMessage(w, http.StatusConflict, "Account is busy, try again")
	case errors.Is(err, account.ErrStoreUnavailable):
		slog.ErrorContext(r.Context(), "account store unavailable", "path", r.URL.Path, "error", err)
		w.Header().Set("Retry-After", "1")
		writeMessage(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// --- Handlers ---

// GetFundsHandler handles GET /api/get-funds
func (h *HandlerProvider) GetFundsHandler(w http.ResponseWriter, r *http.Request) {
	accountID := mustAccountID(r)

	bal, err := h.svc.GetBalance(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{Balance: bal})
}

// AddFundsHandler handles POST /api/add-funds
func (h *HandlerProvider) AddFundsHandler(w http.ResponseWriter, r *http.Request) {
	accountID := mustAccountID(r)

	var req addFundsRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Deposit)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	_, err = h.svc.AddFunds(r.Context(), accountID, account.DepositRequest{Amount: amount})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Funds added successfully")
}

// WithdrawFundsHandler handles POST /api/withdraw-funds
func (h *HandlerProvider) WithdrawFundsHandler(w http.ResponseWriter, r *http.Request) {
	accountID := mustAccountID(r)

	var req withdrawFundsRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.WithdrawAmount)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	_, err = h.svc.WithdrawFunds(r.Context(), accountID, account.WithdrawRequest{Amount: amount})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Funds withdrawn successfully")
}

// TogglePlayingModeHandler handles POST /api/toggle-playing-mode
func (h *HandlerProvider) TogglePlayingModeHandler(w http.ResponseWriter, r *http.Request) {
	accountID := mustAccountID(r)

	_, err := h.svc.ToggleMode(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Playing mode toggled successfully")
}

// DoubleHandler handles POST /api/double
func (h *HandlerProvider) DoubleHandler(w http.ResponseWriter, r *http.Request) {
	accountID := mustAccountID(r)

	var req doubleRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := parseAmount(req.Bet)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid bet")
		return
	}

	out, err := h.svc.Wager(r.Context(), accountID, account.WagerRequest{
		Choice: game.Choice(req.Choice),
		Bet:    bet,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doubleResponse{
		Message: "Doubling processed successfully",
		Result:  out.Result,
		Card: cardResponse{
			Number: out.Card.Rank,
			Suit:   out.Card.Suit.Name,
			Icon:   out.Card.Suit.Icon,
		},
		WinStatus: out.Status,
	})
}

// UserInfoHandler handles GET /api/user-info
func (h *HandlerProvider) UserInfoHandler(w http.ResponseWriter, r *http.Request) {
	accountID := mustAccountID(r)

	acc, err := h.svc.GetUserInfo(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userInfoResponse{
		ID:        acc.ID,
		Balance:   acc.Balance,
		IsPlaying: acc.IsPlaying,
		Version:   acc.Version,
	})
}

// OpenAccountHandler handles POST /api/open-account
func (h *HandlerProvider) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	accountID := mustAccountID(r)

	_, err := h.svc.OpenAccount(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Account created")
}
