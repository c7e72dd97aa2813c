package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/d3rrick/ledgercore/internal/adapter/http/dto"
	"github.com/d3rrick/ledgercore/internal/domain"
)

// IdempotencyKeyHeader carries the idempotency key when it is not in the
// request body.
const IdempotencyKeyHeader = "Idempotency-Key"

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	OriginateLoan(ctx context.Context, userID string, amount domain.Money, idempotencyKey string) (domain.LoanAggregate, error)
	ProcessRepayment(ctx context.Context, userID string, amount domain.Money, idempotencyKey string) (domain.LoanAggregate, error)
	MarkLoanDefaulted(ctx context.Context, userID string) (domain.LoanAggregate, error)
	GetLoanDetails(ctx context.Context, userID string) (domain.LoanAggregate, error)
	ListLedgerEntries(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error)
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Originate creates and activates a new loan.
func (h *LoanHandler) Originate(w http.ResponseWriter, r *http.Request) {
	var req dto.OriginateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = r.Header.Get(IdempotencyKeyHeader)
	}
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing idempotency key", "")
		return
	}

	loan, err := h.loanUC.OriginateLoan(r.Context(), req.UserID, domain.NewMoney(req.Amount), key)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to originate loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Repay applies a repayment to a loan.
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	var req dto.RepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = r.Header.Get(IdempotencyKeyHeader)
	}
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing idempotency key", "")
		return
	}

	loan, err := h.loanUC.ProcessRepayment(r.Context(), userID, domain.NewMoney(req.Amount), key)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to process repayment", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, dto.LoanFromDomain(loan))
}

// Default marks a loan as defaulted.
func (h *LoanHandler) Default(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	loan, err := h.loanUC.MarkLoanDefaulted(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to mark loan defaulted", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Get retrieves the current loan snapshot.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	loan, err := h.loanUC.GetLoanDetails(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// ListEntries returns a page of the loan's ledger entries.
func (h *LoanHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.loanUC.ListLedgerEntries(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list ledger entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.LedgerEntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}
