package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/d3rrick/ledgercore/internal/domain"
)

// LoanResponse represents a loan snapshot in API responses.
type LoanResponse struct {
	UserID          string          `json:"user_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	Status          string          `json:"status"`
	Version         int64           `json:"version"`
}

// LoanFromDomain converts a domain snapshot to a response.
func LoanFromDomain(l domain.LoanAggregate) *LoanResponse {
	return &LoanResponse{
		UserID:          l.UserID,
		PrincipalAmount: l.Principal.Decimal(),
		CurrentBalance:  l.Balance.Decimal(),
		Status:          string(l.Status),
		Version:         l.Version,
	}
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	AmountDelta    decimal.Decimal `json:"amount_delta"`
	EntryType      string          `json:"entry_type"`
	IdempotencyKey string          `json:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LedgerEntriesFromDomain converts domain entries to responses.
func LedgerEntriesFromDomain(entries []domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &LedgerEntryResponse{
			ID:             e.ID,
			UserID:         e.UserID,
			AmountDelta:    e.AmountDelta.Decimal(),
			EntryType:      string(e.EntryType),
			IdempotencyKey: e.IdempotencyKey,
			CreatedAt:      e.CreatedAt,
		}
	}

	return result
}

// ListEntriesResponse wraps a page of ledger entries.
type ListEntriesResponse struct {
	Entries []*LedgerEntryResponse `json:"entries"`
	Total   int64                  `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
