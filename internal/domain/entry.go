package domain

import "time"

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryTypeDisbursement EntryType = "DISBURSEMENT"
	EntryTypeRepayment    EntryType = "REPAYMENT"
)

// LedgerEntry is one immutable, append-only record of a balance-changing
// event. The entry log is the source of truth for audit; the loan snapshot is
// a materialized sum of entries to date.
type LedgerEntry struct {
	ID             string
	UserID         string
	AmountDelta    Money // positive for disbursement, negative for repayment
	EntryType      EntryType
	IdempotencyKey string
	CreatedAt      time.Time
}
