package usecase

import (
	"context"
	"time"

	"github.com/d3rrick/ledgercore/internal/domain"
)

// LedgerRepository is the persistence port for loan snapshots and the
// append-only entry log. Implementations must provide transactional
// atomicity: every write either commits the entry and the snapshot together
// or commits neither.
type LedgerRepository interface {
	// FindByUserID returns the latest committed snapshot for a borrower, or
	// domain.ErrLoanNotFound.
	FindByUserID(ctx context.Context, userID string) (domain.LoanAggregate, error)

	// CreateInitialLoan atomically writes the first snapshot row together
	// with a DISBURSEMENT entry carrying idempotencyKey. A reused key yields
	// domain.ErrDuplicateIdempotencyKey; an existing loan for the user yields
	// domain.ErrLoanAlreadyExists. Neither leaves partial effects.
	CreateInitialLoan(ctx context.Context, loan domain.LoanAggregate, idempotencyKey string) error

	// RecordTransaction atomically appends a ledger entry and applies the
	// updated snapshot, incrementing the stored version by one, but only if
	// the stored version still equals loan.Version. A reused key yields
	// domain.ErrDuplicateIdempotencyKey; a stale version yields
	// domain.ErrOptimisticLockConflict. Either failure rolls back both writes.
	RecordTransaction(ctx context.Context, loan domain.LoanAggregate, delta domain.Money, entryType domain.EntryType, idempotencyKey string) error

	// UpdateStatus applies a status-only snapshot change (no ledger entry),
	// version-gated like RecordTransaction.
	UpdateStatus(ctx context.Context, loan domain.LoanAggregate) error

	// ListEntries returns the borrower's ledger entries, newest first.
	ListEntries(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error)
}

// IDGenerator generates unique IDs for ledger entries.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore caches responses for idempotent request replay at the
// transport boundary.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
