package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/d3rrick/ledgercore/internal/domain"
)

// MockLedgerRepository is an in-memory implementation of
// usecase.LedgerRepository. Its default behavior mirrors the store contract:
// every write is atomic under a single mutex, idempotency keys are unique
// across the log, and snapshot updates are version-gated. Individual methods
// can be overridden via the *Func fields.
type MockLedgerRepository struct {
	mu       sync.Mutex
	loans    map[string]domain.LoanAggregate
	entries  []domain.LedgerEntry
	usedKeys map[string]bool
	nextID   int

	FindByUserIDFunc      func(ctx context.Context, userID string) (domain.LoanAggregate, error)
	CreateInitialLoanFunc func(ctx context.Context, loan domain.LoanAggregate, idempotencyKey string) error
	RecordTransactionFunc func(ctx context.Context, loan domain.LoanAggregate, delta domain.Money, entryType domain.EntryType, idempotencyKey string) error
	UpdateStatusFunc      func(ctx context.Context, loan domain.LoanAggregate) error
	ListEntriesFunc       func(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		loans:    make(map[string]domain.LoanAggregate),
		usedKeys: make(map[string]bool),
	}
}

func (m *MockLedgerRepository) FindByUserID(ctx context.Context, userID string) (domain.LoanAggregate, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[userID]
	if !ok {
		return domain.LoanAggregate{}, domain.ErrLoanNotFound
	}

	return loan, nil
}

func (m *MockLedgerRepository) CreateInitialLoan(ctx context.Context, loan domain.LoanAggregate, idempotencyKey string) error {
	if m.CreateInitialLoanFunc != nil {
		return m.CreateInitialLoanFunc(ctx, loan, idempotencyKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usedKeys[idempotencyKey] {
		return domain.ErrDuplicateIdempotencyKey
	}

	if _, ok := m.loans[loan.UserID]; ok {
		return domain.ErrLoanAlreadyExists
	}

	m.usedKeys[idempotencyKey] = true
	m.loans[loan.UserID] = loan
	m.appendEntryLocked(loan.UserID, loan.Principal, domain.EntryTypeDisbursement, idempotencyKey)

	return nil
}

func (m *MockLedgerRepository) RecordTransaction(ctx context.Context, loan domain.LoanAggregate, delta domain.Money, entryType domain.EntryType, idempotencyKey string) error {
	if m.RecordTransactionFunc != nil {
		return m.RecordTransactionFunc(ctx, loan, delta, entryType, idempotencyKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usedKeys[idempotencyKey] {
		return domain.ErrDuplicateIdempotencyKey
	}

	current, ok := m.loans[loan.UserID]
	if !ok {
		return domain.ErrLoanNotFound
	}

	// Version fencing: the whole operation aborts with nothing consumed,
	// matching a rolled-back transaction.
	if current.Version != loan.Version {
		return domain.ErrOptimisticLockConflict
	}

	m.usedKeys[idempotencyKey] = true
	loan.Version++
	m.loans[loan.UserID] = loan
	m.appendEntryLocked(loan.UserID, delta, entryType, idempotencyKey)

	return nil
}

func (m *MockLedgerRepository) UpdateStatus(ctx context.Context, loan domain.LoanAggregate) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, loan)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.loans[loan.UserID]
	if !ok {
		return domain.ErrLoanNotFound
	}

	if current.Version != loan.Version {
		return domain.ErrOptimisticLockConflict
	}

	loan.Version++
	m.loans[loan.UserID] = loan

	return nil
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error) {
	if m.ListEntriesFunc != nil {
		return m.ListEntriesFunc(ctx, userID, limit, offset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var all []domain.LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			all = append(all, m.entries[i])
		}
	}

	if offset >= len(all) {
		return nil, nil
	}

	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}

	return all, nil
}

// Entries returns a copy of every recorded entry for assertions.
func (m *MockLedgerRepository) Entries() []domain.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)

	return out
}

// Loan returns the stored snapshot for a user, for assertions.
func (m *MockLedgerRepository) Loan(userID string) (domain.LoanAggregate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[userID]

	return loan, ok
}

func (m *MockLedgerRepository) appendEntryLocked(userID string, delta domain.Money, entryType domain.EntryType, idempotencyKey string) {
	m.nextID++
	m.entries = append(m.entries, domain.LedgerEntry{
		ID:             fmt.Sprintf("entry-%d", m.nextID),
		UserID:         userID,
		AmountDelta:    delta,
		EntryType:      entryType,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now().UTC(),
	})
}

// MockIDGenerator is a deterministic ID generator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++

	return fmt.Sprintf("id-%d", m.counter)
}
