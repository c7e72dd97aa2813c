package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/d3rrick/ledgercore/internal/domain"
	"github.com/d3rrick/ledgercore/internal/infrastructure/metrics"
)

const (
	defaultMaxAttempts    = 5
	defaultInitialBackoff = 100 * time.Millisecond
)

// RetrySettings bounds the conflict-retry loop around versioned writes.
type RetrySettings struct {
	// MaxAttempts is the total number of read-modify-write attempts,
	// including the first one.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry; subsequent delays
	// grow exponentially.
	InitialBackoff time.Duration
}

// LoanUseCase orchestrates loan origination and repayment against the ledger
// store. It holds no locks: staleness is detected by the store's version
// check, and the whole read-apply-write cycle is re-executed on conflict.
type LoanUseCase struct {
	ledgerRepo     LedgerRepository
	maxAttempts    int
	initialBackoff time.Duration

	// NewBackOff produces the delay schedule for one conflict-retry loop.
	// Exposed so tests can substitute a zero-delay schedule.
	NewBackOff func() backoff.BackOff
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(ledgerRepo LedgerRepository, retry RetrySettings) *LoanUseCase {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = defaultMaxAttempts
	}

	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = defaultInitialBackoff
	}

	uc := &LoanUseCase{
		ledgerRepo:     ledgerRepo,
		maxAttempts:    retry.MaxAttempts,
		initialBackoff: retry.InitialBackoff,
	}

	uc.NewBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = uc.initialBackoff
		b.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

		return b
	}

	return uc
}

// OriginateLoan creates and immediately activates a loan, committing the
// initial snapshot and the DISBURSEMENT entry in one atomic store operation.
// Origination is never retried: every failure is a definite outcome.
func (uc *LoanUseCase) OriginateLoan(ctx context.Context, userID string, amount domain.Money, idempotencyKey string) (domain.LoanAggregate, error) {
	loan, err := domain.NewLoan(userID, amount)
	if err != nil {
		return domain.LoanAggregate{}, err
	}

	// Direct single-step origination; an underwriting step would slot in
	// between creation and activation.
	active, err := loan.Activate()
	if err != nil {
		return domain.LoanAggregate{}, err
	}

	if err := uc.ledgerRepo.CreateInitialLoan(ctx, active, idempotencyKey); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			metrics.DuplicateRequests.WithLabelValues("originate").Inc()
		}

		return domain.LoanAggregate{}, err
	}

	metrics.LoansOriginated.Inc()

	return active, nil
}

// ProcessRepayment applies a repayment to the borrower's loan. On a version
// conflict the full read-apply-write cycle is retried with exponential
// backoff; every other failure surfaces immediately.
func (uc *LoanUseCase) ProcessRepayment(ctx context.Context, userID string, amount domain.Money, idempotencyKey string) (domain.LoanAggregate, error) {
	var updated domain.LoanAggregate

	err := uc.retryOnConflict(ctx, func() error {
		loan, err := uc.ledgerRepo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}

		updated, err = loan.ApplyRepayment(amount)
		if err != nil {
			return err
		}

		return uc.ledgerRepo.RecordTransaction(ctx, updated, amount.Neg(), domain.EntryTypeRepayment, idempotencyKey)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			metrics.DuplicateRequests.WithLabelValues("repayment").Inc()
		}

		return domain.LoanAggregate{}, err
	}

	metrics.RepaymentsProcessed.Inc()
	metrics.RepaymentAmount.Observe(amount.Decimal().InexactFloat64())

	// Version advances on commit; reflect it in the returned snapshot.
	updated.Version++

	return updated, nil
}

// MarkLoanDefaulted transitions the borrower's loan to DEFAULTED via a
// version-gated status update, retried on conflict like repayments.
func (uc *LoanUseCase) MarkLoanDefaulted(ctx context.Context, userID string) (domain.LoanAggregate, error) {
	var updated domain.LoanAggregate

	err := uc.retryOnConflict(ctx, func() error {
		loan, err := uc.ledgerRepo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}

		updated, err = loan.MarkDefaulted()
		if err != nil {
			return err
		}

		return uc.ledgerRepo.UpdateStatus(ctx, updated)
	})
	if err != nil {
		return domain.LoanAggregate{}, err
	}

	metrics.LoansDefaulted.Inc()
	updated.Version++

	return updated, nil
}

// GetLoanDetails returns the latest committed snapshot for a borrower.
func (uc *LoanUseCase) GetLoanDetails(ctx context.Context, userID string) (domain.LoanAggregate, error) {
	return uc.ledgerRepo.FindByUserID(ctx, userID)
}

// ListLedgerEntries returns a page of the borrower's ledger, newest first.
func (uc *LoanUseCase) ListLedgerEntries(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	if offset < 0 {
		offset = 0
	}

	return uc.ledgerRepo.ListEntries(ctx, userID, limit, offset)
}

// retryOnConflict runs op up to maxAttempts times, backing off between
// attempts. Only domain.ErrOptimisticLockConflict is retried; any other
// error aborts the loop immediately. Exhausting the attempts surfaces the
// conflict to the caller.
func (uc *LoanUseCase) retryOnConflict(ctx context.Context, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(uc.NewBackOff(), uint64(uc.maxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrOptimisticLockConflict) {
			return backoff.Permanent(err)
		}

		metrics.RepaymentConflicts.Inc()

		return err
	}, b)
}
