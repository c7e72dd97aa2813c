package domain

import "fmt"

// LoanStatus is the lifecycle stage of a loan.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
	LoanStatusClosed    LoanStatus = "CLOSED"
)

// LoanAggregate is the state machine and consistency boundary for a single
// borrower's loan. Instances are immutable snapshots: every transition
// returns a new value and leaves the receiver untouched, so concurrency
// control can live entirely outside the state machine.
//
// Version is the optimistic-concurrency fencing token. It holds the version
// the snapshot was read at; the store increments it by exactly one on every
// committed mutation.
type LoanAggregate struct {
	UserID    string
	Principal Money
	Balance   Money
	Status    LoanStatus
	Version   int64
}

// NewLoan creates the initial PENDING snapshot for a borrower. The balance
// starts equal to the principal.
func NewLoan(userID string, principal Money) (LoanAggregate, error) {
	if !principal.IsPositive() {
		return LoanAggregate{}, fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidAmount, principal)
	}

	return LoanAggregate{
		UserID:    userID,
		Principal: principal,
		Balance:   principal,
		Status:    LoanStatusPending,
		Version:   1,
	}, nil
}

// Activate transitions PENDING -> ACTIVE, the moment funds are disbursed.
func (l LoanAggregate) Activate() (LoanAggregate, error) {
	if l.Status != LoanStatusPending {
		return LoanAggregate{}, fmt.Errorf("%w: cannot activate loan in status %s", ErrIllegalStateTransition, l.Status)
	}

	l.Status = LoanStatusActive

	return l, nil
}

// ApplyRepayment reduces the outstanding balance. Legal only while ACTIVE or
// DEFAULTED. A balance of zero forces the terminal CLOSED status.
func (l LoanAggregate) ApplyRepayment(amount Money) (LoanAggregate, error) {
	if l.Status != LoanStatusActive && l.Status != LoanStatusDefaulted {
		return LoanAggregate{}, fmt.Errorf("%w: loan cannot accept repayments in status %s", ErrIllegalStateTransition, l.Status)
	}

	if !amount.IsPositive() {
		return LoanAggregate{}, ErrInvalidRepaymentAmount
	}

	if amount.GreaterThan(l.Balance) {
		return LoanAggregate{}, fmt.Errorf("%w: outstanding balance is %s", ErrRepaymentExceedsBalance, l.Balance)
	}

	l.Balance = l.Balance.Sub(amount)
	if l.Balance.IsZero() {
		l.Status = LoanStatusClosed
	}

	return l, nil
}

// MarkDefaulted transitions ACTIVE -> DEFAULTED.
func (l LoanAggregate) MarkDefaulted() (LoanAggregate, error) {
	if l.Status != LoanStatusActive {
		return LoanAggregate{}, fmt.Errorf("%w: cannot default loan in status %s", ErrIllegalStateTransition, l.Status)
	}

	l.Status = LoanStatusDefaulted

	return l, nil
}
