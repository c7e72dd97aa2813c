package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount           = errors.New("amount is not a valid monetary value")
	ErrInvalidRepaymentAmount  = errors.New("repayment amount must be positive")
	ErrRepaymentExceedsBalance = errors.New("repayment exceeds outstanding balance")

	// State errors
	ErrIllegalStateTransition = errors.New("illegal loan state transition")

	// Store errors
	ErrLoanNotFound            = errors.New("loan not found")
	ErrLoanAlreadyExists       = errors.New("loan already exists for user")
	ErrOptimisticLockConflict  = errors.New("loan was modified by another process")
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)
