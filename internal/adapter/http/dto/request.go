package dto

import "github.com/shopspring/decimal"

// OriginateLoanRequest represents a request to originate a loan.
type OriginateLoanRequest struct {
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// RepaymentRequest represents a request to repay part of a loan. The
// idempotency key may also arrive via the Idempotency-Key header.
type RepaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}
