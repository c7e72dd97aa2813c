package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits every Money value carries.
const moneyScale = 2

// Money is an immutable fixed-point monetary amount. Every construction path
// normalizes to two fractional digits with ties rounded away from zero, so
// values compare and persist without scale drift.
type Money struct {
	amount decimal.Decimal
}

// NewMoney normalizes d into a Money value.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d.Round(moneyScale)}
}

// NewMoneyFromString parses s into a Money value.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return NewMoney(d), nil
}

// Sub returns m - other, normalized.
func (m Money) Sub(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// Neg returns -m.
func (m Money) Neg() Money {
	return NewMoney(m.amount.Neg())
}

// Equal reports whether two amounts represent the same value.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is strictly negative.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Decimal returns the normalized decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}
