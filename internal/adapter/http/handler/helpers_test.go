package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/d3rrick/ledgercore/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrLoanNotFound, http.StatusNotFound},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidRepaymentAmount, http.StatusBadRequest},
		{domain.ErrRepaymentExceedsBalance, http.StatusBadRequest},
		{domain.ErrIllegalStateTransition, http.StatusBadRequest},
		{domain.ErrOptimisticLockConflict, http.StatusConflict},
		{domain.ErrDuplicateIdempotencyKey, http.StatusConflict},
		{domain.ErrLoanAlreadyExists, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.want {
				t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapDomainError_Wrapped(t *testing.T) {
	err := fmt.Errorf("%w: repayment of 1000.01 exceeds balance 1000.00", domain.ErrRepaymentExceedsBalance)
	if got := mapDomainError(err); got != http.StatusBadRequest {
		t.Errorf("mapDomainError(wrapped) = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "present", query: "limit=25", want: 25},
		{name: "missing", query: "", want: 20},
		{name: "not a number", query: "limit=abc", want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			if got := parseIntQuery(req, "limit", 20); got != tt.want {
				t.Errorf("parseIntQuery() = %d, want %d", got, tt.want)
			}
		})
	}
}
