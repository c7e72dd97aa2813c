package usecase_test

import (
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d3rrick/ledgercore/internal/usecase"
	"github.com/d3rrick/ledgercore/internal/usecase/mocks"
)

func TestDefaultBackOffSchedule(t *testing.T) {
	uc := usecase.NewLoanUseCase(mocks.NewMockLedgerRepository(), usecase.RetrySettings{
		MaxAttempts:    5,
		InitialBackoff: 50 * time.Millisecond,
	})

	b := uc.NewBackOff()
	exp, ok := b.(*backoff.ExponentialBackOff)
	require.True(t, ok, "expected exponential backoff by default")

	assert.Equal(t, 50*time.Millisecond, exp.InitialInterval)
	assert.Equal(t, time.Duration(0), exp.MaxElapsedTime, "loop is bounded by attempts, not wall clock")
	assert.Greater(t, exp.Multiplier, 1.0, "delays must grow between attempts")
}

func TestRetrySettingsDefaults(t *testing.T) {
	uc := usecase.NewLoanUseCase(mocks.NewMockLedgerRepository(), usecase.RetrySettings{})

	b := uc.NewBackOff()
	exp, ok := b.(*backoff.ExponentialBackOff)
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, exp.InitialInterval)
}
