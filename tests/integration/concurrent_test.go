package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/d3rrick/ledgercore/internal/adapter/repository/postgres"
	"github.com/d3rrick/ledgercore/internal/domain"
	"github.com/d3rrick/ledgercore/internal/usecase"
	"github.com/d3rrick/ledgercore/tests/testutil"
)

func TestConcurrentRepayments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	repo := postgres.NewLedgerRepository(testDB.Pool, postgres.NewULIDGenerator())
	loanUC := usecase.NewLoanUseCase(repo, usecase.RetrySettings{
		MaxAttempts:    50,
		InitialBackoff: 5 * time.Millisecond,
	})

	t.Run("concurrent repayments drain the loan exactly", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		if _, err := loanUC.OriginateLoan(ctx, "alice", money(t, "100.00"), "orig-1"); err != nil {
			t.Fatalf("origination failed: %v", err)
		}

		numRepayments := 10

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numRepayments)

		for i := 0; i < numRepayments; i++ {
			go func(i int) {
				defer wg.Done()

				key := "rep-" + string(rune('a'+i))
				if _, err := loanUC.ProcessRepayment(ctx, "alice", money(t, "10.00"), key); err != nil {
					t.Errorf("repayment %d failed: %v", i, err)
					return
				}
				successCount.Add(1)
			}(i)
		}

		wg.Wait()

		if successCount.Load() != int32(numRepayments) {
			t.Fatalf("expected %d successful repayments, got %d", numRepayments, successCount.Load())
		}

		loan, err := loanUC.GetLoanDetails(ctx, "alice")
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}

		if !loan.Balance.IsZero() {
			t.Errorf("expected zero balance, got %s", loan.Balance)
		}
		if loan.Status != domain.LoanStatusClosed {
			t.Errorf("expected CLOSED, got %s", loan.Status)
		}
		if loan.Version != int64(numRepayments)+1 {
			t.Errorf("expected version %d, got %d", numRepayments+1, loan.Version)
		}
		if got := testDB.CountEntries(ctx, "alice"); got != numRepayments+1 {
			t.Errorf("expected %d entries, got %d", numRepayments+1, got)
		}
	})

	t.Run("concurrent overdrain rejects the excess", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		if _, err := loanUC.OriginateLoan(ctx, "alice", money(t, "100.00"), "orig-1"); err != nil {
			t.Fatalf("origination failed: %v", err)
		}

		numRepayments := 15 // 15 * 10 = 150 > 100

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			rejectCount  atomic.Int32
		)

		wg.Add(numRepayments)

		for i := 0; i < numRepayments; i++ {
			go func(i int) {
				defer wg.Done()

				key := "rep-" + string(rune('a'+i))
				if _, err := loanUC.ProcessRepayment(ctx, "alice", money(t, "10.00"), key); err != nil {
					rejectCount.Add(1)
					return
				}
				successCount.Add(1)
			}(i)
		}

		wg.Wait()

		if successCount.Load() != 10 {
			t.Errorf("expected exactly 10 accepted repayments, got %d (rejected %d)", successCount.Load(), rejectCount.Load())
		}

		loan, err := loanUC.GetLoanDetails(ctx, "alice")
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if !loan.Balance.IsZero() {
			t.Errorf("expected zero balance, got %s", loan.Balance)
		}
	})
}
