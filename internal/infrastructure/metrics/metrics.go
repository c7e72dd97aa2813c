package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics for the loan ledger. Registered once at init so every
// layer can increment them without plumbing a registry around.
var (
	LoansOriginated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgercore_loans_originated_total",
		Help: "Total number of loans originated",
	})

	LoansDefaulted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgercore_loans_defaulted_total",
		Help: "Total number of loans marked defaulted",
	})

	RepaymentsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgercore_repayments_processed_total",
		Help: "Total number of repayments committed",
	})

	RepaymentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledgercore_repayment_conflicts_total",
		Help: "Total number of optimistic lock conflicts observed on versioned writes",
	})

	RepaymentAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledgercore_repayment_amount",
		Help:    "Repayment amounts",
		Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
	})

	DuplicateRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgercore_duplicate_requests_total",
			Help: "Total requests rejected for a reused idempotency key",
		},
		[]string{"operation"},
	)
)
