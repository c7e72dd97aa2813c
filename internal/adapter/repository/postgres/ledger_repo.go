package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/d3rrick/ledgercore/internal/domain"
	"github.com/d3rrick/ledgercore/internal/usecase"
)

// pgErrUniqueViolation is the PostgreSQL error code for a unique constraint
// violation; it backs both idempotency-key and one-loan-per-user enforcement.
const pgErrUniqueViolation = "23505"

const idempotencyKeyConstraint = "ledger_entries_idempotency_key_key"

// LedgerRepository implements usecase.LedgerRepository on PostgreSQL. The
// loans table holds one snapshot row per borrower, version-gated on update;
// ledger_entries is the append-only log with a unique idempotency key. Every
// write method runs as a single transaction so a failure leaves no partial
// effect.
type LedgerRepository struct {
	pool  *pgxpool.Pool
	idGen usecase.IDGenerator
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *LedgerRepository {
	return &LedgerRepository{
		pool:  pool,
		idGen: idGen,
	}
}

// FindByUserID returns the latest committed snapshot for a borrower.
func (r *LedgerRepository) FindByUserID(ctx context.Context, userID string) (domain.LoanAggregate, error) {
	query := `
		SELECT user_id, principal_amount, current_balance, status, version
		FROM loans
		WHERE user_id = $1
	`

	var (
		loan      domain.LoanAggregate
		principal pgtype.Numeric
		balance   pgtype.Numeric
		status    string
	)

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&loan.UserID,
		&principal,
		&balance,
		&status,
		&loan.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LoanAggregate{}, domain.ErrLoanNotFound
		}

		return domain.LoanAggregate{}, err
	}

	// NewMoney renormalizes on the way out of storage so values read back
	// share the single rounding policy with freshly constructed ones.
	loan.Principal = domain.NewMoney(numericToDecimal(principal))
	loan.Balance = domain.NewMoney(numericToDecimal(balance))
	loan.Status = domain.LoanStatus(status)

	return loan, nil
}

// CreateInitialLoan writes the first snapshot row and the DISBURSEMENT entry
// in one transaction.
func (r *LedgerRepository) CreateInitialLoan(ctx context.Context, loan domain.LoanAggregate, idempotencyKey string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	_, err = tx.Exec(ctx, `
		INSERT INTO loans (user_id, principal_amount, current_balance, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`,
		loan.UserID,
		decimalToNumeric(loan.Principal.Decimal()),
		decimalToNumeric(loan.Balance.Decimal()),
		string(loan.Status),
		loan.Version,
		timeToPgTimestamptz(now),
	)
	if err != nil {
		return mapWriteError(err)
	}

	err = r.insertEntry(ctx, tx, loan.UserID, loan.Principal, domain.EntryTypeDisbursement, idempotencyKey, now)
	if err != nil {
		return mapWriteError(err)
	}

	return tx.Commit(ctx)
}

// RecordTransaction appends a ledger entry and conditionally applies the
// updated snapshot in one transaction. The entry insert enforces idempotency;
// the version-gated update detects stale writers. Either failure rolls the
// whole unit back.
func (r *LedgerRepository) RecordTransaction(ctx context.Context, loan domain.LoanAggregate, delta domain.Money, entryType domain.EntryType, idempotencyKey string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	err = r.insertEntry(ctx, tx, loan.UserID, delta, entryType, idempotencyKey, now)
	if err != nil {
		return mapWriteError(err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE loans
		SET current_balance = $1, status = $2, version = $3, updated_at = $4
		WHERE user_id = $5 AND version = $6
	`,
		decimalToNumeric(loan.Balance.Decimal()),
		string(loan.Status),
		loan.Version+1,
		timeToPgTimestamptz(now),
		loan.UserID,
		loan.Version,
	)
	if err != nil {
		return err
	}

	// Zero rows means another writer committed between our read and this
	// write; the rollback also discards the entry inserted above.
	if tag.RowsAffected() == 0 {
		return domain.ErrOptimisticLockConflict
	}

	return tx.Commit(ctx)
}

// UpdateStatus applies a status-only snapshot change, version-gated, with no
// ledger entry.
func (r *LedgerRepository) UpdateStatus(ctx context.Context, loan domain.LoanAggregate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE loans
		SET status = $1, version = $2, updated_at = $3
		WHERE user_id = $4 AND version = $5
	`,
		string(loan.Status),
		loan.Version+1,
		timeToPgTimestamptz(time.Now().UTC()),
		loan.UserID,
		loan.Version,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrOptimisticLockConflict
	}

	return nil
}

// ListEntries returns the borrower's ledger entries, newest first.
func (r *LedgerRepository) ListEntries(ctx context.Context, userID string, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT id, user_id, amount_delta, entry_type, idempotency_key, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			entry     domain.LedgerEntry
			delta     pgtype.Numeric
			entryType string
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(&entry.ID, &entry.UserID, &delta, &entryType, &entry.IdempotencyKey, &createdAt)
		if err != nil {
			return nil, err
		}

		entry.AmountDelta = domain.NewMoney(numericToDecimal(delta))
		entry.EntryType = domain.EntryType(entryType)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *LedgerRepository) insertEntry(ctx context.Context, tx pgx.Tx, userID string, delta domain.Money, entryType domain.EntryType, idempotencyKey string, now time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (id, user_id, amount_delta, entry_type, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		r.idGen.Generate(),
		userID,
		decimalToNumeric(delta.Decimal()),
		string(entryType),
		idempotencyKey,
		timeToPgTimestamptz(now),
	)

	return err
}

// mapWriteError maps unique violations to their typed domain outcomes.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		if pgErr.ConstraintName == idempotencyKeyConstraint {
			return domain.ErrDuplicateIdempotencyKey
		}

		return domain.ErrLoanAlreadyExists
	}

	return err
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
