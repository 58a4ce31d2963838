package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// ErrConflict is returned when Postgres aborts a transaction because of a
// serialization failure or a deadlock. The whole transaction may be retried.
var ErrConflict = errors.New("concurrent modification conflict")

const (
	pqForeignKeyViolation   = "23503"
	pqUniqueViolation       = "23505"
	pqCheckViolation        = "23514"
	pqSerializationFailure  = "40001"
	pqDeadlockDetected      = "40P01"
	pqLockNotAvailable      = "55P03"
	pqInvalidDatetimeFormat = "22007"
	pqDatetimeFieldOverflow = "22008"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Transactor runs fn inside a single database transaction. The executor
// handed to fn must be passed to every repository call that belongs to the
// transaction. The transaction is rolled back when fn returns an error or panics.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type postgresTransactor struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresTransactor(db *sql.DB, logger *slog.Logger) Transactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresTransactor{db: db, logger: logger}
}

func (t *postgresTransactor) WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) (txErr error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				t.logger.Error("transaction rollback failed", "error", rbErr, "cause", txErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = mapConflict(fmt.Errorf("failed to commit transaction: %w", cErr))
		}
	}()

	return mapConflict(fn(tx))
}

// mapConflict rewrites retryable Postgres aborts to ErrConflict and leaves
// every other error untouched.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
		}
	}
	return err
}

func pqCode(err error) (code string, constraint string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}
