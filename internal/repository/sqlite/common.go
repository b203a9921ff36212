package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"task-tracker/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors.
// Context deadline failures become timeout errors.
func HandleDatabaseError(operation string, err error, timeout time.Duration) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, timeout.String())
	}
	return errors.NewStorageError(operation, err)
}

// withTimeout derives a context bounded by d; d <= 0 leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// ExecuteWithRowsAffected executes a write and returns the number of rows
// it touched.
func ExecuteWithRowsAffected(ctx context.Context, db *sql.DB, timeout time.Duration, operation string, query string, args ...interface{}) (int64, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, HandleDatabaseError(operation, err, timeout)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, HandleDatabaseError("get rows affected", err, timeout)
	}
	return rows, nil
}

// QuerySingle executes a query that returns at most one row and scans it.
// found is false when the query returned no rows.
func QuerySingle[T any](ctx context.Context, db *sql.DB, timeout time.Duration, query string, scanFunc func(Scanner) (*T, error), entityType string, args ...interface{}) (result *T, found bool, err error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	row := db.QueryRowContext(ctx, query, args...)
	result, err = scanFunc(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, HandleDatabaseError("scan "+entityType, err, timeout)
	}
	return result, true, nil
}
