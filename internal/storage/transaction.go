package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// TxFunc is a function that runs within a transaction.
type TxFunc func(*sql.Tx) error

// WithTransaction executes the given function within a database transaction.
// It commits on success and rolls back on error. If the function panics, the
// transaction is rolled back and the panic is re-raised.
func (db *DB) WithTransaction(ctx context.Context, fn TxFunc) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
			}
		} else {
			err = tx.Commit()
			if err != nil {
				err = fmt.Errorf("failed to commit transaction: %w", err)
			}
		}
	}()

	err = fn(tx)
	return err
}

// Retry settings for RetryOnBusy.
const (
	busyMaxAttempts  = 5
	busyInitialDelay = 25 * time.Millisecond
	busyMaxDelay     = time.Second
)

// RetryOnBusy runs fn, retrying with exponential backoff while SQLite reports
// the database as busy or locked. Other errors are returned immediately and
// unwrapped.
func RetryOnBusy(ctx context.Context, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = busyInitialDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0.1
	policy.MaxInterval = busyMaxDelay

	var last error
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		last = fn()
		if last != nil && !IsBusy(last) {
			return struct{}{}, backoff.Permanent(last)
		}
		return struct{}{}, last
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(busyMaxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("Database busy, retrying in %v: %v", next, err)
		}),
	)

	switch {
	case err == nil:
		return nil
	case !IsBusy(last):
		return last
	case ctx.Err() != nil:
		return errors.Join(last, ctx.Err())
	}
	return fmt.Errorf("database still busy after %d attempts: %w", busyMaxAttempts, last)
}

// IsBusy reports whether err is an SQLite busy or locked error.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
