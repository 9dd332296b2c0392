package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	config := DefaultConfig(":memory:")
	config.AutoMigrate = true

	db, err := Open(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countCharacters(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM characters`).Scan(&n))
	return n
}

func TestWithTransaction_Commit(t *testing.T) {
	db := openTestDB(t)

	err := db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO characters (id, name) VALUES (1, 'Renoa')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countCharacters(t, db))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO characters (id, name) VALUES (1, 'Renoa')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countCharacters(t, db))
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	db := openTestDB(t)

	assert.Panics(t, func() {
		_ = db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
			_, _ = tx.Exec(`INSERT INTO characters (id, name) VALUES (1, 'Renoa')`)
			panic("boom")
		})
	})
	assert.Equal(t, 0, countCharacters(t, db))
}

func TestRetryOnBusy(t *testing.T) {
	t.Run("retries busy errors", func(t *testing.T) {
		calls := 0
		err := RetryOnBusy(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns other errors immediately", func(t *testing.T) {
		calls := 0
		other := errors.New("constraint failed")
		err := RetryOnBusy(context.Background(), func() error {
			calls++
			return other
		})
		assert.ErrorIs(t, err, other)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := RetryOnBusy(context.Background(), func() error {
			calls++
			return errors.New("database is locked")
		})
		assert.Error(t, err)
		assert.Equal(t, busyMaxAttempts, calls)
	})

	t.Run("returns a later non-busy error unwrapped", func(t *testing.T) {
		calls := 0
		other := errors.New("FOREIGN KEY constraint failed")
		err := RetryOnBusy(context.Background(), func() error {
			calls++
			if calls < busyMaxAttempts {
				return errors.New("database is locked")
			}
			return other
		})
		assert.Same(t, other, err)
		assert.Equal(t, busyMaxAttempts, calls)

		var permanent *backoff.PermanentError
		assert.False(t, errors.As(err, &permanent))
	})

	t.Run("wraps the last busy error", func(t *testing.T) {
		busy := errors.New("database is locked")
		err := RetryOnBusy(context.Background(), func() error { return busy })
		assert.ErrorIs(t, err, busy)
		assert.Contains(t, err.Error(), "still busy after 5 attempts")
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryOnBusy(ctx, func() error { return errors.New("database is locked") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
