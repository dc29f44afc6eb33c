package db

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	// DefaultTxAttempts bounds how often a conflicting transaction is
	// retried before the failure is surfaced to the caller.
	DefaultTxAttempts = 3

	txBackoffBase = 25 * time.Millisecond
	txBackoffMax  = 400 * time.Millisecond
)

// RunInTxWithRetry executes fn inside a transaction and retries the whole
// unit of work when the store reports a serialization failure. Backoff grows
// exponentially between attempts; any non-transient error aborts immediately.
func RunInTxWithRetry(ctx context.Context, conn *gorm.DB, attempts int, fn func(tx *gorm.DB) error) error {
	if attempts <= 0 {
		attempts = DefaultTxAttempts
	}

	backoff := txBackoffBase
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > txBackoffMax {
				backoff = txBackoffMax
			}
		}

		err = conn.WithContext(ctx).Transaction(fn)
		if err == nil || !IsSerializationErr(err) {
			return err
		}
	}
	return err
}
