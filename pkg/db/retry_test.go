package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pkgdb "github.com/studiocompas/compas/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return conn
}

func TestRunInTxWithRetryRetriesSerializationFailures(t *testing.T) {
	conn := openTestDB(t)

	calls := 0
	err := pkgdb.RunInTxWithRetry(context.Background(), conn, 3, func(tx *gorm.DB) error {
		calls++
		if calls < 3 {
			return errors.New("could not serialize access due to concurrent update")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err = %v, want nil after retries", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRunInTxWithRetryGivesUpAfterAttempts(t *testing.T) {
	conn := openTestDB(t)

	calls := 0
	err := pkgdb.RunInTxWithRetry(context.Background(), conn, 2, func(tx *gorm.DB) error {
		calls++
		return errors.New("deadlock detected")
	})
	if err == nil {
		t.Fatal("expected exhausted retries to surface the error")
	}
	if !pkgdb.IsSerializationErr(err) {
		t.Fatalf("err = %v, want serialization error", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRunInTxWithRetryStopsOnNonTransientError(t *testing.T) {
	conn := openTestDB(t)

	sentinel := errors.New("invalid_amount")
	calls := 0
	err := pkgdb.RunInTxWithRetry(context.Background(), conn, 3, func(tx *gorm.DB) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want no retry on domain errors", calls)
	}
}
