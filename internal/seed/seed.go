// Package seed bootstraps rows the application expects to exist.
package seed

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// EnsureReceiptSequence creates the singleton counter row receipt numbers
// are allocated from. Safe to run on every startup.
func EnsureReceiptSequence(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Raw(`SELECT COUNT(1) FROM receipt_sequences WHERE id = 1`).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Exec(`INSERT INTO receipt_sequences (id, last_number) VALUES (1, 0)`).Error
	})
}
