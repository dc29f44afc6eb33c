package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// NextReceiptNumber increments and returns the sequence inside the
	// caller's transaction, so the row lock serializes allocation.
	NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int64, error)

	InsertReceipt(ctx context.Context, db *gorm.DB, receipt *Receipt) error
	FindReceiptByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Receipt, error)
	MarkVoided(ctx context.Context, db *gorm.DB, id snowflake.ID, reason string) error
	DeleteReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertDebtPayment(ctx context.Context, db *gorm.DB, payment *DebtPayment) error
	ListDebtPayments(ctx context.Context, db *gorm.DB, receiptID snowflake.ID) ([]*DebtPayment, error)
	DeleteDebtPayments(ctx context.Context, db *gorm.DB, receiptID snowflake.ID) error

	FindPayer(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PayerRow, error)
	FindConcept(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ConceptRow, error)
	ListOutstandingDebts(ctx context.Context, tx *gorm.DB, studentID snowflake.ID) ([]*DebtRow, error)
	ApplyDebtPayment(ctx context.Context, tx *gorm.DB, debtID snowflake.ID, amount int64) error
	RestoreDebtRemaining(ctx context.Context, tx *gorm.DB, debtID snowflake.ID, amount int64) error
}
