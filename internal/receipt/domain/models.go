package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	PayerKindRegular = "regular"
	PayerKindDropIn  = "drop_in"
)

// Receipt is the unit of payment. ReceiptNumber comes from a
// transactionally-incremented sequence and is never reused, not even after
// voiding or deletion.
type Receipt struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	ReceiptNumber  int64         `gorm:"not null;uniqueIndex" json:"receipt_number"`
	Date           time.Time     `gorm:"not null;index" json:"date"`
	PayerKind      string        `gorm:"not null" json:"payer_kind"`
	PayerID        snowflake.ID  `gorm:"not null;index" json:"payer_id"`
	ConceptID      snowflake.ID  `gorm:"not null;index" json:"concept_id"`
	ClassID        *snowflake.ID `json:"class_id,omitempty"`
	OriginalAmount int64         `gorm:"not null" json:"original_amount"`
	DiscountBps    *int64        `json:"discount_bps,omitempty"`
	FinalAmount    int64         `gorm:"not null" json:"final_amount"`
	PaymentMethod  string        `gorm:"not null" json:"payment_method"`
	Voided         bool          `gorm:"not null;default:false" json:"voided"`
	VoidReason     *string       `json:"void_reason,omitempty"`
	OutOfTerm      bool          `gorm:"not null;default:false" json:"out_of_term"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Receipt) TableName() string { return "receipts" }

// DebtPayment allocates part of a receipt's final amount to one debt.
type DebtPayment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ReceiptID snowflake.ID `gorm:"not null;index" json:"receipt_id"`
	DebtID    snowflake.ID `gorm:"not null;index" json:"debt_id"`
	Amount    int64        `gorm:"not null" json:"amount"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (DebtPayment) TableName() string { return "debt_payments" }

// ReceiptSequence is the singleton counter row receipt numbers are taken
// from. The row update inside the creating transaction serializes concurrent
// allocations.
type ReceiptSequence struct {
	ID         int64 `gorm:"primaryKey"`
	LastNumber int64 `gorm:"not null"`
}

func (ReceiptSequence) TableName() string { return "receipt_sequences" }

// PayerRow is the slice of the students table the engine needs to resolve a
// payer.
type PayerRow struct {
	ID                   snowflake.ID
	Kind                 string
	ConvertedToRegularID *snowflake.ID
}

// ConceptRow is the slice of the concepts table the engine prices from.
type ConceptRow struct {
	ID      snowflake.ID
	Amount  int64
	StyleID *snowflake.ID
}

// DebtRow is an outstanding debt as seen inside the settling transaction.
type DebtRow struct {
	ID              snowflake.ID
	Period          string
	RemainingAmount int64
}
