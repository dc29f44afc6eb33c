package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// LedgerEntry is one receipt in the merged current-account view. Amounts are
// exact decimal strings; voided entries stay visible but are netted out of
// the running total.
type LedgerEntry struct {
	ReceiptID      snowflake.ID `json:"receipt_id"`
	ReceiptNumber  int64        `json:"receipt_number"`
	Date           time.Time    `json:"date"`
	PayerKind      string       `json:"payer_kind"`
	PayerID        snowflake.ID `json:"payer_id"`
	ConceptID      snowflake.ID `json:"concept_id"`
	ConceptName    string       `json:"concept_name,omitempty"`
	OriginalAmount string       `json:"original_amount"`
	FinalAmount    string       `json:"final_amount"`
	DiscountBps    *int64       `json:"discount_bps,omitempty"`
	PaymentMethod  string       `json:"payment_method"`
	Voided         bool         `json:"voided"`
	VoidReason     *string      `json:"void_reason,omitempty"`
	OutOfTerm      bool         `json:"out_of_term"`
	Allocations    []Allocation `json:"allocations,omitempty"`
}

// Allocation mirrors a debt payment inside a ledger entry.
type Allocation struct {
	DebtID snowflake.ID `json:"debt_id"`
	Period string       `json:"period"`
	Amount string       `json:"amount"`
}

// ReceiptRow is the joined receipt row the view reads.
type ReceiptRow struct {
	ID             snowflake.ID
	ReceiptNumber  int64
	Date           time.Time
	PayerKind      string
	PayerID        snowflake.ID
	ConceptID      snowflake.ID
	ConceptName    string
	OriginalAmount int64
	DiscountBps    *int64
	FinalAmount    int64
	PaymentMethod  string
	Voided         bool
	VoidReason     *string
	OutOfTerm      bool
}

// AllocationRow is the joined debt-payment row the view reads.
type AllocationRow struct {
	ReceiptID snowflake.ID
	DebtID    snowflake.ID
	Period    string
	Amount    int64
}

// StudentRow is the slice of the students table the view resolves
// identities from.
type StudentRow struct {
	ID                   snowflake.ID
	Kind                 string
	ConvertedToRegularID *snowflake.ID
}
