package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	KindRegular = "regular"
	KindDropIn  = "drop_in"
)

// Debt is an amount owed by a student for a concept and period. Remaining
// only ever changes as a consequence of debt payments being created or
// removed, always inside the same transaction.
type Debt struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	StudentID       snowflake.ID `gorm:"not null;index" json:"student_id"`
	ConceptID       snowflake.ID `gorm:"not null;index" json:"concept_id"`
	Period          string       `gorm:"not null;index" json:"period"`
	Kind            string       `gorm:"not null" json:"kind"`
	OriginalAmount  int64        `gorm:"not null" json:"original_amount"`
	RemainingAmount int64        `gorm:"not null" json:"remaining_amount"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Debt) TableName() string { return "debts" }
