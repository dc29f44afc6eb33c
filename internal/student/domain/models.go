package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	KindRegular = "regular"
	KindDropIn  = "drop_in"
)

// Student is either a regularly enrolled student or a drop-in visitor. A
// drop-in may later be linked to a regular account via ConvertedToRegularID;
// receipts recorded before the link stay attributable to both identities.
type Student struct {
	ID                   snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name                 string        `gorm:"not null" json:"name"`
	Kind                 string        `gorm:"not null;index" json:"kind"`
	Email                string        `json:"email,omitempty"`
	Phone                string        `json:"phone,omitempty"`
	ConvertedToRegularID *snowflake.ID `gorm:"index" json:"converted_to_regular_id,omitempty"`
	Active               bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Student) TableName() string { return "students" }

// Enrollment links a student to a style. Dropped enrollments are deactivated,
// never deleted, so discount history stays reconstructible.
type Enrollment struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	StudentID  snowflake.ID  `gorm:"not null;index" json:"student_id"`
	StyleID    snowflake.ID  `gorm:"not null;index" json:"style_id"`
	ModalityID *snowflake.ID `json:"modality_id,omitempty"`
	Active     bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Enrollment) TableName() string { return "student_styles" }
