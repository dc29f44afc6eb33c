package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Enrollment kinds shared by modalities, debts and receipts.
const (
	KindRegular = "regular"
	KindDropIn  = "drop_in"
)

// ValidKind reports whether kind is one of the supported enrollment kinds.
func ValidKind(kind string) bool {
	return kind == KindRegular || kind == KindDropIn
}

// Style is a dance style with its base monthly amount in minor units.
type Style struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"not null;uniqueIndex" json:"name"`
	BaseAmount int64        `gorm:"not null" json:"base_amount"`
	Active     bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Style) TableName() string { return "styles" }

// Concept is a billable offering. Amount is in minor units; when StyleID is
// set the effective price comes from the style's modality pricing instead.
type Concept struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null;uniqueIndex" json:"name"`
	Amount    int64         `gorm:"not null" json:"amount"`
	StyleID   *snowflake.ID `gorm:"index" json:"style_id,omitempty"`
	Active    bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Concept) TableName() string { return "concepts" }

// Modality prices a style for one enrollment kind. PercentageBps is applied
// to the style base amount (10000 = 100%). At most one row per (style, kind).
type Modality struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	StyleID       snowflake.ID `gorm:"not null;uniqueIndex:idx_modalities_style_kind" json:"style_id"`
	Kind          string       `gorm:"not null;uniqueIndex:idx_modalities_style_kind" json:"kind"`
	PercentageBps int64        `gorm:"not null" json:"percentage_bps"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Modality) TableName() string { return "modalities" }
