package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Discount is a percentage rule in basis points. Automatic discounts are
// granted from the student's active-enrollment count; manual ones are applied
// explicitly through a DiscountApplication.
type Discount struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null" json:"name"`
	PercentageBps int64        `gorm:"not null" json:"percentage_bps"`
	Automatic     bool         `gorm:"not null;default:false" json:"automatic"`
	MinStyles     int          `gorm:"not null;default:0" json:"min_styles"`
	Active        bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Discount) TableName() string { return "discounts" }

// DiscountApplication records a discount granted to a student. It survives
// the discount being deactivated globally; only its own Active flag decides
// whether it still applies.
type DiscountApplication struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	DiscountID snowflake.ID `gorm:"not null;index" json:"discount_id"`
	StudentID  snowflake.ID `gorm:"not null;index" json:"student_id"`
	StartDate  time.Time    `gorm:"not null" json:"start_date"`
	Active     bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (DiscountApplication) TableName() string { return "discount_applications" }
