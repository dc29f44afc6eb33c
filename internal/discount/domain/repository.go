package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, discount *Discount) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Discount, error)
	List(ctx context.Context, db *gorm.DB) ([]*Discount, error)
	Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// BestAutomatic returns the highest-percentage active automatic discount
	// whose min_styles threshold is within styleCount, most recent first on
	// percentage ties.
	BestAutomatic(ctx context.Context, db *gorm.DB, styleCount int) (*Discount, error)
	CountActiveEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (int, error)
	StudentExists(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (bool, error)

	InsertApplication(ctx context.Context, db *gorm.DB, application *DiscountApplication) error
	FindApplicationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DiscountApplication, error)
	DeactivateApplication(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ListApplications(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]*DiscountApplication, error)
}
