package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, debt *Debt) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Debt, error)
	ListOutstanding(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]*Debt, error)
	CountPayments(ctx context.Context, db *gorm.DB, debtID snowflake.ID) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	StudentExists(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (bool, error)
	ConceptExists(ctx context.Context, db *gorm.DB, conceptID snowflake.ID) (bool, error)
}
