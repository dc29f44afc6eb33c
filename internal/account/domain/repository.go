package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindStudent(ctx context.Context, db *gorm.DB, id snowflake.ID) (*StudentRow, error)
	// ListConvertedDropIns returns drop-in students linked to the regular
	// account.
	ListConvertedDropIns(ctx context.Context, db *gorm.DB, regularID snowflake.ID) ([]snowflake.ID, error)
	ListReceipts(ctx context.Context, db *gorm.DB, payerIDs []snowflake.ID) ([]*ReceiptRow, error)
	ListAllocations(ctx context.Context, db *gorm.DB, receiptIDs []snowflake.ID) ([]*AllocationRow, error)
}
