package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, student *Student) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Student, error)
	List(ctx context.Context, db *gorm.DB, filter ListStudentFilter, cursor *pagination.Cursor, limit int) ([]*Student, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	SetConvertedTo(ctx context.Context, db *gorm.DB, dropInID, regularID snowflake.ID) error
	CountReceipts(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (int64, error)

	InsertEnrollment(ctx context.Context, db *gorm.DB, enrollment *Enrollment) error
	FindActiveEnrollment(ctx context.Context, db *gorm.DB, studentID, styleID snowflake.ID) (*Enrollment, error)
	DeactivateEnrollment(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ListEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]*Enrollment, error)
}
