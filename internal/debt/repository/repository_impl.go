package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/debt/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, debt *domain.Debt) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO debts (id, student_id, concept_id, period, kind, original_amount, remaining_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.ID,
		debt.StudentID,
		debt.ConceptID,
		debt.Period,
		debt.Kind,
		debt.OriginalAmount,
		debt.RemainingAmount,
		debt.CreatedAt,
		debt.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Debt, error) {
	var debt domain.Debt
	err := db.WithContext(ctx).Raw(
		`SELECT id, student_id, concept_id, period, kind, original_amount, remaining_amount, created_at, updated_at
		 FROM debts WHERE id = ?`,
		id,
	).Scan(&debt).Error
	if err != nil {
		return nil, err
	}
	if debt.ID == 0 {
		return nil, nil
	}
	return &debt, nil
}

func (r *repo) ListOutstanding(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]*domain.Debt, error) {
	var debts []*domain.Debt
	err := db.WithContext(ctx).Raw(
		`SELECT id, student_id, concept_id, period, kind, original_amount, remaining_amount, created_at, updated_at
		 FROM debts
		 WHERE student_id = ? AND remaining_amount > 0
		 ORDER BY period ASC, created_at ASC, id ASC`,
		studentID,
	).Scan(&debts).Error
	if err != nil {
		return nil, err
	}
	return debts, nil
}

func (r *repo) CountPayments(ctx context.Context, db *gorm.DB, debtID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM debt_payments WHERE debt_id = ?`,
		debtID,
	).Scan(&count).Error
	return count, err
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM debts WHERE id = ?`, id).Error
}

func (r *repo) StudentExists(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (bool, error) {
	var count int
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM students WHERE id = ?`,
		studentID,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) ConceptExists(ctx context.Context, db *gorm.DB, conceptID snowflake.ID) (bool, error) {
	var count int
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM concepts WHERE id = ?`,
		conceptID,
	).Scan(&count).Error
	return count > 0, err
}
