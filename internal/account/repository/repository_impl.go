package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindStudent(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.StudentRow, error) {
	var student domain.StudentRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, kind, converted_to_regular_id FROM students WHERE id = ?`,
		id,
	).Scan(&student).Error
	if err != nil {
		return nil, err
	}
	if student.ID == 0 {
		return nil, nil
	}
	return &student, nil
}

func (r *repo) ListConvertedDropIns(ctx context.Context, db *gorm.DB, regularID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM students WHERE converted_to_regular_id = ?`,
		regularID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) ListReceipts(ctx context.Context, db *gorm.DB, payerIDs []snowflake.ID) ([]*domain.ReceiptRow, error) {
	if len(payerIDs) == 0 {
		return nil, nil
	}

	var receipts []*domain.ReceiptRow
	err := db.WithContext(ctx).Raw(
		`SELECT r.id, r.receipt_number, r.date, r.payer_kind, r.payer_id,
		        r.concept_id, c.name AS concept_name, r.original_amount,
		        r.discount_bps, r.final_amount, r.payment_method,
		        r.voided, r.void_reason, r.out_of_term
		 FROM receipts r
		 LEFT JOIN concepts c ON c.id = r.concept_id
		 WHERE r.payer_id IN ?
		 ORDER BY r.date DESC, r.receipt_number DESC`,
		payerIDs,
	).Scan(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *repo) ListAllocations(ctx context.Context, db *gorm.DB, receiptIDs []snowflake.ID) ([]*domain.AllocationRow, error) {
	if len(receiptIDs) == 0 {
		return nil, nil
	}

	var allocations []*domain.AllocationRow
	err := db.WithContext(ctx).Raw(
		`SELECT dp.receipt_id, dp.debt_id, d.period, dp.amount
		 FROM debt_payments dp
		 JOIN debts d ON d.id = dp.debt_id
		 WHERE dp.receipt_id IN ?
		 ORDER BY dp.created_at ASC, dp.id ASC`,
		receiptIDs,
	).Scan(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}
