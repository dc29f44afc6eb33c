package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/receipt/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	res := tx.WithContext(ctx).Exec(
		`UPDATE receipt_sequences SET last_number = last_number + 1 WHERE id = 1`,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrSequenceMissing
	}

	var number int64
	err := tx.WithContext(ctx).Raw(
		`SELECT last_number FROM receipt_sequences WHERE id = 1`,
	).Scan(&number).Error
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *repo) InsertReceipt(ctx context.Context, db *gorm.DB, receipt *domain.Receipt) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO receipts (
			id, receipt_number, date, payer_kind, payer_id, concept_id, class_id,
			original_amount, discount_bps, final_amount, payment_method,
			voided, void_reason, out_of_term, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID,
		receipt.ReceiptNumber,
		receipt.Date,
		receipt.PayerKind,
		receipt.PayerID,
		receipt.ConceptID,
		receipt.ClassID,
		receipt.OriginalAmount,
		receipt.DiscountBps,
		receipt.FinalAmount,
		receipt.PaymentMethod,
		receipt.Voided,
		receipt.VoidReason,
		receipt.OutOfTerm,
		receipt.CreatedAt,
		receipt.UpdatedAt,
	).Error
}

func (r *repo) FindReceiptByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := db.WithContext(ctx).Raw(
		`SELECT id, receipt_number, date, payer_kind, payer_id, concept_id, class_id,
		        original_amount, discount_bps, final_amount, payment_method,
		        voided, void_reason, out_of_term, created_at, updated_at
		 FROM receipts WHERE id = ?`,
		id,
	).Scan(&receipt).Error
	if err != nil {
		return nil, err
	}
	if receipt.ID == 0 {
		return nil, nil
	}
	return &receipt, nil
}

func (r *repo) MarkVoided(ctx context.Context, db *gorm.DB, id snowflake.ID, reason string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE receipts SET voided = ?, void_reason = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		true,
		reason,
		id,
	).Error
}

func (r *repo) DeleteReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM receipts WHERE id = ?`, id).Error
}

func (r *repo) InsertDebtPayment(ctx context.Context, db *gorm.DB, payment *domain.DebtPayment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO debt_payments (id, receipt_id, debt_id, amount, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		payment.ID,
		payment.ReceiptID,
		payment.DebtID,
		payment.Amount,
		payment.CreatedAt,
	).Error
}

func (r *repo) ListDebtPayments(ctx context.Context, db *gorm.DB, receiptID snowflake.ID) ([]*domain.DebtPayment, error) {
	var payments []*domain.DebtPayment
	err := db.WithContext(ctx).Raw(
		`SELECT id, receipt_id, debt_id, amount, created_at
		 FROM debt_payments WHERE receipt_id = ?
		 ORDER BY created_at ASC, id ASC`,
		receiptID,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) DeleteDebtPayments(ctx context.Context, db *gorm.DB, receiptID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM debt_payments WHERE receipt_id = ?`,
		receiptID,
	).Error
}

func (r *repo) FindPayer(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PayerRow, error) {
	var payer domain.PayerRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, kind, converted_to_regular_id FROM students WHERE id = ?`,
		id,
	).Scan(&payer).Error
	if err != nil {
		return nil, err
	}
	if payer.ID == 0 {
		return nil, nil
	}
	return &payer, nil
}

func (r *repo) FindConcept(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ConceptRow, error) {
	var concept domain.ConceptRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, amount, style_id FROM concepts WHERE id = ?`,
		id,
	).Scan(&concept).Error
	if err != nil {
		return nil, err
	}
	if concept.ID == 0 {
		return nil, nil
	}
	return &concept, nil
}

func (r *repo) ListOutstandingDebts(ctx context.Context, tx *gorm.DB, studentID snowflake.ID) ([]*domain.DebtRow, error) {
	var debts []*domain.DebtRow
	err := tx.WithContext(ctx).Raw(
		`SELECT id, period, remaining_amount
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

func (r *repo) ApplyDebtPayment(ctx context.Context, tx *gorm.DB, debtID snowflake.ID, amount int64) error {
	res := tx.WithContext(ctx).Exec(
		`UPDATE debts
		 SET remaining_amount = remaining_amount - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND remaining_amount >= ?`,
		amount,
		debtID,
		amount,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDebtConflict
	}
	return nil
}

func (r *repo) RestoreDebtRemaining(ctx context.Context, tx *gorm.DB, debtID snowflake.ID, amount int64) error {
	res := tx.WithContext(ctx).Exec(
		`UPDATE debts
		 SET remaining_amount = remaining_amount + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		amount,
		debtID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDebtConflict
	}
	return nil
}
