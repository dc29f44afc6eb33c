package domain

import (
	"context"
	"errors"
	"time"
)

type CreateReceiptRequest struct {
	StudentID     string     `json:"student_id"`
	ConceptID     string     `json:"concept_id"`
	ClassID       string     `json:"class_id"`
	DiscountBps   *int64     `json:"discount_bps"`
	PaymentMethod string     `json:"payment_method"`
	SettleDebts   bool       `json:"settle_debts"`
	Period        string     `json:"period"`
	Date          *time.Time `json:"date"`
}

type CreateReceiptResponse struct {
	Receipt      Receipt       `json:"receipt"`
	DebtPayments []DebtPayment `json:"debt_payments"`
}

type GetReceiptResponse struct {
	Receipt      Receipt       `json:"receipt"`
	DebtPayments []DebtPayment `json:"debt_payments"`
}

type Service interface {
	Create(ctx context.Context, req CreateReceiptRequest) (CreateReceiptResponse, error)
	GetByID(ctx context.Context, id string) (GetReceiptResponse, error)
	// Void flags the receipt for audit. Debt payments and remaining amounts
	// are left untouched; Delete is the only reversal path.
	Void(ctx context.Context, id string, reason string) (Receipt, error)
	// Delete removes the receipt and its debt payments as one unit,
	// restoring each affected debt's remaining amount.
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidDiscount      = errors.New("invalid_discount")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidPeriod        = errors.New("invalid_period")
	ErrInvalidReason        = errors.New("invalid_reason")
	ErrNotFound             = errors.New("not_found")
	ErrAlreadyVoided        = errors.New("already_voided")
	ErrDebtConflict         = errors.New("debt_conflict")
	ErrSequenceMissing      = errors.New("sequence_missing")
)
