package domain

import (
	"context"
	"errors"
)

type CreateDebtRequest struct {
	StudentID string `json:"student_id"`
	ConceptID string `json:"concept_id"`
	Period    string `json:"period"`
	Amount    int64  `json:"amount"`
	Kind      string `json:"kind"`
}

type Service interface {
	Create(ctx context.Context, req CreateDebtRequest) (Debt, error)
	// ListOutstanding returns debts with remaining > 0, oldest period first,
	// the order payments settle them in.
	ListOutstanding(ctx context.Context, studentID string) ([]Debt, error)
	GetByID(ctx context.Context, id string) (Debt, error)
	// Delete removes a debt that never received a payment. Debts with linked
	// payments are kept for the audit trail and refuse deletion.
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidPeriod   = errors.New("invalid_period")
	ErrInvalidKind     = errors.New("invalid_kind")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrDebtHasPayments = errors.New("debt_has_payments")
)
