package domain

import (
	"context"
	"errors"
	"time"
)

type CreateDiscountRequest struct {
	Name          string `json:"name"`
	PercentageBps int64  `json:"percentage_bps"`
	Automatic     bool   `json:"automatic"`
	MinStyles     int    `json:"min_styles"`
}

type ApplyManualRequest struct {
	StudentID  string     `json:"student_id"`
	DiscountID string     `json:"discount_id"`
	StartDate  *time.Time `json:"start_date"`
}

type Service interface {
	Create(ctx context.Context, req CreateDiscountRequest) (Discount, error)
	List(ctx context.Context) ([]Discount, error)
	GetByID(ctx context.Context, id string) (Discount, error)
	Deactivate(ctx context.Context, id string) error

	// ComputeAutomatic returns the best automatic discount the student
	// currently qualifies for, or nil. Pure with respect to stored state:
	// calling it never writes anything.
	ComputeAutomatic(ctx context.Context, studentID string) (*Discount, error)

	ApplyManual(ctx context.Context, req ApplyManualRequest) (DiscountApplication, error)
	Revoke(ctx context.Context, applicationID string) error
	ListApplications(ctx context.Context, studentID string) ([]DiscountApplication, error)
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvalidMinStyles  = errors.New("invalid_min_styles")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrDiscountInactive  = errors.New("discount_inactive")
	ErrAlreadyRevoked    = errors.New("already_revoked")
)
