package domain

import (
	"context"
	"errors"
	"time"

	"github.com/studiocompas/compas/pkg/db/pagination"
)

type CreateStudentRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ListStudentRequest struct {
	pagination.Pagination
	Kind        string
	Name        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListStudentFilter struct {
	Kind        string
	Name        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListStudentResponse struct {
	pagination.PageInfo
	Students []Student `json:"students"`
}

type EnrollRequest struct {
	StudentID  string `json:"student_id"`
	StyleID    string `json:"style_id"`
	ModalityID string `json:"modality_id"`
}

type PromoteRequest struct {
	DropInID  string `json:"drop_in_id"`
	RegularID string `json:"regular_id"`
}

type Service interface {
	Create(ctx context.Context, req CreateStudentRequest) (Student, error)
	List(ctx context.Context, req ListStudentRequest) (ListStudentResponse, error)
	GetByID(ctx context.Context, id string) (Student, error)
	Delete(ctx context.Context, id string) error

	Enroll(ctx context.Context, req EnrollRequest) (Enrollment, error)
	Drop(ctx context.Context, studentID, styleID string) error
	ListEnrollments(ctx context.Context, studentID string) ([]Enrollment, error)

	// Promote links a drop-in student to a regular account so both ledgers
	// merge in the current-account view.
	Promote(ctx context.Context, req PromoteRequest) (Student, error)
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidKind        = errors.New("invalid_kind")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidPageToken   = errors.New("invalid_page_token")
	ErrNotFound           = errors.New("not_found")
	ErrNotDropIn          = errors.New("not_drop_in")
	ErrNotRegular         = errors.New("not_regular")
	ErrAlreadyConverted   = errors.New("already_converted")
	ErrAlreadyEnrolled    = errors.New("already_enrolled")
	ErrNotEnrolled        = errors.New("not_enrolled")
	ErrStudentHasReceipts = errors.New("student_has_receipts")
)
