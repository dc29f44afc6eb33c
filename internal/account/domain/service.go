package domain

import (
	"context"
	"errors"
)

type LedgerResponse struct {
	StudentID    string        `json:"student_id"`
	Identities   []string      `json:"identities"`
	Entries      []LedgerEntry `json:"entries"`
	RunningTotal string        `json:"running_total"`
}

type Service interface {
	// GetLedger merges receipts across the student's linked identities,
	// newest first, with a running total over non-voided entries.
	GetLedger(ctx context.Context, studentID string) (LedgerResponse, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
