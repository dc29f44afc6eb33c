package domain

import (
	"context"
	"errors"
)

type CreateStyleRequest struct {
	Name       string `json:"name"`
	BaseAmount int64  `json:"base_amount"`
}

type CreateConceptRequest struct {
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	StyleID string `json:"style_id"`
}

type CreateModalityRequest struct {
	StyleID       string `json:"style_id"`
	Kind          string `json:"kind"`
	PercentageBps int64  `json:"percentage_bps"`
}

type Service interface {
	CreateStyle(ctx context.Context, req CreateStyleRequest) (Style, error)
	ListStyles(ctx context.Context) ([]Style, error)
	GetStyle(ctx context.Context, id string) (Style, error)

	CreateConcept(ctx context.Context, req CreateConceptRequest) (Concept, error)
	ListConcepts(ctx context.Context) ([]Concept, error)
	GetConcept(ctx context.Context, id string) (Concept, error)

	CreateModality(ctx context.Context, req CreateModalityRequest) (Modality, error)

	// ResolvePrice returns the minor-unit amount for a style and enrollment
	// kind. A missing modality is not an error: the style base amount applies.
	ResolvePrice(ctx context.Context, styleID string, kind string) (int64, error)
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidKind    = errors.New("invalid_kind")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	ErrModalityExists = errors.New("modality_exists")
	ErrDuplicateName  = errors.New("duplicate_name")
)
