package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertStyle(ctx context.Context, db *gorm.DB, style *Style) error
	FindStyleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Style, error)
	ListStyles(ctx context.Context, db *gorm.DB) ([]*Style, error)

	InsertConcept(ctx context.Context, db *gorm.DB, concept *Concept) error
	FindConceptByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Concept, error)
	ListConcepts(ctx context.Context, db *gorm.DB) ([]*Concept, error)

	InsertModality(ctx context.Context, db *gorm.DB, modality *Modality) error
	FindModality(ctx context.Context, db *gorm.DB, styleID snowflake.ID, kind string) (*Modality, error)
}
