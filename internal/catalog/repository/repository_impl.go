package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertStyle(ctx context.Context, db *gorm.DB, style *domain.Style) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO styles (id, name, base_amount, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		style.ID,
		style.Name,
		style.BaseAmount,
		style.Active,
		style.CreatedAt,
		style.UpdatedAt,
	).Error
}

func (r *repo) FindStyleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Style, error) {
	var style domain.Style
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, base_amount, active, created_at, updated_at
		 FROM styles WHERE id = ?`,
		id,
	).Scan(&style).Error
	if err != nil {
		return nil, err
	}
	if style.ID == 0 {
		return nil, nil
	}
	return &style, nil
}

func (r *repo) ListStyles(ctx context.Context, db *gorm.DB) ([]*domain.Style, error) {
	var styles []*domain.Style
	err := db.WithContext(ctx).
		Model(&domain.Style{}).
		Order("name asc").
		Find(&styles).Error
	if err != nil {
		return nil, err
	}
	return styles, nil
}

func (r *repo) InsertConcept(ctx context.Context, db *gorm.DB, concept *domain.Concept) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO concepts (id, name, amount, style_id, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		concept.ID,
		concept.Name,
		concept.Amount,
		concept.StyleID,
		concept.Active,
		concept.CreatedAt,
		concept.UpdatedAt,
	).Error
}

func (r *repo) FindConceptByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Concept, error) {
	var concept domain.Concept
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, amount, style_id, active, created_at, updated_at
		 FROM concepts WHERE id = ?`,
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

func (r *repo) ListConcepts(ctx context.Context, db *gorm.DB) ([]*domain.Concept, error) {
	var concepts []*domain.Concept
	err := db.WithContext(ctx).
		Model(&domain.Concept{}).
		Order("name asc").
		Find(&concepts).Error
	if err != nil {
		return nil, err
	}
	return concepts, nil
}

func (r *repo) InsertModality(ctx context.Context, db *gorm.DB, modality *domain.Modality) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO modalities (id, style_id, kind, percentage_bps, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		modality.ID,
		modality.StyleID,
		modality.Kind,
		modality.PercentageBps,
		modality.CreatedAt,
		modality.UpdatedAt,
	).Error
}

func (r *repo) FindModality(ctx context.Context, db *gorm.DB, styleID snowflake.ID, kind string) (*domain.Modality, error) {
	var modality domain.Modality
	err := db.WithContext(ctx).Raw(
		`SELECT id, style_id, kind, percentage_bps, created_at, updated_at
		 FROM modalities WHERE style_id = ? AND kind = ?`,
		styleID,
		kind,
	).Scan(&modality).Error
	if err != nil {
		return nil, err
	}
	if modality.ID == 0 {
		return nil, nil
	}
	return &modality, nil
}
