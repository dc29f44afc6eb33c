package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/catalog/domain"
	"github.com/studiocompas/compas/internal/clock"
	pkgdb "github.com/studiocompas/compas/pkg/db"
	"github.com/studiocompas/compas/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreateStyle(ctx context.Context, req domain.CreateStyleRequest) (domain.Style, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Style{}, domain.ErrInvalidName
	}
	if req.BaseAmount <= 0 {
		return domain.Style{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	style := domain.Style{
		ID:         s.genID.Generate(),
		Name:       name,
		BaseAmount: req.BaseAmount,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.InsertStyle(ctx, s.db, &style); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Style{}, domain.ErrDuplicateName
		}
		return domain.Style{}, err
	}
	return style, nil
}

func (s *Service) ListStyles(ctx context.Context) ([]domain.Style, error) {
	items, err := s.repo.ListStyles(ctx, s.db)
	if err != nil {
		return nil, err
	}

	styles := make([]domain.Style, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		styles = append(styles, *item)
	}
	return styles, nil
}

func (s *Service) GetStyle(ctx context.Context, id string) (domain.Style, error) {
	styleID, err := parseID(id)
	if err != nil {
		return domain.Style{}, err
	}

	style, err := s.repo.FindStyleByID(ctx, s.db, styleID)
	if err != nil {
		return domain.Style{}, err
	}
	if style == nil {
		return domain.Style{}, domain.ErrNotFound
	}
	return *style, nil
}

func (s *Service) CreateConcept(ctx context.Context, req domain.CreateConceptRequest) (domain.Concept, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Concept{}, domain.ErrInvalidName
	}
	if req.Amount <= 0 {
		return domain.Concept{}, domain.ErrInvalidAmount
	}

	var styleID *snowflake.ID
	if strings.TrimSpace(req.StyleID) != "" {
		parsed, err := parseID(req.StyleID)
		if err != nil {
			return domain.Concept{}, err
		}
		style, err := s.repo.FindStyleByID(ctx, s.db, parsed)
		if err != nil {
			return domain.Concept{}, err
		}
		if style == nil {
			return domain.Concept{}, domain.ErrNotFound
		}
		styleID = &parsed
	}

	now := s.clock.Now()
	concept := domain.Concept{
		ID:        s.genID.Generate(),
		Name:      name,
		Amount:    req.Amount,
		StyleID:   styleID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertConcept(ctx, s.db, &concept); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Concept{}, domain.ErrDuplicateName
		}
		return domain.Concept{}, err
	}
	return concept, nil
}

func (s *Service) ListConcepts(ctx context.Context) ([]domain.Concept, error) {
	items, err := s.repo.ListConcepts(ctx, s.db)
	if err != nil {
		return nil, err
	}

	concepts := make([]domain.Concept, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		concepts = append(concepts, *item)
	}
	return concepts, nil
}

func (s *Service) GetConcept(ctx context.Context, id string) (domain.Concept, error) {
	conceptID, err := parseID(id)
	if err != nil {
		return domain.Concept{}, err
	}

	concept, err := s.repo.FindConceptByID(ctx, s.db, conceptID)
	if err != nil {
		return domain.Concept{}, err
	}
	if concept == nil {
		return domain.Concept{}, domain.ErrNotFound
	}
	return *concept, nil
}

func (s *Service) CreateModality(ctx context.Context, req domain.CreateModalityRequest) (domain.Modality, error) {
	styleID, err := parseID(req.StyleID)
	if err != nil {
		return domain.Modality{}, err
	}

	kind := strings.TrimSpace(req.Kind)
	if !domain.ValidKind(kind) {
		return domain.Modality{}, domain.ErrInvalidKind
	}
	if req.PercentageBps <= 0 {
		return domain.Modality{}, domain.ErrInvalidAmount
	}

	style, err := s.repo.FindStyleByID(ctx, s.db, styleID)
	if err != nil {
		return domain.Modality{}, err
	}
	if style == nil {
		return domain.Modality{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	modality := domain.Modality{
		ID:            s.genID.Generate(),
		StyleID:       styleID,
		Kind:          kind,
		PercentageBps: req.PercentageBps,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.InsertModality(ctx, s.db, &modality); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Modality{}, domain.ErrModalityExists
		}
		return domain.Modality{}, err
	}
	return modality, nil
}

func (s *Service) ResolvePrice(ctx context.Context, styleID string, kind string) (int64, error) {
	id, err := parseID(styleID)
	if err != nil {
		return 0, err
	}
	if !domain.ValidKind(strings.TrimSpace(kind)) {
		return 0, domain.ErrInvalidKind
	}

	style, err := s.repo.FindStyleByID(ctx, s.db, id)
	if err != nil {
		return 0, err
	}
	if style == nil {
		return 0, domain.ErrNotFound
	}

	modality, err := s.repo.FindModality(ctx, s.db, id, strings.TrimSpace(kind))
	if err != nil {
		return 0, err
	}
	if modality == nil {
		// No modality means no special pricing for this kind.
		return style.BaseAmount, nil
	}

	return money.ApplyBps(style.BaseAmount, modality.PercentageBps), nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
