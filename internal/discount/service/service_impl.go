package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/studiocompas/compas/internal/audit/domain"
	"github.com/studiocompas/compas/internal/clock"
	"github.com/studiocompas/compas/internal/discount/domain"
	"github.com/studiocompas/compas/internal/observability/metrics"
	"github.com/studiocompas/compas/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Audit   auditdomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	audit   auditdomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("discount.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		audit:   p.Audit,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDiscountRequest) (domain.Discount, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Discount{}, domain.ErrInvalidName
	}
	if req.PercentageBps <= 0 || req.PercentageBps >= money.BpsScale {
		return domain.Discount{}, domain.ErrInvalidPercentage
	}
	if req.Automatic && req.MinStyles <= 0 {
		return domain.Discount{}, domain.ErrInvalidMinStyles
	}

	now := s.clock.Now()
	discount := domain.Discount{
		ID:            s.genID.Generate(),
		Name:          name,
		PercentageBps: req.PercentageBps,
		Automatic:     req.Automatic,
		MinStyles:     req.MinStyles,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &discount); err != nil {
		return domain.Discount{}, err
	}
	return discount, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Discount, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	discounts := make([]domain.Discount, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		discounts = append(discounts, *item)
	}
	return discounts, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Discount, error) {
	discountID, err := parseID(id)
	if err != nil {
		return domain.Discount{}, err
	}

	discount, err := s.repo.FindByID(ctx, s.db, discountID)
	if err != nil {
		return domain.Discount{}, err
	}
	if discount == nil {
		return domain.Discount{}, domain.ErrNotFound
	}
	return *discount, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	discountID, err := parseID(id)
	if err != nil {
		return err
	}

	discount, err := s.repo.FindByID(ctx, s.db, discountID)
	if err != nil {
		return err
	}
	if discount == nil {
		return domain.ErrNotFound
	}

	return s.repo.Deactivate(ctx, s.db, discountID)
}

func (s *Service) ComputeAutomatic(ctx context.Context, studentID string) (*domain.Discount, error) {
	sid, err := parseID(studentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.StudentExists(ctx, s.db, sid)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	count, err := s.repo.CountActiveEnrollments(ctx, s.db, sid)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	return s.repo.BestAutomatic(ctx, s.db, count)
}

func (s *Service) ApplyManual(ctx context.Context, req domain.ApplyManualRequest) (domain.DiscountApplication, error) {
	sid, err := parseID(req.StudentID)
	if err != nil {
		return domain.DiscountApplication{}, err
	}
	did, err := parseID(req.DiscountID)
	if err != nil {
		return domain.DiscountApplication{}, err
	}

	exists, err := s.repo.StudentExists(ctx, s.db, sid)
	if err != nil {
		return domain.DiscountApplication{}, err
	}
	if !exists {
		return domain.DiscountApplication{}, domain.ErrNotFound
	}

	discount, err := s.repo.FindByID(ctx, s.db, did)
	if err != nil {
		return domain.DiscountApplication{}, err
	}
	if discount == nil {
		return domain.DiscountApplication{}, domain.ErrNotFound
	}
	if !discount.Active {
		return domain.DiscountApplication{}, domain.ErrDiscountInactive
	}

	now := s.clock.Now()
	startDate := now
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}

	application := domain.DiscountApplication{
		ID:         s.genID.Generate(),
		DiscountID: did,
		StudentID:  sid,
		StartDate:  startDate,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.InsertApplication(ctx, s.db, &application); err != nil {
		return domain.DiscountApplication{}, err
	}

	s.metrics.RecordDiscountApplied(ctx, "manual")
	s.emitAudit(ctx, "discount.applied", application.ID, map[string]any{
		"student_id":  sid.String(),
		"discount_id": did.String(),
	})
	return application, nil
}

func (s *Service) Revoke(ctx context.Context, applicationID string) error {
	aid, err := parseID(applicationID)
	if err != nil {
		return err
	}

	application, err := s.repo.FindApplicationByID(ctx, s.db, aid)
	if err != nil {
		return err
	}
	if application == nil {
		return domain.ErrNotFound
	}
	if !application.Active {
		return domain.ErrAlreadyRevoked
	}

	if err := s.repo.DeactivateApplication(ctx, s.db, aid); err != nil {
		return err
	}

	s.emitAudit(ctx, "discount.revoked", aid, map[string]any{
		"student_id":  application.StudentID.String(),
		"discount_id": application.DiscountID.String(),
	})
	return nil
}

func (s *Service) ListApplications(ctx context.Context, studentID string) ([]domain.DiscountApplication, error) {
	sid, err := parseID(studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListApplications(ctx, s.db, sid)
	if err != nil {
		return nil, err
	}

	applications := make([]domain.DiscountApplication, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		applications = append(applications, *item)
	}
	return applications, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, targetID snowflake.ID, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	target := targetID.String()
	if err := s.audit.AuditLog(ctx, "", nil, action, "discount_application", &target, metadata); err != nil {
		s.log.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
