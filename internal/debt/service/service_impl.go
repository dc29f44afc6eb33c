package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/studiocompas/compas/internal/audit/domain"
	"github.com/studiocompas/compas/internal/clock"
	"github.com/studiocompas/compas/internal/debt/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Periods sort lexicographically, which is what oldest-first settlement
// relies on.
var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Audit auditdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	audit auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("debt.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDebtRequest) (domain.Debt, error) {
	studentID, err := parseID(req.StudentID)
	if err != nil {
		return domain.Debt{}, err
	}
	conceptID, err := parseID(req.ConceptID)
	if err != nil {
		return domain.Debt{}, err
	}

	period := strings.TrimSpace(req.Period)
	if !periodPattern.MatchString(period) {
		return domain.Debt{}, domain.ErrInvalidPeriod
	}
	if req.Amount <= 0 {
		return domain.Debt{}, domain.ErrInvalidAmount
	}

	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		kind = domain.KindRegular
	}
	if kind != domain.KindRegular && kind != domain.KindDropIn {
		return domain.Debt{}, domain.ErrInvalidKind
	}

	exists, err := s.repo.StudentExists(ctx, s.db, studentID)
	if err != nil {
		return domain.Debt{}, err
	}
	if !exists {
		return domain.Debt{}, domain.ErrNotFound
	}
	exists, err = s.repo.ConceptExists(ctx, s.db, conceptID)
	if err != nil {
		return domain.Debt{}, err
	}
	if !exists {
		return domain.Debt{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	debt := domain.Debt{
		ID:              s.genID.Generate(),
		StudentID:       studentID,
		ConceptID:       conceptID,
		Period:          period,
		Kind:            kind,
		OriginalAmount:  req.Amount,
		RemainingAmount: req.Amount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &debt); err != nil {
		return domain.Debt{}, err
	}
	return debt, nil
}

func (s *Service) ListOutstanding(ctx context.Context, studentID string) ([]domain.Debt, error) {
	sid, err := parseID(studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListOutstanding(ctx, s.db, sid)
	if err != nil {
		return nil, err
	}

	debts := make([]domain.Debt, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		debts = append(debts, *item)
	}
	return debts, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Debt, error) {
	debtID, err := parseID(id)
	if err != nil {
		return domain.Debt{}, err
	}

	debt, err := s.repo.FindByID(ctx, s.db, debtID)
	if err != nil {
		return domain.Debt{}, err
	}
	if debt == nil {
		return domain.Debt{}, domain.ErrNotFound
	}
	return *debt, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	debtID, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debt, err := s.repo.FindByID(ctx, tx, debtID)
		if err != nil {
			return err
		}
		if debt == nil {
			return domain.ErrNotFound
		}

		count, err := s.repo.CountPayments(ctx, tx, debtID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDebtHasPayments
		}

		return s.repo.Delete(ctx, tx, debtID)
	})
	if err != nil {
		return err
	}

	s.emitAudit(ctx, "debt.deleted", debtID)
	return nil
}

func (s *Service) emitAudit(ctx context.Context, action string, debtID snowflake.ID) {
	if s.audit == nil {
		return
	}
	target := debtID.String()
	if err := s.audit.AuditLog(ctx, "", nil, action, "debt", &target, nil); err != nil {
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
