package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/studiocompas/compas/internal/audit/domain"
	catalogdomain "github.com/studiocompas/compas/internal/catalog/domain"
	"github.com/studiocompas/compas/internal/clock"
	"github.com/studiocompas/compas/internal/config"
	discountdomain "github.com/studiocompas/compas/internal/discount/domain"
	"github.com/studiocompas/compas/internal/observability/metrics"
	"github.com/studiocompas/compas/internal/receipt/domain"
	pkgdb "github.com/studiocompas/compas/pkg/db"
	"github.com/studiocompas/compas/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Catalog  catalogdomain.Service
	Discount discountdomain.Service
	Audit    auditdomain.Service
	Policy   *config.BillingPolicyHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	catalog  catalogdomain.Service
	discount discountdomain.Service
	audit    auditdomain.Service
	policy   *config.BillingPolicyHolder
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("receipt.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		catalog:  p.Catalog,
		discount: p.Discount,
		audit:    p.Audit,
		policy:   p.Policy,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateReceiptRequest) (domain.CreateReceiptResponse, error) {
	studentID, err := parseID(req.StudentID)
	if err != nil {
		return domain.CreateReceiptResponse{}, err
	}
	conceptID, err := parseID(req.ConceptID)
	if err != nil {
		return domain.CreateReceiptResponse{}, err
	}

	var classID *snowflake.ID
	if strings.TrimSpace(req.ClassID) != "" {
		parsed, err := parseID(req.ClassID)
		if err != nil {
			return domain.CreateReceiptResponse{}, err
		}
		classID = &parsed
	}

	policy := s.policy.Get()
	method := strings.TrimSpace(req.PaymentMethod)
	if !allowedMethod(policy.PaymentMethods, method) {
		return domain.CreateReceiptResponse{}, domain.ErrInvalidPaymentMethod
	}

	payer, err := s.repo.FindPayer(ctx, s.db, studentID)
	if err != nil {
		return domain.CreateReceiptResponse{}, err
	}
	if payer == nil {
		return domain.CreateReceiptResponse{}, domain.ErrNotFound
	}

	concept, err := s.repo.FindConcept(ctx, s.db, conceptID)
	if err != nil {
		return domain.CreateReceiptResponse{}, err
	}
	if concept == nil {
		return domain.CreateReceiptResponse{}, domain.ErrNotFound
	}

	baseAmount := concept.Amount
	if concept.StyleID != nil {
		resolved, err := s.catalog.ResolvePrice(ctx, concept.StyleID.String(), payer.Kind)
		if err != nil {
			return domain.CreateReceiptResponse{}, err
		}
		baseAmount = resolved
	}
	if baseAmount <= 0 {
		return domain.CreateReceiptResponse{}, domain.ErrInvalidAmount
	}

	discountBps, err := s.resolveDiscount(ctx, req.DiscountBps, studentID)
	if err != nil {
		return domain.CreateReceiptResponse{}, err
	}

	finalAmount := baseAmount
	if discountBps != nil {
		finalAmount = money.ApplyDiscount(baseAmount, *discountBps)
	}

	date := s.clock.Now()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	outOfTerm, err := isOutOfTerm(req.Period, date, policy.OutOfTermGraceDays)
	if err != nil {
		return domain.CreateReceiptResponse{}, err
	}

	receipt := domain.Receipt{
		ID:             s.genID.Generate(),
		Date:           date,
		PayerKind:      payer.Kind,
		PayerID:        payer.ID,
		ConceptID:      concept.ID,
		ClassID:        classID,
		OriginalAmount: baseAmount,
		DiscountBps:    discountBps,
		FinalAmount:    finalAmount,
		PaymentMethod:  method,
		OutOfTerm:      outOfTerm,
		CreatedAt:      date,
		UpdatedAt:      date,
	}

	var payments []domain.DebtPayment
	var settledDebts int

	err = pkgdb.RunInTxWithRetry(ctx, s.db, policy.TxAttempts, func(tx *gorm.DB) error {
		payments = payments[:0]
		settledDebts = 0

		number, err := s.repo.NextReceiptNumber(ctx, tx)
		if err != nil {
			return err
		}
		receipt.ReceiptNumber = number

		if err := s.repo.InsertReceipt(ctx, tx, &receipt); err != nil {
			return err
		}

		if !req.SettleDebts {
			return nil
		}

		debts, err := s.repo.ListOutstandingDebts(ctx, tx, studentID)
		if err != nil {
			return err
		}

		unallocated := receipt.FinalAmount
		for _, d := range debts {
			if unallocated <= 0 {
				break
			}
			portion := d.RemainingAmount
			if portion > unallocated {
				portion = unallocated
			}

			payment := domain.DebtPayment{
				ID:        s.genID.Generate(),
				ReceiptID: receipt.ID,
				DebtID:    d.ID,
				Amount:    portion,
				CreatedAt: date,
			}
			if err := s.repo.InsertDebtPayment(ctx, tx, &payment); err != nil {
				return err
			}
			if err := s.repo.ApplyDebtPayment(ctx, tx, d.ID, portion); err != nil {
				return err
			}

			payments = append(payments, payment)
			unallocated -= portion
			if portion == d.RemainingAmount {
				settledDebts++
			}
		}
		// Whatever is left unallocated funds the direct concept charge.
		return nil
	})
	if err != nil {
		return domain.CreateReceiptResponse{}, err
	}

	s.metrics.RecordReceiptCreated(ctx, receipt.PayerKind, receipt.PaymentMethod)
	for i := 0; i < settledDebts; i++ {
		s.metrics.RecordDebtSettled(ctx)
	}
	if discountBps != nil && req.DiscountBps == nil {
		s.metrics.RecordDiscountApplied(ctx, "automatic")
	}

	s.emitAudit(ctx, "receipt.created", receipt.ID, map[string]any{
		"receipt_number": receipt.ReceiptNumber,
		"payer_id":       receipt.PayerID.String(),
		"final_amount":   receipt.FinalAmount,
		"debt_payments":  len(payments),
	})

	return domain.CreateReceiptResponse{Receipt: receipt, DebtPayments: payments}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.GetReceiptResponse, error) {
	receiptID, err := parseID(id)
	if err != nil {
		return domain.GetReceiptResponse{}, err
	}

	receipt, err := s.repo.FindReceiptByID(ctx, s.db, receiptID)
	if err != nil {
		return domain.GetReceiptResponse{}, err
	}
	if receipt == nil {
		return domain.GetReceiptResponse{}, domain.ErrNotFound
	}

	items, err := s.repo.ListDebtPayments(ctx, s.db, receiptID)
	if err != nil {
		return domain.GetReceiptResponse{}, err
	}

	payments := make([]domain.DebtPayment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	return domain.GetReceiptResponse{Receipt: *receipt, DebtPayments: payments}, nil
}

func (s *Service) Void(ctx context.Context, id string, reason string) (domain.Receipt, error) {
	receiptID, err := parseID(id)
	if err != nil {
		return domain.Receipt{}, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Receipt{}, domain.ErrInvalidReason
	}

	receipt, err := s.repo.FindReceiptByID(ctx, s.db, receiptID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if receipt == nil {
		return domain.Receipt{}, domain.ErrNotFound
	}
	if receipt.Voided {
		return domain.Receipt{}, domain.ErrAlreadyVoided
	}

	if err := s.repo.MarkVoided(ctx, s.db, receiptID, reason); err != nil {
		return domain.Receipt{}, err
	}

	s.metrics.RecordReceiptVoided(ctx)
	s.emitAudit(ctx, "receipt.voided", receiptID, map[string]any{
		"receipt_number": receipt.ReceiptNumber,
		"reason":         reason,
	})

	receipt.Voided = true
	receipt.VoidReason = &reason
	return *receipt, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	receiptID, err := parseID(id)
	if err != nil {
		return err
	}

	policy := s.policy.Get()
	var receiptNumber int64

	err = pkgdb.RunInTxWithRetry(ctx, s.db, policy.TxAttempts, func(tx *gorm.DB) error {
		receipt, err := s.repo.FindReceiptByID(ctx, tx, receiptID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return domain.ErrNotFound
		}
		receiptNumber = receipt.ReceiptNumber

		payments, err := s.repo.ListDebtPayments(ctx, tx, receiptID)
		if err != nil {
			return err
		}
		for _, payment := range payments {
			if payment == nil {
				continue
			}
			if err := s.repo.RestoreDebtRemaining(ctx, tx, payment.DebtID, payment.Amount); err != nil {
				return err
			}
		}

		if err := s.repo.DeleteDebtPayments(ctx, tx, receiptID); err != nil {
			return err
		}
		return s.repo.DeleteReceipt(ctx, tx, receiptID)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordReceiptDeleted(ctx)
	s.emitAudit(ctx, "receipt.deleted", receiptID, map[string]any{
		"receipt_number": receiptNumber,
	})
	return nil
}

// resolveDiscount prefers an explicit override and otherwise asks the
// discount resolver; nil means no discount applies.
func (s *Service) resolveDiscount(ctx context.Context, override *int64, studentID snowflake.ID) (*int64, error) {
	if override != nil {
		bps := *override
		if bps < 0 || bps >= money.BpsScale {
			return nil, domain.ErrInvalidDiscount
		}
		if bps == 0 {
			return nil, nil
		}
		return &bps, nil
	}

	automatic, err := s.discount.ComputeAutomatic(ctx, studentID.String())
	if err != nil {
		return nil, err
	}
	if automatic == nil {
		return nil, nil
	}

	bps := automatic.PercentageBps
	return &bps, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, receiptID snowflake.ID, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	target := receiptID.String()
	if err := s.audit.AuditLog(ctx, "", nil, action, "receipt", &target, metadata); err != nil {
		s.log.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

// isOutOfTerm reports whether date falls more than graceDays after the end
// of the paid period. An empty period never marks the receipt late.
func isOutOfTerm(period string, date time.Time, graceDays int) (bool, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return false, nil
	}

	start, err := time.Parse("2006-01", period)
	if err != nil {
		return false, domain.ErrInvalidPeriod
	}

	deadline := start.AddDate(0, 1, graceDays)
	return date.After(deadline), nil
}

func allowedMethod(methods []string, method string) bool {
	if method == "" {
		return false
	}
	for _, m := range methods {
		if strings.EqualFold(strings.TrimSpace(m), method) {
			return true
		}
	}
	return false
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
