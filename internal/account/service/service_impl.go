package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/account/domain"
	"github.com/studiocompas/compas/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("account.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetLedger(ctx context.Context, studentID string) (domain.LedgerResponse, error) {
	sid, err := parseID(studentID)
	if err != nil {
		return domain.LedgerResponse{}, err
	}

	student, err := s.repo.FindStudent(ctx, s.db, sid)
	if err != nil {
		return domain.LedgerResponse{}, err
	}
	if student == nil {
		return domain.LedgerResponse{}, domain.ErrNotFound
	}

	identities, err := s.resolveIdentities(ctx, student)
	if err != nil {
		return domain.LedgerResponse{}, err
	}

	receipts, err := s.repo.ListReceipts(ctx, s.db, identities)
	if err != nil {
		return domain.LedgerResponse{}, err
	}

	receiptIDs := make([]snowflake.ID, 0, len(receipts))
	for _, row := range receipts {
		if row == nil {
			continue
		}
		receiptIDs = append(receiptIDs, row.ID)
	}

	allocations, err := s.repo.ListAllocations(ctx, s.db, receiptIDs)
	if err != nil {
		return domain.LedgerResponse{}, err
	}

	allocationsByReceipt := make(map[snowflake.ID][]domain.Allocation, len(receiptIDs))
	for _, row := range allocations {
		if row == nil {
			continue
		}
		allocationsByReceipt[row.ReceiptID] = append(allocationsByReceipt[row.ReceiptID], domain.Allocation{
			DebtID: row.DebtID,
			Period: row.Period,
			Amount: money.FormatDecimal(row.Amount, money.DefaultExponent),
		})
	}

	var runningTotal int64
	entries := make([]domain.LedgerEntry, 0, len(receipts))
	for _, row := range receipts {
		if row == nil {
			continue
		}
		if !row.Voided {
			runningTotal += row.FinalAmount
		}
		entries = append(entries, domain.LedgerEntry{
			ReceiptID:      row.ID,
			ReceiptNumber:  row.ReceiptNumber,
			Date:           row.Date,
			PayerKind:      row.PayerKind,
			PayerID:        row.PayerID,
			ConceptID:      row.ConceptID,
			ConceptName:    row.ConceptName,
			OriginalAmount: money.FormatDecimal(row.OriginalAmount, money.DefaultExponent),
			FinalAmount:    money.FormatDecimal(row.FinalAmount, money.DefaultExponent),
			DiscountBps:    row.DiscountBps,
			PaymentMethod:  row.PaymentMethod,
			Voided:         row.Voided,
			VoidReason:     row.VoidReason,
			OutOfTerm:      row.OutOfTerm,
			Allocations:    allocationsByReceipt[row.ID],
		})
	}

	ids := make([]string, 0, len(identities))
	for _, id := range identities {
		ids = append(ids, id.String())
	}

	return domain.LedgerResponse{
		StudentID:    sid.String(),
		Identities:   ids,
		Entries:      entries,
		RunningTotal: money.FormatDecimal(runningTotal, money.DefaultExponent),
	}, nil
}

// resolveIdentities widens the requested student to its linked accounts: a
// converted drop-in pulls in its regular account, a regular account pulls in
// every drop-in converted to it.
func (s *Service) resolveIdentities(ctx context.Context, student *domain.StudentRow) ([]snowflake.ID, error) {
	identities := []snowflake.ID{student.ID}

	if student.ConvertedToRegularID != nil && *student.ConvertedToRegularID != 0 {
		identities = append(identities, *student.ConvertedToRegularID)
		return identities, nil
	}

	dropIns, err := s.repo.ListConvertedDropIns(ctx, s.db, student.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range dropIns {
		if id == student.ID {
			continue
		}
		identities = append(identities, id)
	}
	return identities, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
