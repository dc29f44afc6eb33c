package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/studiocompas/compas/internal/audit/domain"
	"github.com/studiocompas/compas/internal/clock"
	"github.com/studiocompas/compas/internal/debt/domain"
	debtrepo "github.com/studiocompas/compas/internal/debt/repository"
	debtservice "github.com/studiocompas/compas/internal/debt/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noopAuditService struct{}

func (noopAuditService) AuditLog(context.Context, string, *string, string, string, *string, map[string]any) error {
	return nil
}

func (noopAuditService) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE students (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			converted_to_regular_id BIGINT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE concepts (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			amount BIGINT NOT NULL,
			style_id BIGINT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE debts (
			id BIGINT PRIMARY KEY,
			student_id BIGINT NOT NULL,
			concept_id BIGINT NOT NULL,
			period TEXT NOT NULL,
			kind TEXT NOT NULL,
			original_amount BIGINT NOT NULL,
			remaining_amount BIGINT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE debt_payments (
			id BIGINT PRIMARY KEY,
			receipt_id BIGINT NOT NULL,
			debt_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	clock   *clock.FakeClock
	service domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(12)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC))

	svc := debtservice.New(debtservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  debtrepo.Provide(),
		Audit: noopAuditService{},
	})
	return &fixture{db: db, node: node, clock: fake, service: svc}
}

func (f *fixture) seedStudent(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO students (id, name, kind, active, created_at, updated_at) VALUES (?, 'Test Student', 'regular', TRUE, ?, ?)`,
		id, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return id
}

func (f *fixture) seedConcept(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO concepts (id, name, amount, active, created_at, updated_at) VALUES (?, 'monthly fee', 50000, TRUE, ?, ?)`,
		id, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed concept: %v", err)
	}
	return id
}

func TestCreateDebtValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t)
	concept := f.seedConcept(t)

	cases := []struct {
		name string
		req  domain.CreateDebtRequest
		want error
	}{
		{
			name: "period without zero padding",
			req: domain.CreateDebtRequest{
				StudentID: student.String(), ConceptID: concept.String(), Period: "2024-3", Amount: 50000,
			},
			want: domain.ErrInvalidPeriod,
		},
		{
			name: "zero amount",
			req: domain.CreateDebtRequest{
				StudentID: student.String(), ConceptID: concept.String(), Period: "2024-03", Amount: 0,
			},
			want: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			req: domain.CreateDebtRequest{
				StudentID: student.String(), ConceptID: concept.String(), Period: "2024-03", Amount: -100,
			},
			want: domain.ErrInvalidAmount,
		},
		{
			name: "unknown kind",
			req: domain.CreateDebtRequest{
				StudentID: student.String(), ConceptID: concept.String(), Period: "2024-03", Amount: 50000, Kind: "trial",
			},
			want: domain.ErrInvalidKind,
		},
		{
			name: "unknown student",
			req: domain.CreateDebtRequest{
				StudentID: f.node.Generate().String(), ConceptID: concept.String(), Period: "2024-03", Amount: 50000,
			},
			want: domain.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateDebtStartsFullyOutstanding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t)
	concept := f.seedConcept(t)

	debt, err := f.service.Create(ctx, domain.CreateDebtRequest{
		StudentID: student.String(),
		ConceptID: concept.String(),
		Period:    "2024-03",
		Amount:    50000,
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	if debt.RemainingAmount != debt.OriginalAmount {
		t.Fatalf("remaining = %d, want %d", debt.RemainingAmount, debt.OriginalAmount)
	}
	if debt.Kind != domain.KindRegular {
		t.Fatalf("kind = %q, want regular default", debt.Kind)
	}
}

func TestListOutstandingOrdersOldestPeriodFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t)
	concept := f.seedConcept(t)

	for _, period := range []string{"2024-03", "2024-01", "2024-02"} {
		if _, err := f.service.Create(ctx, domain.CreateDebtRequest{
			StudentID: student.String(),
			ConceptID: concept.String(),
			Period:    period,
			Amount:    50000,
		}); err != nil {
			t.Fatalf("create debt: %v", err)
		}
	}

	settled, err := f.service.Create(ctx, domain.CreateDebtRequest{
		StudentID: student.String(),
		ConceptID: concept.String(),
		Period:    "2023-12",
		Amount:    50000,
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	if err := f.db.Exec(`UPDATE debts SET remaining_amount = 0 WHERE id = ?`, settled.ID).Error; err != nil {
		t.Fatalf("settle debt: %v", err)
	}

	debts, err := f.service.ListOutstanding(ctx, student.String())
	if err != nil {
		t.Fatalf("list outstanding: %v", err)
	}
	if len(debts) != 3 {
		t.Fatalf("outstanding = %d, want 3", len(debts))
	}
	for i, want := range []string{"2024-01", "2024-02", "2024-03"} {
		if debts[i].Period != want {
			t.Fatalf("debts[%d].Period = %q, want %q", i, debts[i].Period, want)
		}
	}
}

func TestDeleteDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t)
	concept := f.seedConcept(t)

	debt, err := f.service.Create(ctx, domain.CreateDebtRequest{
		StudentID: student.String(),
		ConceptID: concept.String(),
		Period:    "2024-03",
		Amount:    50000,
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	if err := f.service.Delete(ctx, debt.ID.String()); err != nil {
		t.Fatalf("delete debt: %v", err)
	}
	if _, err := f.service.GetByID(ctx, debt.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := f.service.Delete(ctx, debt.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDebtWithPaymentsRefuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t)
	concept := f.seedConcept(t)

	debt, err := f.service.Create(ctx, domain.CreateDebtRequest{
		StudentID: student.String(),
		ConceptID: concept.String(),
		Period:    "2024-03",
		Amount:    50000,
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	err = f.db.Exec(
		`INSERT INTO debt_payments (id, receipt_id, debt_id, amount, created_at) VALUES (?, ?, ?, 20000, ?)`,
		f.node.Generate(), f.node.Generate(), debt.ID, f.clock.Now(),
	).Error
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := f.service.Delete(ctx, debt.ID.String()); !errors.Is(err, domain.ErrDebtHasPayments) {
		t.Fatalf("err = %v, want ErrDebtHasPayments", err)
	}

	// Still on the books.
	kept, err := f.service.GetByID(ctx, debt.ID.String())
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if kept.RemainingAmount != 50000 {
		t.Fatalf("remaining = %d, want 50000", kept.RemainingAmount)
	}
}
