package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/studiocompas/compas/internal/audit/domain"
	catalogrepo "github.com/studiocompas/compas/internal/catalog/repository"
	catalogservice "github.com/studiocompas/compas/internal/catalog/service"
	"github.com/studiocompas/compas/internal/clock"
	"github.com/studiocompas/compas/internal/config"
	discountrepo "github.com/studiocompas/compas/internal/discount/repository"
	discountservice "github.com/studiocompas/compas/internal/discount/service"
	"github.com/studiocompas/compas/internal/receipt/domain"
	receiptrepo "github.com/studiocompas/compas/internal/receipt/repository"
	receiptservice "github.com/studiocompas/compas/internal/receipt/service"
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
		`CREATE TABLE styles (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			base_amount BIGINT NOT NULL,
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
		`CREATE TABLE modalities (
			id BIGINT PRIMARY KEY,
			style_id BIGINT NOT NULL,
			kind TEXT NOT NULL,
			percentage_bps BIGINT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_modalities_style_kind ON modalities(style_id, kind)`,
		`CREATE TABLE student_styles (
			id BIGINT PRIMARY KEY,
			student_id BIGINT NOT NULL,
			style_id BIGINT NOT NULL,
			modality_id BIGINT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE discounts (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			percentage_bps BIGINT NOT NULL,
			automatic BOOLEAN NOT NULL DEFAULT FALSE,
			min_styles INTEGER NOT NULL DEFAULT 0,
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
		`CREATE TABLE receipts (
			id BIGINT PRIMARY KEY,
			receipt_number BIGINT NOT NULL,
			date DATETIME NOT NULL,
			payer_kind TEXT NOT NULL,
			payer_id BIGINT NOT NULL,
			concept_id BIGINT NOT NULL,
			class_id BIGINT,
			original_amount BIGINT NOT NULL,
			discount_bps BIGINT,
			final_amount BIGINT NOT NULL,
			payment_method TEXT NOT NULL,
			voided BOOLEAN NOT NULL DEFAULT FALSE,
			void_reason TEXT,
			out_of_term BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_receipts_receipt_number ON receipts(receipt_number)`,
		`CREATE TABLE debt_payments (
			id BIGINT PRIMARY KEY,
			receipt_id BIGINT NOT NULL,
			debt_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE receipt_sequences (
			id BIGINT PRIMARY KEY,
			last_number BIGINT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	if err := db.Exec(`INSERT INTO receipt_sequences (id, last_number) VALUES (1, 0)`).Error; err != nil {
		t.Fatalf("seed sequence: %v", err)
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
	node, err := snowflake.NewNode(10)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	catalog := catalogservice.New(catalogservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  catalogrepo.Provide(),
	})
	discount := discountservice.New(discountservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  discountrepo.Provide(),
		Audit: noopAuditService{},
	})
	svc := receiptservice.New(receiptservice.Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    fake,
		Repo:     receiptrepo.Provide(),
		Catalog:  catalog,
		Discount: discount,
		Audit:    noopAuditService{},
		Policy:   config.StaticBillingPolicyHolder(config.DefaultBillingPolicy()),
	})

	return &fixture{db: db, node: node, clock: fake, service: svc}
}

func (f *fixture) seedStudent(t *testing.T, kind string) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO students (id, name, kind, active, created_at, updated_at) VALUES (?, ?, ?, TRUE, ?, ?)`,
		id, "Student "+id.String(), kind, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return id
}

func (f *fixture) seedStyle(t *testing.T, name string, baseAmount int64) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO styles (id, name, base_amount, active, created_at, updated_at) VALUES (?, ?, ?, TRUE, ?, ?)`,
		id, name, baseAmount, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed style: %v", err)
	}
	return id
}

func (f *fixture) seedConcept(t *testing.T, name string, amount int64, styleID *snowflake.ID) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO concepts (id, name, amount, style_id, active, created_at, updated_at) VALUES (?, ?, ?, ?, TRUE, ?, ?)`,
		id, name, amount, styleID, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed concept: %v", err)
	}
	return id
}

func (f *fixture) seedModality(t *testing.T, styleID snowflake.ID, kind string, bps int64) {
	t.Helper()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO modalities (id, style_id, kind, percentage_bps, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.node.Generate(), styleID, kind, bps, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed modality: %v", err)
	}
}

func (f *fixture) seedEnrollment(t *testing.T, studentID, styleID snowflake.ID) {
	t.Helper()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO student_styles (id, student_id, style_id, active, created_at, updated_at) VALUES (?, ?, ?, TRUE, ?, ?)`,
		f.node.Generate(), studentID, styleID, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
}

func (f *fixture) seedAutomaticDiscount(t *testing.T, name string, bps int64, minStyles int) {
	t.Helper()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO discounts (id, name, percentage_bps, automatic, min_styles, active, created_at, updated_at)
		 VALUES (?, ?, ?, TRUE, ?, TRUE, ?, ?)`,
		f.node.Generate(), name, bps, minStyles, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed discount: %v", err)
	}
}

func (f *fixture) seedDebt(t *testing.T, studentID, conceptID snowflake.ID, period string, amount int64, createdAt time.Time) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	err := f.db.Exec(
		`INSERT INTO debts (id, student_id, concept_id, period, kind, original_amount, remaining_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 'regular', ?, ?, ?, ?)`,
		id, studentID, conceptID, period, amount, amount, createdAt, createdAt,
	).Error
	if err != nil {
		t.Fatalf("seed debt: %v", err)
	}
	return id
}

func (f *fixture) debtRemaining(t *testing.T, debtID snowflake.ID) int64 {
	t.Helper()
	var remaining int64
	err := f.db.Raw(`SELECT remaining_amount FROM debts WHERE id = ?`, debtID).Scan(&remaining).Error
	if err != nil {
		t.Fatalf("read debt: %v", err)
	}
	return remaining
}

func TestCreateReceiptAppliesAutomaticDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	styleA := f.seedStyle(t, "salsa", 100000)
	styleB := f.seedStyle(t, "bachata", 90000)
	f.seedEnrollment(t, student, styleA)
	f.seedEnrollment(t, student, styleB)
	concept := f.seedConcept(t, "salsa monthly", 100000, &styleA)
	f.seedAutomaticDiscount(t, "multi-style", 1500, 2)

	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	if resp.Receipt.OriginalAmount != 100000 {
		t.Fatalf("original amount = %d, want 100000", resp.Receipt.OriginalAmount)
	}
	if resp.Receipt.FinalAmount != 85000 {
		t.Fatalf("final amount = %d, want 85000", resp.Receipt.FinalAmount)
	}
	if resp.Receipt.DiscountBps == nil || *resp.Receipt.DiscountBps != 1500 {
		t.Fatalf("discount bps = %v, want 1500", resp.Receipt.DiscountBps)
	}
	if resp.Receipt.ReceiptNumber != 1 {
		t.Fatalf("receipt number = %d, want 1", resp.Receipt.ReceiptNumber)
	}
}

func TestCreateReceiptResolvesModalityPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "drop_in")
	style := f.seedStyle(t, "tango", 100000)
	f.seedModality(t, style, "drop_in", 1500)
	concept := f.seedConcept(t, "tango class", 100000, &style)

	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	if resp.Receipt.OriginalAmount != 15000 {
		t.Fatalf("original amount = %d, want 15000", resp.Receipt.OriginalAmount)
	}
	if resp.Receipt.PayerKind != "drop_in" {
		t.Fatalf("payer kind = %q, want drop_in", resp.Receipt.PayerKind)
	}
}

func TestCreateReceiptSettlesDebtsOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "monthly fee", 70000, nil)
	base := f.clock.Now()
	d1 := f.seedDebt(t, student, concept, "2024-01", 50000, base.Add(-48*time.Hour))
	d2 := f.seedDebt(t, student, concept, "2024-02", 50000, base.Add(-24*time.Hour))

	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
		SettleDebts:   true,
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	if len(resp.DebtPayments) != 2 {
		t.Fatalf("debt payments = %d, want 2", len(resp.DebtPayments))
	}
	if resp.DebtPayments[0].DebtID != d1 || resp.DebtPayments[0].Amount != 50000 {
		t.Fatalf("first payment = %+v, want full 50000 against oldest debt", resp.DebtPayments[0])
	}
	if resp.DebtPayments[1].DebtID != d2 || resp.DebtPayments[1].Amount != 20000 {
		t.Fatalf("second payment = %+v, want partial 20000", resp.DebtPayments[1])
	}
	if got := f.debtRemaining(t, d1); got != 0 {
		t.Fatalf("oldest debt remaining = %d, want 0", got)
	}
	if got := f.debtRemaining(t, d2); got != 30000 {
		t.Fatalf("newest debt remaining = %d, want 30000", got)
	}
}

func TestCreateReceiptLeavesRemainderAsDirectCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "monthly fee", 80000, nil)
	d1 := f.seedDebt(t, student, concept, "2024-01", 30000, f.clock.Now())

	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "transfer",
		SettleDebts:   true,
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	if len(resp.DebtPayments) != 1 {
		t.Fatalf("debt payments = %d, want 1", len(resp.DebtPayments))
	}
	if resp.DebtPayments[0].Amount != 30000 {
		t.Fatalf("payment amount = %d, want 30000", resp.DebtPayments[0].Amount)
	}
	if got := f.debtRemaining(t, d1); got != 0 {
		t.Fatalf("debt remaining = %d, want 0", got)
	}
	if resp.Receipt.FinalAmount != 80000 {
		t.Fatalf("final amount = %d, want 80000", resp.Receipt.FinalAmount)
	}
}

func TestCreateReceiptDiscountOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "workshop", 100000, nil)
	f.seedAutomaticDiscount(t, "ignored", 5000, 1)

	override := int64(2500)
	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		DiscountBps:   &override,
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	if resp.Receipt.FinalAmount != 75000 {
		t.Fatalf("final amount = %d, want 75000", resp.Receipt.FinalAmount)
	}

	bad := int64(10000)
	_, err = f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		DiscountBps:   &bad,
		PaymentMethod: "cash",
	})
	if !errors.Is(err, domain.ErrInvalidDiscount) {
		t.Fatalf("err = %v, want ErrInvalidDiscount", err)
	}
}

func TestCreateReceiptRejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "workshop", 50000, nil)

	_, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "barter",
	})
	if !errors.Is(err, domain.ErrInvalidPaymentMethod) {
		t.Fatalf("err = %v, want ErrInvalidPaymentMethod", err)
	}
}

func TestCreateReceiptOutOfTerm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "monthly fee", 50000, nil)

	// Clock sits at 2024-03-05; January plus the 10 grace days is long past.
	late, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
		Period:        "2024-01",
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	if !late.Receipt.OutOfTerm {
		t.Fatal("expected receipt for 2024-01 to be out of term")
	}

	onTime, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
		Period:        "2024-03",
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	if onTime.Receipt.OutOfTerm {
		t.Fatal("expected receipt for 2024-03 to be in term")
	}

	_, err = f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
		Period:        "march",
	})
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Fatalf("err = %v, want ErrInvalidPeriod", err)
	}
}

func TestReceiptNumbersAreSequentialAndNeverReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "workshop", 50000, nil)

	create := func() domain.Receipt {
		resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
			StudentID:     student.String(),
			ConceptID:     concept.String(),
			PaymentMethod: "cash",
		})
		if err != nil {
			t.Fatalf("create receipt: %v", err)
		}
		return resp.Receipt
	}

	first := create()
	second := create()
	third := create()
	if first.ReceiptNumber != 1 || second.ReceiptNumber != 2 || third.ReceiptNumber != 3 {
		t.Fatalf("numbers = %d, %d, %d, want 1, 2, 3",
			first.ReceiptNumber, second.ReceiptNumber, third.ReceiptNumber)
	}

	if _, err := f.service.Void(ctx, second.ID.String(), "duplicate entry"); err != nil {
		t.Fatalf("void receipt: %v", err)
	}
	if err := f.service.Delete(ctx, third.ID.String()); err != nil {
		t.Fatalf("delete receipt: %v", err)
	}

	fourth := create()
	if fourth.ReceiptNumber != 4 {
		t.Fatalf("number after void and delete = %d, want 4", fourth.ReceiptNumber)
	}
}

func TestVoidReceiptLeavesDebtPaymentsIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "monthly fee", 50000, nil)
	debt := f.seedDebt(t, student, concept, "2024-01", 50000, f.clock.Now())

	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
		SettleDebts:   true,
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	voided, err := f.service.Void(ctx, resp.Receipt.ID.String(), "front desk error")
	if err != nil {
		t.Fatalf("void receipt: %v", err)
	}
	if !voided.Voided || voided.VoidReason == nil || *voided.VoidReason != "front desk error" {
		t.Fatalf("voided receipt = %+v, want voided with reason", voided)
	}

	// Voiding is an audit flag only: the settlement stands.
	if got := f.debtRemaining(t, debt); got != 0 {
		t.Fatalf("debt remaining after void = %d, want 0", got)
	}

	if _, err := f.service.Void(ctx, resp.Receipt.ID.String(), "again"); !errors.Is(err, domain.ErrAlreadyVoided) {
		t.Fatalf("err = %v, want ErrAlreadyVoided", err)
	}
	if _, err := f.service.Void(ctx, resp.Receipt.ID.String(), "  "); !errors.Is(err, domain.ErrInvalidReason) && !errors.Is(err, domain.ErrAlreadyVoided) {
		t.Fatalf("err = %v, want reason or voided error", err)
	}
}

func TestVoidReceiptRequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "workshop", 50000, nil)

	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	if _, err := f.service.Void(ctx, resp.Receipt.ID.String(), "   "); !errors.Is(err, domain.ErrInvalidReason) {
		t.Fatalf("err = %v, want ErrInvalidReason", err)
	}
}

func TestDeleteReceiptRestoresDebts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "monthly fee", 70000, nil)
	base := f.clock.Now()
	d1 := f.seedDebt(t, student, concept, "2024-01", 50000, base.Add(-48*time.Hour))
	d2 := f.seedDebt(t, student, concept, "2024-02", 50000, base.Add(-24*time.Hour))

	resp, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
		SettleDebts:   true,
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	if err := f.service.Delete(ctx, resp.Receipt.ID.String()); err != nil {
		t.Fatalf("delete receipt: %v", err)
	}

	if got := f.debtRemaining(t, d1); got != 50000 {
		t.Fatalf("restored remaining = %d, want 50000", got)
	}
	if got := f.debtRemaining(t, d2); got != 50000 {
		t.Fatalf("restored remaining = %d, want 50000", got)
	}

	var payments int64
	if err := f.db.Raw(`SELECT COUNT(1) FROM debt_payments WHERE receipt_id = ?`, resp.Receipt.ID).Scan(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 0 {
		t.Fatalf("payments left behind = %d, want 0", payments)
	}

	if _, err := f.service.GetByID(ctx, resp.Receipt.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetReceiptReturnsPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedStudent(t, "regular")
	concept := f.seedConcept(t, "monthly fee", 50000, nil)
	f.seedDebt(t, student, concept, "2024-01", 30000, f.clock.Now())

	created, err := f.service.Create(ctx, domain.CreateReceiptRequest{
		StudentID:     student.String(),
		ConceptID:     concept.String(),
		PaymentMethod: "cash",
		SettleDebts:   true,
	})
	if err != nil {
		t.Fatalf("create receipt: %v", err)
	}

	got, err := f.service.GetByID(ctx, created.Receipt.ID.String())
	if err != nil {
		t.Fatalf("get receipt: %v", err)
	}
	if got.Receipt.ID != created.Receipt.ID {
		t.Fatalf("receipt id = %v, want %v", got.Receipt.ID, created.Receipt.ID)
	}
	if len(got.DebtPayments) != 1 || got.DebtPayments[0].Amount != 30000 {
		t.Fatalf("payments = %+v, want one of 30000", got.DebtPayments)
	}
}
