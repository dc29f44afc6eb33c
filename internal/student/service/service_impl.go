package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/studiocompas/compas/internal/audit/domain"
	"github.com/studiocompas/compas/internal/clock"
	"github.com/studiocompas/compas/internal/student/domain"
	"github.com/studiocompas/compas/pkg/db/pagination"
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
		log:   p.Log.Named("student.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateStudentRequest) (domain.Student, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Student{}, domain.ErrInvalidName
	}

	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		kind = domain.KindRegular
	}
	if kind != domain.KindRegular && kind != domain.KindDropIn {
		return domain.Student{}, domain.ErrInvalidKind
	}

	now := s.clock.Now()
	student := domain.Student{
		ID:        s.genID.Generate(),
		Name:      name,
		Kind:      kind,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &student); err != nil {
		return domain.Student{}, err
	}
	return student, nil
}

func (s *Service) List(ctx context.Context, req domain.ListStudentRequest) (domain.ListStudentResponse, error) {
	var cursor *pagination.Cursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListStudentResponse{}, domain.ErrInvalidPageToken
		}
		cursor = decoded
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	filter := domain.ListStudentFilter{
		Kind:        strings.TrimSpace(req.Kind),
		Name:        strings.TrimSpace(req.Name),
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}

	items, err := s.repo.List(ctx, s.db, filter, cursor, pageSize)
	if err != nil {
		return domain.ListStudentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(student *domain.Student) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        student.ID.String(),
			CreatedAt: student.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	students := make([]domain.Student, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		students = append(students, *item)
	}

	resp := domain.ListStudentResponse{Students: students}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Student, error) {
	studentID, err := parseID(id)
	if err != nil {
		return domain.Student{}, err
	}

	student, err := s.repo.FindByID(ctx, s.db, studentID)
	if err != nil {
		return domain.Student{}, err
	}
	if student == nil {
		return domain.Student{}, domain.ErrNotFound
	}
	return *student, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	studentID, err := parseID(id)
	if err != nil {
		return err
	}

	student, err := s.repo.FindByID(ctx, s.db, studentID)
	if err != nil {
		return err
	}
	if student == nil {
		return domain.ErrNotFound
	}

	count, err := s.repo.CountReceipts(ctx, s.db, studentID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrStudentHasReceipts
	}

	if err := s.repo.Delete(ctx, s.db, studentID); err != nil {
		return err
	}

	s.emitAudit(ctx, "student.deleted", studentID, map[string]any{
		"name": student.Name,
		"kind": student.Kind,
	})
	return nil
}

func (s *Service) Enroll(ctx context.Context, req domain.EnrollRequest) (domain.Enrollment, error) {
	studentID, err := parseID(req.StudentID)
	if err != nil {
		return domain.Enrollment{}, err
	}
	styleID, err := parseID(req.StyleID)
	if err != nil {
		return domain.Enrollment{}, err
	}

	student, err := s.repo.FindByID(ctx, s.db, studentID)
	if err != nil {
		return domain.Enrollment{}, err
	}
	if student == nil {
		return domain.Enrollment{}, domain.ErrNotFound
	}

	existing, err := s.repo.FindActiveEnrollment(ctx, s.db, studentID, styleID)
	if err != nil {
		return domain.Enrollment{}, err
	}
	if existing != nil {
		return domain.Enrollment{}, domain.ErrAlreadyEnrolled
	}

	var modalityID *snowflake.ID
	if strings.TrimSpace(req.ModalityID) != "" {
		parsed, err := parseID(req.ModalityID)
		if err != nil {
			return domain.Enrollment{}, err
		}
		modalityID = &parsed
	}

	now := s.clock.Now()
	enrollment := domain.Enrollment{
		ID:         s.genID.Generate(),
		StudentID:  studentID,
		StyleID:    styleID,
		ModalityID: modalityID,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.InsertEnrollment(ctx, s.db, &enrollment); err != nil {
		return domain.Enrollment{}, err
	}
	return enrollment, nil
}

func (s *Service) Drop(ctx context.Context, studentID, styleID string) error {
	sid, err := parseID(studentID)
	if err != nil {
		return err
	}
	stid, err := parseID(styleID)
	if err != nil {
		return err
	}

	enrollment, err := s.repo.FindActiveEnrollment(ctx, s.db, sid, stid)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return domain.ErrNotEnrolled
	}

	return s.repo.DeactivateEnrollment(ctx, s.db, enrollment.ID)
}

func (s *Service) ListEnrollments(ctx context.Context, studentID string) ([]domain.Enrollment, error) {
	sid, err := parseID(studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListEnrollments(ctx, s.db, sid)
	if err != nil {
		return nil, err
	}

	enrollments := make([]domain.Enrollment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		enrollments = append(enrollments, *item)
	}
	return enrollments, nil
}

func (s *Service) Promote(ctx context.Context, req domain.PromoteRequest) (domain.Student, error) {
	dropInID, err := parseID(req.DropInID)
	if err != nil {
		return domain.Student{}, err
	}
	regularID, err := parseID(req.RegularID)
	if err != nil {
		return domain.Student{}, err
	}

	dropIn, err := s.repo.FindByID(ctx, s.db, dropInID)
	if err != nil {
		return domain.Student{}, err
	}
	if dropIn == nil {
		return domain.Student{}, domain.ErrNotFound
	}
	if dropIn.Kind != domain.KindDropIn {
		return domain.Student{}, domain.ErrNotDropIn
	}
	if dropIn.ConvertedToRegularID != nil {
		return domain.Student{}, domain.ErrAlreadyConverted
	}

	regular, err := s.repo.FindByID(ctx, s.db, regularID)
	if err != nil {
		return domain.Student{}, err
	}
	if regular == nil {
		return domain.Student{}, domain.ErrNotFound
	}
	if regular.Kind != domain.KindRegular {
		return domain.Student{}, domain.ErrNotRegular
	}

	if err := s.repo.SetConvertedTo(ctx, s.db, dropInID, regularID); err != nil {
		return domain.Student{}, err
	}

	s.emitAudit(ctx, "student.promoted", dropInID, map[string]any{
		"regular_id": regularID.String(),
	})

	dropIn.ConvertedToRegularID = &regularID
	return *dropIn, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, studentID snowflake.ID, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	targetID := studentID.String()
	if err := s.audit.AuditLog(ctx, "", nil, action, "student", &targetID, metadata); err != nil {
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
