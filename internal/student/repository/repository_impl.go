package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/student/domain"
	"github.com/studiocompas/compas/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, student *domain.Student) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO students (id, name, kind, email, phone, converted_to_regular_id, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		student.ID,
		student.Name,
		student.Kind,
		student.Email,
		student.Phone,
		student.ConvertedToRegularID,
		student.Active,
		student.CreatedAt,
		student.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Student, error) {
	var student domain.Student
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, kind, email, phone, converted_to_regular_id, active, created_at, updated_at
		 FROM students WHERE id = ?`,
		id,
	).Scan(&student).Error
	if err != nil {
		return nil, err
	}
	if student.ID == 0 {
		return nil, nil
	}
	return &student, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListStudentFilter, cursor *pagination.Cursor, limit int) ([]*domain.Student, error) {
	var students []*domain.Student
	stmt := db.WithContext(ctx).Model(&domain.Student{})

	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		stmt = stmt.Where("kind = ?", kind)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		stmt = stmt.Where("name = ?", name)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	if cursor != nil {
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err == nil {
			stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
				createdAt, createdAt, cursor.ID)
		}
	}

	stmt = stmt.Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit + 1)
	}

	if err := stmt.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM students WHERE id = ?`, id).Error
}

func (r *repo) SetConvertedTo(ctx context.Context, db *gorm.DB, dropInID, regularID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE students SET converted_to_regular_id = ?, updated_at = ? WHERE id = ?`,
		regularID,
		time.Now().UTC(),
		dropInID,
	).Error
}

func (r *repo) CountReceipts(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM receipts WHERE payer_id = ?`,
		studentID,
	).Scan(&count).Error
	return count, err
}

func (r *repo) InsertEnrollment(ctx context.Context, db *gorm.DB, enrollment *domain.Enrollment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO student_styles (id, student_id, style_id, modality_id, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		enrollment.ID,
		enrollment.StudentID,
		enrollment.StyleID,
		enrollment.ModalityID,
		enrollment.Active,
		enrollment.CreatedAt,
		enrollment.UpdatedAt,
	).Error
}

func (r *repo) FindActiveEnrollment(ctx context.Context, db *gorm.DB, studentID, styleID snowflake.ID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := db.WithContext(ctx).Raw(
		`SELECT id, student_id, style_id, modality_id, active, created_at, updated_at
		 FROM student_styles WHERE student_id = ? AND style_id = ? AND active`,
		studentID,
		styleID,
	).Scan(&enrollment).Error
	if err != nil {
		return nil, err
	}
	if enrollment.ID == 0 {
		return nil, nil
	}
	return &enrollment, nil
}

func (r *repo) DeactivateEnrollment(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE student_styles SET active = ?, updated_at = ? WHERE id = ?`,
		false,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) ListEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]*domain.Enrollment, error) {
	var enrollments []*domain.Enrollment
	err := db.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("student_id = ?", studentID).
		Order("created_at asc, id asc").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
