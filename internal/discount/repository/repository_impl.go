package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/studiocompas/compas/internal/discount/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, discount *domain.Discount) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO discounts (id, name, percentage_bps, automatic, min_styles, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		discount.ID,
		discount.Name,
		discount.PercentageBps,
		discount.Automatic,
		discount.MinStyles,
		discount.Active,
		discount.CreatedAt,
		discount.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Discount, error) {
	var discount domain.Discount
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, percentage_bps, automatic, min_styles, active, created_at, updated_at
		 FROM discounts WHERE id = ?`,
		id,
	).Scan(&discount).Error
	if err != nil {
		return nil, err
	}
	if discount.ID == 0 {
		return nil, nil
	}
	return &discount, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Discount, error) {
	var discounts []*domain.Discount
	err := db.WithContext(ctx).
		Model(&domain.Discount{}).
		Order("created_at desc, id desc").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE discounts SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		false,
		id,
	).Error
}

func (r *repo) BestAutomatic(ctx context.Context, db *gorm.DB, styleCount int) (*domain.Discount, error) {
	var discount domain.Discount
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, percentage_bps, automatic, min_styles, active, created_at, updated_at
		 FROM discounts
		 WHERE active AND automatic AND min_styles <= ?
		 ORDER BY percentage_bps DESC, created_at DESC, id DESC
		 LIMIT 1`,
		styleCount,
	).Scan(&discount).Error
	if err != nil {
		return nil, err
	}
	if discount.ID == 0 {
		return nil, nil
	}
	return &discount, nil
}

func (r *repo) CountActiveEnrollments(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (int, error) {
	var count int
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM student_styles WHERE student_id = ? AND active`,
		studentID,
	).Scan(&count).Error
	return count, err
}

func (r *repo) StudentExists(ctx context.Context, db *gorm.DB, studentID snowflake.ID) (bool, error) {
	var count int
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM students WHERE id = ?`,
		studentID,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) InsertApplication(ctx context.Context, db *gorm.DB, application *domain.DiscountApplication) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO discount_applications (id, discount_id, student_id, start_date, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		application.ID,
		application.DiscountID,
		application.StudentID,
		application.StartDate,
		application.Active,
		application.CreatedAt,
		application.UpdatedAt,
	).Error
}

func (r *repo) FindApplicationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.DiscountApplication, error) {
	var application domain.DiscountApplication
	err := db.WithContext(ctx).Raw(
		`SELECT id, discount_id, student_id, start_date, active, created_at, updated_at
		 FROM discount_applications WHERE id = ?`,
		id,
	).Scan(&application).Error
	if err != nil {
		return nil, err
	}
	if application.ID == 0 {
		return nil, nil
	}
	return &application, nil
}

func (r *repo) DeactivateApplication(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE discount_applications SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		false,
		id,
	).Error
}

func (r *repo) ListApplications(ctx context.Context, db *gorm.DB, studentID snowflake.ID) ([]*domain.DiscountApplication, error) {
	var applications []*domain.DiscountApplication
	err := db.WithContext(ctx).
		Model(&domain.DiscountApplication{}).
		Where("student_id = ?", studentID).
		Order("created_at desc, id desc").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}
