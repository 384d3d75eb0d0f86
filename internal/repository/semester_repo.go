package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gpa-tracker/internal/model"
)

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, id string) (*model.Semester, error)
	// GetByIDForUpdate 在事务内以 SELECT ... FOR UPDATE 锁定学期行（不含课程）
	GetByIDForUpdate(ctx context.Context, id string) (*model.Semester, error)
	// ListByUser 按创建时间升序返回用户全部学期（含课程）
	ListByUser(ctx context.Context, userID string) ([]model.Semester, error)
	Update(ctx context.Context, semester *model.Semester) error
	// UpdateTotals 仅更新派生字段 gpa / total_credits
	UpdateTotals(ctx context.Context, id string, gpa float64, totalCredits int) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("semester_id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("semester_id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) ListByUser(ctx context.Context, userID string) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) Update(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ?", semester.SemesterID).
		Updates(map[string]interface{}{
			"name":       semester.Name,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *semesterRepo) UpdateTotals(ctx context.Context, id string, gpa float64, totalCredits int) error {
	return r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ?", id).
		Updates(map[string]interface{}{
			"gpa":           gpa,
			"total_credits": totalCredits,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

// Delete 课程由外键级联删除
func (r *semesterRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("semester_id = ?", id).
		Delete(&model.Semester{}).Error
}

func (r *semesterRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Semester{}).Error
}
