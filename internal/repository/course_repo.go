package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gpa-tracker/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	BatchCreate(ctx context.Context, courses []model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) BatchCreate(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	stampCreatedAt(time.Now(), len(courses), func(i int) *time.Time { return &courses[i].CreatedAt })
	return r.db.WithContext(ctx).CreateInBatches(courses, 100).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", course.CourseID).
		Updates(map[string]interface{}{
			"name":       course.Name,
			"credits":    course.Credits,
			"grade":      course.Grade,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}
