package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gpa-tracker/internal/model"
)

// PlannedModuleRepository 计划课程数据访问接口
type PlannedModuleRepository interface {
	Create(ctx context.Context, m *model.PlannedModule) error
	BatchCreate(ctx context.Context, modules []model.PlannedModule) error
	GetByID(ctx context.Context, id string) (*model.PlannedModule, error)
	ListByUser(ctx context.Context, userID string) ([]model.PlannedModule, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type plannedModuleRepo struct {
	db *gorm.DB
}

// NewPlannedModuleRepo 创建 PlannedModuleRepository 实例
func NewPlannedModuleRepo(db *gorm.DB) PlannedModuleRepository {
	return &plannedModuleRepo{db: db}
}

func (r *plannedModuleRepo) Create(ctx context.Context, m *model.PlannedModule) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *plannedModuleRepo) BatchCreate(ctx context.Context, modules []model.PlannedModule) error {
	if len(modules) == 0 {
		return nil
	}
	stampCreatedAt(time.Now(), len(modules), func(i int) *time.Time { return &modules[i].CreatedAt })
	return r.db.WithContext(ctx).CreateInBatches(modules, 100).Error
}

func (r *plannedModuleRepo) GetByID(ctx context.Context, id string) (*model.PlannedModule, error) {
	var m model.PlannedModule
	err := r.db.WithContext(ctx).
		Where("module_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *plannedModuleRepo) ListByUser(ctx context.Context, userID string) ([]model.PlannedModule, error) {
	var modules []model.PlannedModule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&modules).Error
	return modules, err
}

func (r *plannedModuleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("module_id = ?", id).
		Delete(&model.PlannedModule{}).Error
}

func (r *plannedModuleRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.PlannedModule{}).Error
}
