package repository

import (
	"context"

	"gorm.io/gorm"

	"gpa-tracker/internal/model"
)

// GoalRepository 目标绩点记录数据访问接口
type GoalRepository interface {
	Create(ctx context.Context, goal *model.GPAGoal) error
	// GetLatestByUser 返回用户最近一次测算记录
	GetLatestByUser(ctx context.Context, userID string) (*model.GPAGoal, error)
}

type goalRepo struct {
	db *gorm.DB
}

// NewGoalRepo 创建 GoalRepository 实例
func NewGoalRepo(db *gorm.DB) GoalRepository {
	return &goalRepo{db: db}
}

func (r *goalRepo) Create(ctx context.Context, goal *model.GPAGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepo) GetLatestByUser(ctx context.Context, userID string) (*model.GPAGoal, error) {
	var goal model.GPAGoal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}
