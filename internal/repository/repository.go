package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User          UserRepository
	Semester      SemesterRepository
	Course        CourseRepository
	PlannedModule PlannedModuleRepository
	Goal          GoalRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Semester:      NewSemesterRepo(db),
		Course:        NewCourseRepo(db),
		PlannedModule: NewPlannedModuleRepo(db),
		Goal:          NewGoalRepo(db),
	}
}

// BeginTx 开启数据库事务，调用方负责 Commit / Rollback
// 未绑定数据库（单元测试中由 mock 组装）时返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务 tx 的 Repository 聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// stampCreatedAt 为批量插入的记录分配严格递增的 created_at。
// CreateInBatches 对整批使用同一个时间戳，列表按 created_at 排序时需要它保持输入顺序；
// 步长取微秒以匹配 PostgreSQL timestamp 精度。已设置的时间不覆盖。
func stampCreatedAt(base time.Time, n int, at func(i int) *time.Time) {
	base = base.Truncate(time.Microsecond)
	for i := 0; i < n; i++ {
		if p := at(i); p.IsZero() {
			*p = base.Add(time.Duration(i) * time.Microsecond)
		}
	}
}
