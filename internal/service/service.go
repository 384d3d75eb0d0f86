package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gpa-tracker/config"
	"gpa-tracker/internal/repository"
	"gpa-tracker/pkg/jwt"
	"gpa-tracker/pkg/redis"
)

// TokenBlacklist Token 黑名单能力（Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JSONCache 总评缓存能力（Redis 实现）
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	Semester      SemesterService
	PlannedModule PlannedModuleService
	Goal          GoalService
	Export        ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时黑名单与总评缓存均降级为不可用
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		blacklist TokenBlacklist
		cache     JSONCache
	)
	if rdb != nil {
		blacklist = rdb
		cache = rdb
	}

	overview := newOverviewCalculator(cache, cfg.Redis.OverviewTTL, logger)

	return &Service{
		Auth:          NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Semester:      NewSemesterService(repo, overview, logger),
		PlannedModule: NewPlannedModuleService(repo, overview, logger),
		Goal:          NewGoalService(repo, overview, logger),
		Export:        NewExportService(cfg, repo, overview, logger),
	}
}

// runInTx 在事务内执行 fn，fn 返回错误或 panic 时回滚
func runInTx(ctx context.Context, repo *repository.Repository, logger *zap.Logger, fn func(txRepo *repository.Repository) error) (err error) {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}
