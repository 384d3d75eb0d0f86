package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/model"
	"gpa-tracker/internal/repository"
	"gpa-tracker/pkg/gpa"
	"gpa-tracker/pkg/redis"
)

// overviewCalculator 计算并缓存用户总评
// 缓存仅为读优化，写路径在提交后失效对应键
type overviewCalculator struct {
	cache  JSONCache
	ttl    time.Duration
	logger *zap.Logger
}

func newOverviewCalculator(cache JSONCache, ttl time.Duration, logger *zap.Logger) *overviewCalculator {
	return &overviewCalculator{cache: cache, ttl: ttl, logger: logger}
}

// Get 优先读缓存，未命中时由仓储重新计算并回填
func (o *overviewCalculator) Get(ctx context.Context, repo *repository.Repository, userID string) (*dto.OverviewResponse, error) {
	key := redis.OverviewKey(userID)
	if o.cache != nil {
		var cached dto.OverviewResponse
		err := o.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			o.logger.Warn("读取总评缓存失败", zap.String("user_id", userID), zap.Error(err))
		}
	}

	resp, err := o.Compute(ctx, repo, userID)
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.SetJSON(ctx, key, resp, o.ttl); err != nil {
			o.logger.Warn("写入总评缓存失败", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return resp, nil
}

// Compute 不经缓存直接计算总评
func (o *overviewCalculator) Compute(ctx context.Context, repo *repository.Repository, userID string) (*dto.OverviewResponse, error) {
	semesters, err := repo.Semester.ListByUser(ctx, userID)
	if err != nil {
		o.logger.Error("查询学期失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	planned, err := repo.PlannedModule.ListByUser(ctx, userID)
	if err != nil {
		o.logger.Error("查询计划课程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return buildOverview(semesters, planned), nil
}

// Invalidate 失效用户总评缓存
func (o *overviewCalculator) Invalidate(ctx context.Context, userID string) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Delete(ctx, redis.OverviewKey(userID)); err != nil {
		o.logger.Warn("删除总评缓存失败", zap.String("user_id", userID), zap.Error(err))
	}
}

// buildOverview 由持久化的学期汇总计算总评
func buildOverview(semesters []model.Semester, planned []model.PlannedModule) *dto.OverviewResponse {
	terms := make([]gpa.TermInput, 0, len(semesters))
	for _, s := range semesters {
		terms = append(terms, gpa.TermInput{GPA: s.GPA, TotalCredits: s.TotalCredits})
	}
	overall := gpa.AggregateOverall(terms)

	plannedCredits := 0
	for _, m := range planned {
		plannedCredits += m.Credits
	}

	return &dto.OverviewResponse{
		OverallGPA:     overall.GPA,
		TotalCredits:   overall.TotalCredits,
		SemesterCount:  len(semesters),
		Standing:       gpa.Standing(overall.GPA),
		Classification: gpa.Classify(overall.GPA),
		PlannedCount:   len(planned),
		PlannedCredits: plannedCredits,
	}
}
