package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/model"
	"gpa-tracker/internal/repository"
	"gpa-tracker/pkg/gpa"
)

// ── 目标绩点模块业务错误 ──

var (
	ErrGoalNotFound         = errors.New("尚未设定目标绩点")
	ErrNoRemainingCredits   = errors.New("剩余学分必须大于 0")
	ErrTargetGPAOutOfBounds = errors.New("目标绩点必须在 0 到 4.0 之间")
)

// goalSnapshot 测算时的输入快照，随记录一同保存
type goalSnapshot struct {
	CurrentGPA       float64 `json:"current_gpa"`
	CurrentCredits   int     `json:"current_credits"`
	TargetGPA        float64 `json:"target_gpa"`
	RemainingCredits int     `json:"remaining_credits"`
	Feasibility      string  `json:"feasibility"`
}

// GoalService 目标绩点测算业务接口
type GoalService interface {
	// Project 基于当前总评测算达成目标所需的剩余课程平均绩点并保存
	Project(ctx context.Context, userID string, req *dto.ProjectionRequest) (*dto.GoalResponse, error)
	GetLatest(ctx context.Context, userID string) (*dto.GoalResponse, error)
}

type goalService struct {
	repo     *repository.Repository
	overview *overviewCalculator
	logger   *zap.Logger
}

// NewGoalService 创建 GoalService 实例
func NewGoalService(repo *repository.Repository, overview *overviewCalculator, logger *zap.Logger) GoalService {
	return &goalService{repo: repo, overview: overview, logger: logger}
}

// ────────────────────── Project ──────────────────────

func (s *goalService) Project(ctx context.Context, userID string, req *dto.ProjectionRequest) (*dto.GoalResponse, error) {
	if req.TargetGPA == nil || *req.TargetGPA < 0 || *req.TargetGPA > gpa.MaxPoint {
		return nil, ErrTargetGPAOutOfBounds
	}
	target := *req.TargetGPA

	current, err := s.overview.Get(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	required, err := gpa.RequiredGPA(current.OverallGPA, current.TotalCredits, target, req.RemainingCredits)
	if err != nil {
		if errors.Is(err, gpa.ErrNoRemainingCredits) {
			return nil, ErrNoRemainingCredits
		}
		return nil, err
	}
	feasibility := gpa.ClassifyRequirement(required)

	snapshot, err := json.Marshal(goalSnapshot{
		CurrentGPA:       current.OverallGPA,
		CurrentCredits:   current.TotalCredits,
		TargetGPA:        target,
		RemainingCredits: req.RemainingCredits,
		Feasibility:      string(feasibility),
	})
	if err != nil {
		return nil, err
	}

	goal := &model.GPAGoal{
		UserID:           userID,
		TargetGPA:        target,
		RemainingCredits: req.RemainingCredits,
		RequiredGPA:      required,
		Snapshot:         datatypes.JSON(snapshot),
	}
	if err := s.repo.Goal.Create(ctx, goal); err != nil {
		s.logger.Error("保存目标绩点失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return s.toGoalResponse(goal), nil
}

// ────────────────────── GetLatest ──────────────────────

func (s *goalService) GetLatest(ctx context.Context, userID string) (*dto.GoalResponse, error) {
	goal, err := s.repo.Goal.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		s.logger.Error("查询目标绩点失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return s.toGoalResponse(goal), nil
}

// ── 内部辅助方法 ──

// toGoalResponse 当前总评取自记录快照，反映测算当时的输入。
// 快照损坏时记录错误并按零值总评返回。
func (s *goalService) toGoalResponse(goal *model.GPAGoal) *dto.GoalResponse {
	var snap goalSnapshot
	if len(goal.Snapshot) > 0 {
		if err := json.Unmarshal(goal.Snapshot, &snap); err != nil {
			s.logger.Error("解析目标绩点快照失败", zap.String("goal_id", goal.GoalID), zap.Error(err))
		}
	}

	feasibility := gpa.ClassifyRequirement(goal.RequiredGPA)
	return &dto.GoalResponse{
		ID:               goal.GoalID,
		TargetGPA:        goal.TargetGPA,
		RemainingCredits: goal.RemainingCredits,
		RequiredGPA:      goal.RequiredGPA,
		Feasibility:      string(feasibility),
		Message:          feasibility.Message(),
		CurrentGPA:       snap.CurrentGPA,
		CurrentCredits:   snap.CurrentCredits,
		TotalCredits:     snap.CurrentCredits + goal.RemainingCredits,
		CreatedAt:        formatTime(goal.CreatedAt),
	}
}
