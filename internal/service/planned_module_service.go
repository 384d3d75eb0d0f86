package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/model"
	"gpa-tracker/internal/repository"
	pkgerrors "gpa-tracker/pkg/errors"
)

// ── 计划课程模块业务错误 ──

var (
	ErrPlannedModuleNotFound      = errors.New("计划课程不存在")
	ErrICSEmpty                   = errors.New("ICS 文件中没有可导入的课程")
	ErrPlannedModuleNameEmpty     = errors.New("计划课程名称不能为空")
	ErrPlannedModuleSemesterEmpty = errors.New("计划学期标签不能为空")
)

// defaultICSCredits ICS 导入未指定学分时的默认值
const defaultICSCredits = 3

// PlannedModuleService 计划课程业务接口
type PlannedModuleService interface {
	List(ctx context.Context, userID string) ([]dto.PlannedModuleResponse, error)
	Create(ctx context.Context, userID string, req *dto.CreatePlannedModuleRequest) (*dto.PlannedModuleResponse, error)
	Delete(ctx context.Context, userID, id string) error
	// ReplaceAll 整体替换用户的计划课程
	ReplaceAll(ctx context.Context, userID string, req *dto.SavePlannedModulesRequest) ([]dto.PlannedModuleResponse, error)
	// Complete 为计划课程评分，转入指定学期并删除计划记录
	Complete(ctx context.Context, userID, id string, req *dto.CompletePlannedModuleRequest) (*dto.SemesterMutationResponse, error)
	ImportICS(ctx context.Context, userID string, reader io.Reader, req *dto.ImportICSRequest) (*dto.ImportICSResponse, error)
}

type plannedModuleService struct {
	repo     *repository.Repository
	overview *overviewCalculator
	logger   *zap.Logger
}

// NewPlannedModuleService 创建 PlannedModuleService 实例
func NewPlannedModuleService(repo *repository.Repository, overview *overviewCalculator, logger *zap.Logger) PlannedModuleService {
	return &plannedModuleService{repo: repo, overview: overview, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *plannedModuleService) List(ctx context.Context, userID string) ([]dto.PlannedModuleResponse, error) {
	modules, err := s.repo.PlannedModule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出计划课程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toPlannedModuleResponses(modules), nil
}

// ────────────────────── Create ──────────────────────

func (s *plannedModuleService) Create(ctx context.Context, userID string, req *dto.CreatePlannedModuleRequest) (*dto.PlannedModuleResponse, error) {
	m := &model.PlannedModule{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Credits:  req.Credits,
		Semester: strings.TrimSpace(req.Semester),
	}
	if err := validatePlannedModule(m); err != nil {
		return nil, err
	}
	if err := s.repo.PlannedModule.Create(ctx, m); err != nil {
		s.logger.Error("创建计划课程失败", zap.Error(err))
		return nil, err
	}

	s.overview.Invalidate(ctx, userID)
	resp := toPlannedModuleResponse(m)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *plannedModuleService) Delete(ctx context.Context, userID, id string) error {
	if _, err := loadOwnedPlannedModule(ctx, s.repo, s.logger, userID, id); err != nil {
		return err
	}
	if err := s.repo.PlannedModule.Delete(ctx, id); err != nil {
		s.logger.Error("删除计划课程失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.overview.Invalidate(ctx, userID)
	return nil
}

// ────────────────────── ReplaceAll ──────────────────────

func (s *plannedModuleService) ReplaceAll(ctx context.Context, userID string, req *dto.SavePlannedModulesRequest) ([]dto.PlannedModuleResponse, error) {
	modules := make([]model.PlannedModule, 0, len(req.Modules))
	for _, m := range req.Modules {
		pm := model.PlannedModule{
			UserID:   userID,
			Name:     strings.TrimSpace(m.Name),
			Credits:  m.Credits,
			Semester: strings.TrimSpace(m.Semester),
		}
		if err := validatePlannedModule(&pm); err != nil {
			return nil, err
		}
		modules = append(modules, pm)
	}

	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.PlannedModule.DeleteByUser(ctx, userID); err != nil {
			s.logger.Error("清空计划课程失败", zap.Error(err))
			return err
		}
		if err := txRepo.PlannedModule.BatchCreate(ctx, modules); err != nil {
			s.logger.Error("批量创建计划课程失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.overview.Invalidate(ctx, userID)
	return toPlannedModuleResponses(modules), nil
}

// ────────────────────── Complete ──────────────────────

func (s *plannedModuleService) Complete(ctx context.Context, userID, id string, req *dto.CompletePlannedModuleRequest) (*dto.SemesterMutationResponse, error) {
	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		m, err := loadOwnedPlannedModule(ctx, txRepo, s.logger, userID, id)
		if err != nil {
			return err
		}
		if err := validateCourse(m.Credits, req.Grade); err != nil {
			return err
		}
		if _, err := lockOwnedSemester(ctx, txRepo, s.logger, userID, req.SemesterID); err != nil {
			return err
		}

		course := &model.Course{
			SemesterID: req.SemesterID,
			Name:       m.Name,
			Credits:    m.Credits,
			Grade:      req.Grade,
		}
		if err := txRepo.Course.Create(ctx, course); err != nil {
			s.logger.Error("创建课程失败", zap.Error(err))
			return err
		}
		if err := txRepo.PlannedModule.Delete(ctx, id); err != nil {
			s.logger.Error("删除计划课程失败", zap.String("id", id), zap.Error(err))
			return err
		}
		return recomputeSemester(ctx, txRepo, s.logger, req.SemesterID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("计划课程已评分",
		zap.String("module_id", id),
		zap.String("semester_id", req.SemesterID),
	)
	return mutationResult(ctx, s.repo, s.overview, s.logger, userID, req.SemesterID)
}

// ────────────────────── ImportICS ──────────────────────

func (s *plannedModuleService) ImportICS(ctx context.Context, userID string, reader io.Reader, req *dto.ImportICSRequest) (*dto.ImportICSResponse, error) {
	label := strings.TrimSpace(req.Semester)
	if label == "" {
		return nil, ErrPlannedModuleSemesterEmpty
	}

	names, err := ParseICSCourseNames(reader)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrICSEmpty
	}

	existing, err := s.repo.PlannedModule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出计划课程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	planned := make(map[string]bool, len(existing))
	for _, m := range existing {
		planned[normalizeModuleName(m.Name)] = true
	}

	credits := req.DefaultCredits
	if credits <= 0 {
		credits = defaultICSCredits
	}

	var modules []model.PlannedModule
	for _, name := range names {
		if planned[normalizeModuleName(name)] {
			continue
		}
		modules = append(modules, model.PlannedModule{
			UserID:   userID,
			Name:     name,
			Credits:  credits,
			Semester: label,
		})
	}

	if err := s.repo.PlannedModule.BatchCreate(ctx, modules); err != nil {
		s.logger.Error("批量创建计划课程失败", zap.Error(err))
		return nil, err
	}

	s.overview.Invalidate(ctx, userID)
	s.logger.Info("ICS 导入计划课程完成",
		zap.String("user_id", userID),
		zap.Int("imported", len(modules)),
		zap.Int("skipped", len(names)-len(modules)),
	)

	return &dto.ImportICSResponse{
		Imported: len(modules),
		Skipped:  len(names) - len(modules),
		List:     toPlannedModuleResponses(modules),
	}, nil
}

// ── 内部辅助方法 ──

func loadOwnedPlannedModule(ctx context.Context, repo *repository.Repository, logger *zap.Logger, userID, id string) (*model.PlannedModule, error) {
	m, err := repo.PlannedModule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlannedModuleNotFound
		}
		logger.Error("查询计划课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if m.UserID != userID {
		return nil, fmt.Errorf("%w: %w", ErrPlannedModuleNotFound, pkgerrors.ErrNotOwner)
	}
	return m, nil
}

// validatePlannedModule 校验已去除首尾空格的计划课程
func validatePlannedModule(m *model.PlannedModule) error {
	if m.Name == "" {
		return ErrPlannedModuleNameEmpty
	}
	if m.Semester == "" {
		return ErrPlannedModuleSemesterEmpty
	}
	if m.Credits <= 0 {
		return ErrInvalidCredits
	}
	return nil
}

func toPlannedModuleResponse(m *model.PlannedModule) dto.PlannedModuleResponse {
	return dto.PlannedModuleResponse{
		ID:        m.ModuleID,
		Name:      m.Name,
		Credits:   m.Credits,
		Semester:  m.Semester,
		CreatedAt: formatTime(m.CreatedAt),
	}
}

func toPlannedModuleResponses(modules []model.PlannedModule) []dto.PlannedModuleResponse {
	result := make([]dto.PlannedModuleResponse, 0, len(modules))
	for i := range modules {
		result = append(result, toPlannedModuleResponse(&modules[i]))
	}
	return result
}
