package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/model"
	"gpa-tracker/internal/repository"
	pkgerrors "gpa-tracker/pkg/errors"
	"gpa-tracker/pkg/gpa"
)

// ── 学期/课程模块业务错误 ──

var (
	ErrSemesterNotFound  = errors.New("学期不存在")
	ErrCourseNotFound    = errors.New("课程不存在")
	ErrInvalidGrade      = errors.New("成绩不在绩点表内")
	ErrInvalidCredits    = errors.New("学分必须为正整数")
	ErrSemesterNameEmpty = errors.New("学期名称不能为空")
	ErrCourseNameEmpty   = errors.New("课程名称不能为空")
)

// SemesterService 学期、课程与总评业务接口
//
// 课程的任何变更都会在同一事务内重算所属学期的 gpa / total_credits，
// 提交后失效总评缓存并返回最新总评。
type SemesterService interface {
	ListSemesters(ctx context.Context, userID string) (*dto.SemesterListResponse, error)
	GetSemester(ctx context.Context, userID, id string) (*dto.SemesterResponse, error)
	CreateSemester(ctx context.Context, userID string, req *dto.CreateSemesterRequest) (*dto.SemesterMutationResponse, error)
	UpdateSemester(ctx context.Context, userID, id string, req *dto.UpdateSemesterRequest) (*dto.SemesterMutationResponse, error)
	DeleteSemester(ctx context.Context, userID, id string) (*dto.SemesterMutationResponse, error)

	AddCourse(ctx context.Context, userID, semesterID string, req *dto.CreateCourseRequest) (*dto.SemesterMutationResponse, error)
	UpdateCourse(ctx context.Context, userID, semesterID, courseID string, req *dto.UpdateCourseRequest) (*dto.SemesterMutationResponse, error)
	DeleteCourse(ctx context.Context, userID, semesterID, courseID string) (*dto.SemesterMutationResponse, error)

	GetOverview(ctx context.Context, userID string) (*dto.OverviewResponse, error)
	GradeScale() *dto.GradeScaleResponse
}

type semesterService struct {
	repo     *repository.Repository
	overview *overviewCalculator
	logger   *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, overview *overviewCalculator, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, overview: overview, logger: logger}
}

// ────────────────────── List / Get ──────────────────────

func (s *semesterService) ListSemesters(ctx context.Context, userID string) (*dto.SemesterListResponse, error) {
	semesters, err := s.repo.Semester.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出学期失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	overview, err := s.overview.Get(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}
	return &dto.SemesterListResponse{List: result, Overview: overview}, nil
}

func (s *semesterService) GetSemester(ctx context.Context, userID, id string) (*dto.SemesterResponse, error) {
	semester, err := loadOwnedSemester(ctx, s.repo, s.logger, userID, id)
	if err != nil {
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// ────────────────────── Create ──────────────────────

func (s *semesterService) CreateSemester(ctx context.Context, userID string, req *dto.CreateSemesterRequest) (*dto.SemesterMutationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSemesterNameEmpty
	}
	semester := &model.Semester{
		UserID: userID,
		Name:   name,
	}
	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}

	return s.afterMutation(ctx, userID, semester.SemesterID)
}

// ────────────────────── Update ──────────────────────

func (s *semesterService) UpdateSemester(ctx context.Context, userID, id string, req *dto.UpdateSemesterRequest) (*dto.SemesterMutationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSemesterNameEmpty
	}
	semester, err := loadOwnedSemester(ctx, s.repo, s.logger, userID, id)
	if err != nil {
		return nil, err
	}

	semester.Name = name
	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		s.logger.Error("更新学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.afterMutation(ctx, userID, id)
}

// ────────────────────── Delete ──────────────────────

func (s *semesterService) DeleteSemester(ctx context.Context, userID, id string) (*dto.SemesterMutationResponse, error) {
	if _, err := loadOwnedSemester(ctx, s.repo, s.logger, userID, id); err != nil {
		return nil, err
	}

	if err := s.repo.Semester.Delete(ctx, id); err != nil {
		s.logger.Error("删除学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.afterMutation(ctx, userID, "")
}

// ────────────────────── Courses ──────────────────────

func (s *semesterService) AddCourse(ctx context.Context, userID, semesterID string, req *dto.CreateCourseRequest) (*dto.SemesterMutationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCourseNameEmpty
	}
	if err := validateCourse(req.Credits, req.Grade); err != nil {
		return nil, err
	}

	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if _, err := lockOwnedSemester(ctx, txRepo, s.logger, userID, semesterID); err != nil {
			return err
		}
		course := &model.Course{
			SemesterID: semesterID,
			Name:       name,
			Credits:    req.Credits,
			Grade:      req.Grade,
		}
		if err := txRepo.Course.Create(ctx, course); err != nil {
			s.logger.Error("创建课程失败", zap.Error(err))
			return err
		}
		return recomputeSemester(ctx, txRepo, s.logger, semesterID)
	})
	if err != nil {
		return nil, err
	}

	return s.afterMutation(ctx, userID, semesterID)
}

func (s *semesterService) UpdateCourse(ctx context.Context, userID, semesterID, courseID string, req *dto.UpdateCourseRequest) (*dto.SemesterMutationResponse, error) {
	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if _, err := lockOwnedSemester(ctx, txRepo, s.logger, userID, semesterID); err != nil {
			return err
		}
		course, err := loadSemesterCourse(ctx, txRepo, s.logger, semesterID, courseID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			course.Name = strings.TrimSpace(*req.Name)
			if course.Name == "" {
				return ErrCourseNameEmpty
			}
		}
		if req.Credits != nil {
			course.Credits = *req.Credits
		}
		if req.Grade != nil {
			course.Grade = *req.Grade
		}
		if err := validateCourse(course.Credits, course.Grade); err != nil {
			return err
		}

		if err := txRepo.Course.Update(ctx, course); err != nil {
			s.logger.Error("更新课程失败", zap.String("id", courseID), zap.Error(err))
			return err
		}
		return recomputeSemester(ctx, txRepo, s.logger, semesterID)
	})
	if err != nil {
		return nil, err
	}

	return s.afterMutation(ctx, userID, semesterID)
}

func (s *semesterService) DeleteCourse(ctx context.Context, userID, semesterID, courseID string) (*dto.SemesterMutationResponse, error) {
	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if _, err := lockOwnedSemester(ctx, txRepo, s.logger, userID, semesterID); err != nil {
			return err
		}
		if _, err := loadSemesterCourse(ctx, txRepo, s.logger, semesterID, courseID); err != nil {
			return err
		}
		if err := txRepo.Course.Delete(ctx, courseID); err != nil {
			s.logger.Error("删除课程失败", zap.String("id", courseID), zap.Error(err))
			return err
		}
		return recomputeSemester(ctx, txRepo, s.logger, semesterID)
	})
	if err != nil {
		return nil, err
	}

	return s.afterMutation(ctx, userID, semesterID)
}

// ────────────────────── Overview ──────────────────────

func (s *semesterService) GetOverview(ctx context.Context, userID string) (*dto.OverviewResponse, error) {
	return s.overview.Get(ctx, s.repo, userID)
}

func (s *semesterService) GradeScale() *dto.GradeScaleResponse {
	return &dto.GradeScaleResponse{
		Scale:           gpa.Scale(),
		Classifications: gpa.Classifications(),
	}
}

// ── 内部辅助方法 ──

func (s *semesterService) afterMutation(ctx context.Context, userID, semesterID string) (*dto.SemesterMutationResponse, error) {
	return mutationResult(ctx, s.repo, s.overview, s.logger, userID, semesterID)
}

// mutationResult 失效缓存并返回变更后的学期（semesterID 为空时仅返回总评）
func mutationResult(
	ctx context.Context,
	repo *repository.Repository,
	overview *overviewCalculator,
	logger *zap.Logger,
	userID, semesterID string,
) (*dto.SemesterMutationResponse, error) {
	overview.Invalidate(ctx, userID)

	resp := &dto.SemesterMutationResponse{}
	if semesterID != "" {
		semester, err := repo.Semester.GetByID(ctx, semesterID)
		if err != nil {
			logger.Error("查询学期失败", zap.String("id", semesterID), zap.Error(err))
			return nil, err
		}
		resp.Semester = toSemesterResponse(semester)
	}

	summary, err := overview.Get(ctx, repo, userID)
	if err != nil {
		return nil, err
	}
	resp.Overview = summary
	return resp, nil
}

// loadOwnedSemester 查询属于 userID 的学期，他人学期按不存在处理
func loadOwnedSemester(ctx context.Context, repo *repository.Repository, logger *zap.Logger, userID, id string) (*model.Semester, error) {
	semester, err := repo.Semester.GetByID(ctx, id)
	return checkOwnedSemester(semester, err, logger, userID, id)
}

// lockOwnedSemester 同 loadOwnedSemester，但锁定学期行。
// 课程变更事务必须先持有该锁再读取课程，否则并发重算会互相覆盖学期汇总。
func lockOwnedSemester(ctx context.Context, txRepo *repository.Repository, logger *zap.Logger, userID, id string) (*model.Semester, error) {
	semester, err := txRepo.Semester.GetByIDForUpdate(ctx, id)
	return checkOwnedSemester(semester, err, logger, userID, id)
}

func checkOwnedSemester(semester *model.Semester, err error, logger *zap.Logger, userID, id string) (*model.Semester, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if semester.UserID != userID {
		return nil, fmt.Errorf("%w: %w", ErrSemesterNotFound, pkgerrors.ErrNotOwner)
	}
	return semester, nil
}

func loadSemesterCourse(ctx context.Context, repo *repository.Repository, logger *zap.Logger, semesterID, courseID string) (*model.Course, error) {
	course, err := repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		logger.Error("查询课程失败", zap.String("id", courseID), zap.Error(err))
		return nil, err
	}
	if course.SemesterID != semesterID {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// recomputeSemester 按当前课程重算学期派生字段并落库
func recomputeSemester(ctx context.Context, repo *repository.Repository, logger *zap.Logger, semesterID string) error {
	courses, err := repo.Course.ListBySemester(ctx, semesterID)
	if err != nil {
		logger.Error("查询学期课程失败", zap.String("semester_id", semesterID), zap.Error(err))
		return err
	}

	term := gpa.Recompute(toTerm(semesterID, courses))
	if err := repo.Semester.UpdateTotals(ctx, semesterID, term.GPA, term.TotalCredits); err != nil {
		logger.Error("更新学期汇总失败", zap.String("semester_id", semesterID), zap.Error(err))
		return err
	}
	return nil
}

func validateCourse(credits int, grade string) error {
	if credits <= 0 {
		return ErrInvalidCredits
	}
	if !gpa.IsValid(grade) {
		return ErrInvalidGrade
	}
	return nil
}

func toTerm(semesterID string, courses []model.Course) gpa.Term {
	term := gpa.Term{ID: semesterID, Courses: make([]gpa.Course, 0, len(courses))}
	for _, c := range courses {
		term.Courses = append(term.Courses, gpa.Course{
			ID:      c.CourseID,
			Name:    c.Name,
			Credits: c.Credits,
			Grade:   gpa.Grade(c.Grade),
		})
	}
	return term
}

func toSemesterResponse(semester *model.Semester) *dto.SemesterResponse {
	courses := make([]dto.CourseResponse, 0, len(semester.Courses))
	for _, c := range semester.Courses {
		courses = append(courses, toCourseResponse(&c))
	}
	return &dto.SemesterResponse{
		ID:           semester.SemesterID,
		Name:         semester.Name,
		GPA:          semester.GPA,
		TotalCredits: semester.TotalCredits,
		Courses:      courses,
		CreatedAt:    formatTime(semester.CreatedAt),
		UpdatedAt:    formatTime(semester.UpdatedAt),
	}
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	point, _ := gpa.Point(gpa.Grade(c.Grade))
	return dto.CourseResponse{
		ID:            c.CourseID,
		Name:          c.Name,
		Credits:       c.Credits,
		Grade:         c.Grade,
		GradePoint:    point,
		QualityPoints: gpa.Round2(float64(c.Credits) * point),
	}
}
