package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gpa-tracker/config"
	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/model"
	"gpa-tracker/internal/repository"
	"gpa-tracker/pkg/gpa"
)

// ── 导入/导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
	ErrImportInvalid      = errors.New("导入数据无效")
)

// ExportService 导入导出业务接口
//
//   - JSON 导出/导入沿用前端数据文件格式，导入为整体替换
//   - 导入时学期派生字段按课程重新计算，文件中的 gpa / totalCredits 仅作参考
//   - 成绩为空或不在绩点表内的课程转为计划课程，学期名作为计划学期
//   - 成绩单以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	ExportJSON(ctx context.Context, userID string) (*dto.ExportData, error)
	ImportJSON(ctx context.Context, userID string, data *dto.ExportData) (*dto.ImportResponse, error)
	// ExportTranscript 导出成绩单为 Excel，返回内容与建议文件名
	ExportTranscript(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg      *config.Config
	repo     *repository.Repository
	overview *overviewCalculator
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, overview *overviewCalculator, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, overview: overview, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportJSON
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportJSON(ctx context.Context, userID string) (*dto.ExportData, error) {
	semesters, err := s.repo.Semester.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询学期失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	planned, err := s.repo.PlannedModule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询计划课程失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	overview := buildOverview(semesters, planned)
	data := &dto.ExportData{
		Semesters:      make([]dto.ExportSemester, 0, len(semesters)),
		OverallGPA:     overview.OverallGPA,
		TotalCredits:   overview.TotalCredits,
		PlannedModules: make([]dto.ExportPlannedModule, 0, len(planned)),
	}

	for _, sem := range semesters {
		es := dto.ExportSemester{
			ID:           sem.SemesterID,
			Name:         sem.Name,
			GPA:          sem.GPA,
			TotalCredits: sem.TotalCredits,
			Courses:      make([]dto.ExportCourse, 0, len(sem.Courses)),
		}
		for _, c := range sem.Courses {
			es.Courses = append(es.Courses, dto.ExportCourse{
				ID:      c.CourseID,
				Name:    c.Name,
				Credits: c.Credits,
				Grade:   c.Grade,
			})
		}
		data.Semesters = append(data.Semesters, es)
	}

	for _, m := range planned {
		data.PlannedModules = append(data.PlannedModules, dto.ExportPlannedModule{
			ID:       m.ModuleID,
			Name:     m.Name,
			Credits:  m.Credits,
			Semester: m.Semester,
		})
	}

	return data, nil
}

// ═══════════════════════════════════════════════════════════
// ImportJSON
// ═══════════════════════════════════════════════════════════

func (s *exportService) ImportJSON(ctx context.Context, userID string, data *dto.ExportData) (*dto.ImportResponse, error) {
	snapshot, ungraded, err := buildImportSnapshot(data)
	if err != nil {
		return nil, err
	}

	planned := make([]model.PlannedModule, 0, len(data.PlannedModules)+len(ungraded))
	for i, m := range data.PlannedModules {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: 第 %d 个计划课程名称为空", ErrImportInvalid, i+1)
		}
		planned = append(planned, model.PlannedModule{
			UserID:   userID,
			Name:     name,
			Credits:  m.Credits,
			Semester: strings.TrimSpace(m.Semester),
		})
	}
	for _, m := range ungraded {
		m.UserID = userID
		planned = append(planned, m)
	}

	courseCount := 0
	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Semester.DeleteByUser(ctx, userID); err != nil {
			s.logger.Error("清空学期失败", zap.Error(err))
			return err
		}
		if err := txRepo.PlannedModule.DeleteByUser(ctx, userID); err != nil {
			s.logger.Error("清空计划课程失败", zap.Error(err))
			return err
		}

		for _, term := range snapshot.Terms {
			semester := &model.Semester{
				UserID:       userID,
				Name:         term.Name,
				GPA:          term.GPA,
				TotalCredits: term.TotalCredits,
			}
			if err := txRepo.Semester.Create(ctx, semester); err != nil {
				s.logger.Error("创建学期失败", zap.Error(err))
				return err
			}

			courses := make([]model.Course, 0, len(term.Courses))
			for _, c := range term.Courses {
				courses = append(courses, model.Course{
					SemesterID: semester.SemesterID,
					Name:       c.Name,
					Credits:    c.Credits,
					Grade:      string(c.Grade),
				})
			}
			if err := txRepo.Course.BatchCreate(ctx, courses); err != nil {
				s.logger.Error("批量创建课程失败", zap.Error(err))
				return err
			}
			courseCount += len(courses)
		}

		if err := txRepo.PlannedModule.BatchCreate(ctx, planned); err != nil {
			s.logger.Error("批量创建计划课程失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.overview.Invalidate(ctx, userID)
	overview, err := s.overview.Get(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("成绩数据导入完成",
		zap.String("user_id", userID),
		zap.Int("semesters", len(snapshot.Terms)),
		zap.Int("courses", courseCount),
		zap.Int("ungraded", len(ungraded)),
	)

	return &dto.ImportResponse{
		Semesters:      len(snapshot.Terms),
		Courses:        courseCount,
		PlannedModules: len(planned),
		Ungraded:       len(ungraded),
		Overview:       *overview,
	}, nil
}

// buildImportSnapshot 通过快照归约重建学期派生字段，并分离未评分课程
func buildImportSnapshot(data *dto.ExportData) (gpa.Snapshot, []model.PlannedModule, error) {
	var (
		snap     gpa.Snapshot
		ungraded []model.PlannedModule
		err      error
	)

	for i, sem := range data.Semesters {
		name := strings.TrimSpace(sem.Name)
		if name == "" {
			return gpa.Snapshot{}, nil, fmt.Errorf("%w: 第 %d 个学期名称为空", ErrImportInvalid, i+1)
		}

		termID := fmt.Sprintf("t%d", i)
		if snap, err = gpa.Reduce(snap, gpa.AddTerm{ID: termID, Name: name}); err != nil {
			return gpa.Snapshot{}, nil, err
		}

		for j, c := range sem.Courses {
			courseName := strings.TrimSpace(c.Name)
			if courseName == "" {
				return gpa.Snapshot{}, nil, fmt.Errorf("%w: 学期 %q 第 %d 门课程名称为空", ErrImportInvalid, name, j+1)
			}
			if c.Credits <= 0 {
				return gpa.Snapshot{}, nil, fmt.Errorf("%w: 课程 %q 学分无效", ErrImportInvalid, c.Name)
			}
			grade := strings.ToUpper(strings.TrimSpace(c.Grade))
			if !gpa.IsValid(grade) {
				ungraded = append(ungraded, model.PlannedModule{
					Name:     courseName,
					Credits:  c.Credits,
					Semester: name,
				})
				continue
			}

			course := gpa.Course{
				ID:      fmt.Sprintf("%s-c%d", termID, j),
				Name:    courseName,
				Credits: c.Credits,
				Grade:   gpa.Grade(grade),
			}
			if snap, err = gpa.Reduce(snap, gpa.AddCourse{TermID: termID, Course: course}); err != nil {
				return gpa.Snapshot{}, nil, err
			}
		}
	}

	return snap, ungraded, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTranscript
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Transcript"：抬头、学生信息、总评、评级标准、各学期课程表
//   - Sheet "Grade Scale"：固定绩点表

const (
	transcriptSheet = "Transcript"
	scaleSheet      = "Grade Scale"
)

func (s *exportService) ExportTranscript(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	// 1. 查询用户与成绩
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, "", err
	}
	semesters, err := s.repo.Semester.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, "", err
	}
	overview := buildOverview(semesters, nil)

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(transcriptSheet)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(transcriptSheet, "A", "A", 40)
	f.SetColWidth(transcriptSheet, "B", "D", 14)

	// 样式
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	sectionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 抬头
	row := 1
	f.SetCellValue(transcriptSheet, cell("A", row), s.cfg.Report.Title)
	f.MergeCell(transcriptSheet, cell("A", row), cell("D", row))
	f.SetCellStyle(transcriptSheet, cell("A", row), cell("D", row), titleStyle)
	row += 2

	// 学生信息
	studentName := user.FullName
	if studentName == "" {
		studentName = user.Username
	}
	row = writePairs(f, row, [][2]interface{}{
		{"Student", studentName},
		{"Generated", time.Now().Format("2006-01-02")},
		{"Semesters", len(semesters)},
	})
	row++

	// 总评
	f.SetCellValue(transcriptSheet, cell("A", row), "Overall Summary")
	f.SetCellStyle(transcriptSheet, cell("A", row), cell("A", row), sectionStyle)
	row++
	row = writePairs(f, row, [][2]interface{}{
		{"Overall GPA", fmt.Sprintf("%.2f", overview.OverallGPA)},
		{"Total Credits", overview.TotalCredits},
		{"Classification", overview.Classification.Name},
		{"", overview.Classification.Description},
	})
	row++

	// 评级标准
	f.SetCellValue(transcriptSheet, cell("A", row), "Grading Standards")
	f.SetCellStyle(transcriptSheet, cell("A", row), cell("A", row), sectionStyle)
	row++
	for _, c := range gpa.Classifications() {
		f.SetCellValue(transcriptSheet, cell("A", row), c.Name)
		f.SetCellValue(transcriptSheet, cell("B", row), fmt.Sprintf("≥ %.1f", c.MinGPA))
		row++
	}
	row++

	// 各学期课程表
	for _, sem := range semesters {
		f.SetCellValue(transcriptSheet, cell("A", row), sem.Name)
		f.SetCellStyle(transcriptSheet, cell("A", row), cell("A", row), sectionStyle)
		row++

		for i, h := range []string{"Course", "Credits", "Grade", "Points"} {
			f.SetCellValue(transcriptSheet, cell(colName(i), row), h)
		}
		f.SetCellStyle(transcriptSheet, cell("A", row), cell("D", row), headerStyle)
		row++

		for _, c := range sem.Courses {
			resp := toCourseResponse(&c)
			f.SetCellValue(transcriptSheet, cell("A", row), c.Name)
			f.SetCellValue(transcriptSheet, cell("B", row), c.Credits)
			f.SetCellValue(transcriptSheet, cell("C", row), c.Grade)
			f.SetCellValue(transcriptSheet, cell("D", row), fmt.Sprintf("%.2f", resp.QualityPoints))
			row++
		}

		f.SetCellValue(transcriptSheet, cell("A", row), "Semester GPA")
		f.SetCellValue(transcriptSheet, cell("B", row), sem.TotalCredits)
		f.SetCellValue(transcriptSheet, cell("D", row), fmt.Sprintf("%.2f", sem.GPA))
		f.SetCellStyle(transcriptSheet, cell("A", row), cell("A", row), sectionStyle)
		row += 2
	}

	f.SetCellValue(transcriptSheet, cell("A", row), "Generated by "+s.cfg.Report.Generator)

	// 绩点表
	f.NewSheet(scaleSheet)
	f.SetCellValue(scaleSheet, "A1", "Grade")
	f.SetCellValue(scaleSheet, "B1", "Grade Point")
	f.SetCellStyle(scaleSheet, "A1", "B1", headerStyle)
	for i, e := range gpa.Scale() {
		f.SetCellValue(scaleSheet, cell("A", i+2), string(e.Grade))
		f.SetCellValue(scaleSheet, cell("B", i+2), fmt.Sprintf("%.1f", e.Point))
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("transcript_%s.xlsx", user.Username)
	return buf, filename, nil
}

// ── 辅助函数 ──

// writePairs 逐行写入「标签 | 值」，返回下一个空行号
func writePairs(f *excelize.File, row int, pairs [][2]interface{}) int {
	for _, p := range pairs {
		f.SetCellValue(transcriptSheet, cell("A", row), p[0])
		f.SetCellValue(transcriptSheet, cell("B", row), p[1])
		row++
	}
	return row
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
