package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"gpa-tracker/internal/dto"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, SemesterService, PlannedModuleService, *testEnv) {
	env := newTestEnv()
	return NewExportService(testConfig(), env.repo, env.overview, env.logger),
		NewSemesterService(env.repo, env.overview, env.logger),
		NewPlannedModuleService(env.repo, env.overview, env.logger),
		env
}

func sampleImport() *dto.ExportData {
	return &dto.ExportData{
		Semesters: []dto.ExportSemester{
			{
				Name: "Fall 2024",
				GPA:  1.11, // 导入时忽略
				Courses: []dto.ExportCourse{
					{Name: "Calculus", Credits: 3, Grade: "A"},
					{Name: "Physics", Credits: 4, Grade: "b"},
					{Name: "Seminar", Credits: 2, Grade: ""},
				},
			},
			{
				Name: "Spring 2025",
				Courses: []dto.ExportCourse{
					{Name: "Chemistry", Credits: 3, Grade: "B"},
				},
			},
		},
		PlannedModules: []dto.ExportPlannedModule{
			{Name: "Thesis", Credits: 10, Semester: "Fall 2025"},
		},
	}
}

// ── ImportJSON ──

func TestExportService_ImportJSON_Recomputes(t *testing.T) {
	svc, semSvc, _, _ := setupTestExportService()

	result, err := svc.ImportJSON(context.Background(), testUserID, sampleImport())
	if err != nil {
		t.Fatalf("ImportJSON 应成功: %v", err)
	}
	if result.Semesters != 2 || result.Courses != 3 {
		t.Errorf("期望 2 个学期 3 门课程，实际 %d/%d", result.Semesters, result.Courses)
	}
	if result.Ungraded != 1 || result.PlannedModules != 2 {
		t.Errorf("未评分课程应转入计划课程，实际 ungraded=%d planned=%d", result.Ungraded, result.PlannedModules)
	}

	list, _ := semSvc.ListSemesters(context.Background(), testUserID)
	if list.List[0].GPA != 3.43 || list.List[0].TotalCredits != 7 {
		t.Errorf("导入学期应按课程重算 3.43/7，实际 %v/%d", list.List[0].GPA, list.List[0].TotalCredits)
	}
	// (3.43*7 + 3.0*3) / 10 = 3.301
	if result.Overview.OverallGPA != 3.3 || result.Overview.TotalCredits != 10 {
		t.Errorf("期望总评 3.3/10，实际 %v/%d", result.Overview.OverallGPA, result.Overview.TotalCredits)
	}
}

func TestExportService_ImportJSON_ReplacesExisting(t *testing.T) {
	svc, semSvc, plannedSvc, env := setupTestExportService()
	semID := mustCreateSemester(t, semSvc, "Old")
	mustAddCourse(t, semSvc, semID, "Old course", 3, "F")
	_, _ = plannedSvc.Create(context.Background(), testUserID, &dto.CreatePlannedModuleRequest{Name: "Old plan", Credits: 2, Semester: "X"})

	if _, err := svc.ImportJSON(context.Background(), testUserID, sampleImport()); err != nil {
		t.Fatalf("ImportJSON 应成功: %v", err)
	}

	if _, ok := env.store.semesters[semID]; ok {
		t.Error("原有学期应被替换")
	}
	planned, _ := plannedSvc.List(context.Background(), testUserID)
	for _, m := range planned {
		if m.Name == "Old plan" {
			t.Error("原有计划课程应被替换")
		}
	}
}

func TestExportService_ImportJSON_EmptySemesterName(t *testing.T) {
	svc, _, _, env := setupTestExportService()
	data := &dto.ExportData{Semesters: []dto.ExportSemester{{Name: "  "}}}

	_, err := svc.ImportJSON(context.Background(), testUserID, data)
	if !errors.Is(err, ErrImportInvalid) {
		t.Errorf("期望 ErrImportInvalid，实际: %v", err)
	}
	if len(env.store.semesters) != 0 {
		t.Error("校验失败时不应写入数据")
	}
}

func TestExportService_ImportJSON_BlankNames(t *testing.T) {
	svc, _, _, env := setupTestExportService()

	blankCourse := sampleImport()
	blankCourse.Semesters[1].Courses[0].Name = "   "
	_, err := svc.ImportJSON(context.Background(), testUserID, blankCourse)
	if !errors.Is(err, ErrImportInvalid) {
		t.Errorf("空白课程名期望 ErrImportInvalid，实际: %v", err)
	}

	blankPlanned := sampleImport()
	blankPlanned.PlannedModules[0].Name = "   "
	_, err = svc.ImportJSON(context.Background(), testUserID, blankPlanned)
	if !errors.Is(err, ErrImportInvalid) {
		t.Errorf("空白计划课程名期望 ErrImportInvalid，实际: %v", err)
	}

	if len(env.store.semesters) != 0 || len(env.store.planned) != 0 {
		t.Error("校验失败时不应写入数据")
	}
}

// ── ExportJSON ──

func TestExportService_ExportImportRoundTrip(t *testing.T) {
	svc, _, _, _ := setupTestExportService()
	if _, err := svc.ImportJSON(context.Background(), testUserID, sampleImport()); err != nil {
		t.Fatalf("ImportJSON 应成功: %v", err)
	}

	first, err := svc.ExportJSON(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ExportJSON 应成功: %v", err)
	}
	if first.OverallGPA != 3.3 || first.TotalCredits != 10 {
		t.Errorf("导出总评不匹配: %v/%d", first.OverallGPA, first.TotalCredits)
	}
	if len(first.PlannedModules) != 2 {
		t.Errorf("期望导出 2 条计划课程，实际 %d", len(first.PlannedModules))
	}

	if _, err := svc.ImportJSON(context.Background(), testUserID, first); err != nil {
		t.Fatalf("再次导入应成功: %v", err)
	}
	second, _ := svc.ExportJSON(context.Background(), testUserID)

	if second.OverallGPA != first.OverallGPA || second.TotalCredits != first.TotalCredits {
		t.Errorf("导出→导入应幂等: %v/%d vs %v/%d", first.OverallGPA, first.TotalCredits, second.OverallGPA, second.TotalCredits)
	}
	if len(second.Semesters) != len(first.Semesters) || len(second.PlannedModules) != len(first.PlannedModules) {
		t.Error("导出→导入后记录数应一致")
	}
}

// ── ExportTranscript ──

func TestExportService_ExportTranscript(t *testing.T) {
	svc, _, _, _ := setupTestExportService()
	if _, err := svc.ImportJSON(context.Background(), testUserID, sampleImport()); err != nil {
		t.Fatalf("ImportJSON 应成功: %v", err)
	}

	buf, filename, err := svc.ExportTranscript(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ExportTranscript 应成功: %v", err)
	}
	if filename != "transcript_alice.xlsx" {
		t.Errorf("文件名不匹配: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件应可被 excelize 读取: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(scaleSheet); idx < 0 {
		t.Error("应包含绩点表 Sheet")
	}
	title, _ := f.GetCellValue(transcriptSheet, "A1")
	if title != "ACADEMIC TRANSCRIPT" {
		t.Errorf("抬头不匹配: %s", title)
	}
	student, _ := f.GetCellValue(transcriptSheet, "B3")
	if student != "Alice Smith" {
		t.Errorf("学生姓名不匹配: %s", student)
	}

	rows, _ := f.GetRows(transcriptSheet)
	found := false
	for _, r := range rows {
		if len(r) >= 4 && r[0] == "Physics" && r[3] == "12.00" {
			found = true
		}
	}
	if !found {
		t.Error("课程表中应包含 Physics 及其质量分 12.00")
	}
}

func TestExportService_ExportTranscript_UserNotFound(t *testing.T) {
	env := newTestEnv()
	svc := NewExportService(testConfig(), env.repo, env.overview, env.logger)

	_, _, err := svc.ExportTranscript(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
