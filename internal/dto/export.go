package dto

// ── 导入/导出 DTO ──
// JSON 字段名沿用前端导出文件格式（camelCase）

// ExportData 完整成绩数据
type ExportData struct {
	Semesters      []ExportSemester      `json:"semesters"      binding:"omitempty,dive"`
	OverallGPA     float64               `json:"overallGPA"`
	TotalCredits   int                   `json:"totalCredits"`
	PlannedModules []ExportPlannedModule `json:"plannedModules" binding:"omitempty,dive"`
}

// ExportSemester 学期
type ExportSemester struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name"         binding:"required,max=100"`
	GPA          float64        `json:"gpa"`
	TotalCredits int            `json:"totalCredits"`
	Courses      []ExportCourse `json:"courses"      binding:"omitempty,dive"`
}

// ExportCourse 课程；grade 为空或不在绩点表内时导入为计划课程
type ExportCourse struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"    binding:"required,max=200"`
	Credits int    `json:"credits" binding:"required,min=1,max=30"`
	Grade   string `json:"grade"`
}

// ExportPlannedModule 计划课程
type ExportPlannedModule struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"     binding:"required,max=200"`
	Credits  int    `json:"credits"  binding:"required,min=1,max=30"`
	Semester string `json:"semester" binding:"max=100"`
}

// ImportResponse 导入结果
type ImportResponse struct {
	Semesters      int              `json:"semesters"`
	Courses        int              `json:"courses"`
	PlannedModules int              `json:"planned_modules"`
	Ungraded       int              `json:"ungraded"` // 因未评分转入计划课程的数量
	Overview       OverviewResponse `json:"overview"`
}
