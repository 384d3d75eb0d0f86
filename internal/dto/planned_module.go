package dto

// ── 计划课程 DTO ──

// CreatePlannedModuleRequest 添加计划课程请求
type CreatePlannedModuleRequest struct {
	Name     string `json:"name"     binding:"required,max=200"`
	Credits  int    `json:"credits"  binding:"required,min=1,max=10"`
	Semester string `json:"semester" binding:"required,max=100"`
}

// SavePlannedModulesRequest 整体替换计划课程请求
type SavePlannedModulesRequest struct {
	Modules []CreatePlannedModuleRequest `json:"modules" binding:"omitempty,dive"`
}

// CompletePlannedModuleRequest 计划课程评分请求：转入指定学期
type CompletePlannedModuleRequest struct {
	SemesterID string `json:"semester_id" binding:"required"`
	Grade      string `json:"grade"       binding:"required,grade"`
}

// ImportICSRequest 从课表 ICS 导入计划课程（multipart 表单）
type ImportICSRequest struct {
	Semester       string `form:"semester"        binding:"required,max=100"`
	DefaultCredits int    `form:"default_credits" binding:"omitempty,min=1,max=10"`
}

// PlannedModuleResponse 计划课程响应
type PlannedModuleResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Credits   int    `json:"credits"`
	Semester  string `json:"semester"`
	CreatedAt string `json:"created_at"`
}

// ImportICSResponse ICS 导入结果
type ImportICSResponse struct {
	Imported int                     `json:"imported"`
	Skipped  int                     `json:"skipped"`
	List     []PlannedModuleResponse `json:"list"`
}
