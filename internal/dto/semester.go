package dto

// ── 学期模块 DTO ──

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// UpdateSemesterRequest 更新学期请求（仅支持改名）
type UpdateSemesterRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	GPA          float64          `json:"gpa"`
	TotalCredits int              `json:"total_credits"`
	Courses      []CourseResponse `json:"courses"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

// SemesterListResponse 学期列表与总评
type SemesterListResponse struct {
	List     []SemesterResponse `json:"list"`
	Overview *OverviewResponse  `json:"overview"`
}

// ── 课程 DTO ──

// CreateCourseRequest 添加课程请求
type CreateCourseRequest struct {
	Name    string `json:"name"    binding:"required,max=200"`
	Credits int    `json:"credits" binding:"required,min=1,max=30"`
	Grade   string `json:"grade"   binding:"required,grade"`
}

// UpdateCourseRequest 更新课程请求（字段均可选）
type UpdateCourseRequest struct {
	Name    *string `json:"name"    binding:"omitempty,min=1,max=200"`
	Credits *int    `json:"credits" binding:"omitempty,min=1,max=30"`
	Grade   *string `json:"grade"   binding:"omitempty,grade"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Credits       int     `json:"credits"`
	Grade         string  `json:"grade"`
	GradePoint    float64 `json:"grade_point"`
	QualityPoints float64 `json:"quality_points"` // credits × grade_point
}

// SemesterMutationResponse 学期/课程变更后的结果：变更后的学期与重算后的总评
type SemesterMutationResponse struct {
	Semester *SemesterResponse `json:"semester,omitempty"`
	Overview *OverviewResponse `json:"overview"`
}
