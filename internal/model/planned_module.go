package model

// PlannedModule 计划课程表 — 对应 planned_modules
// 尚未评分的课程，评分后转入学期的 courses
type PlannedModule struct {
	ModuleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_id"`
	UserID   string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	Credits  int    `gorm:"not null"                                       json:"credits"`
	Semester string `gorm:"type:varchar(100);not null"                     json:"semester"` // 计划修读学期（自由文本）
	BaseModel
}

// TableName 指定表名
func (PlannedModule) TableName() string { return "planned_modules" }
