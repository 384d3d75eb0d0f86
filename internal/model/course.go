package model

// Course 课程表 — 对应 courses（仅保存已评分课程）
type Course struct {
	CourseID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	SemesterID string `gorm:"type:uuid;not null;index"                       json:"semester_id"`
	Name       string `gorm:"type:varchar(200);not null"                     json:"name"`
	Credits    int    `gorm:"not null"                                       json:"credits"`
	Grade      string `gorm:"type:varchar(2);not null"                       json:"grade"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
