package model

// Semester 学期表 — 对应 semesters
// GPA / TotalCredits 为派生字段，随课程变更在同一事务内重算
type Semester struct {
	SemesterID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	UserID       string  `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	GPA          float64 `gorm:"column:gpa;type:numeric(4,2);not null;default:0" json:"gpa"`
	TotalCredits int     `gorm:"not null;default:0"                             json:"total_credits"`
	BaseModel

	// 关联
	Courses []Course `gorm:"foreignKey:SemesterID;references:SemesterID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }
