package model

import "gorm.io/datatypes"

// GPAGoal 目标绩点记录表 — 对应 gpa_goals
type GPAGoal struct {
	GoalID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"goal_id"`
	UserID           string         `gorm:"type:uuid;not null;index"                       json:"user_id"`
	TargetGPA        float64        `gorm:"column:target_gpa;type:numeric(4,2);not null"   json:"target_gpa"`
	RemainingCredits int            `gorm:"not null"                                       json:"remaining_credits"`
	RequiredGPA      float64        `gorm:"column:required_gpa;type:numeric(6,2);not null" json:"required_gpa"`
	Snapshot         datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"               json:"snapshot"` // 计算时的总评输入
	BaseModel
}

// TableName 指定表名
func (GPAGoal) TableName() string { return "gpa_goals" }
