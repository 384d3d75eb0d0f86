package dto

import "gpa-tracker/pkg/gpa"

// OverviewResponse 总评
type OverviewResponse struct {
	OverallGPA     float64            `json:"overall_gpa"`
	TotalCredits   int                `json:"total_credits"`
	SemesterCount  int                `json:"semester_count"`
	Standing       string             `json:"standing"`
	Classification gpa.Classification `json:"classification"`
	PlannedCount   int                `json:"planned_count"`
	PlannedCredits int                `json:"planned_credits"`
}

// GradeScaleResponse 固定绩点表
type GradeScaleResponse struct {
	Scale           []gpa.ScaleEntry     `json:"scale"`
	Classifications []gpa.Classification `json:"classifications"`
}
