package dto

// ── 目标绩点 DTO ──

// ProjectionRequest 目标绩点测算请求
type ProjectionRequest struct {
	TargetGPA        *float64 `json:"target_gpa"        binding:"required,gte=0,lte=4"`
	RemainingCredits int      `json:"remaining_credits" binding:"required,min=1,max=1000"`
}

// GoalResponse 目标绩点测算结果
type GoalResponse struct {
	ID               string  `json:"id"`
	TargetGPA        float64 `json:"target_gpa"`
	RemainingCredits int     `json:"remaining_credits"`
	RequiredGPA      float64 `json:"required_gpa"`
	Feasibility      string  `json:"feasibility"`
	Message          string  `json:"message"`
	CurrentGPA       float64 `json:"current_gpa"`
	CurrentCredits   int     `json:"current_credits"`
	TotalCredits     int     `json:"total_credits"` // current + remaining
	CreatedAt        string  `json:"created_at"`
}
