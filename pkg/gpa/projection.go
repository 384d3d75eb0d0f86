package gpa

import "errors"

// ErrNoRemainingCredits 剩余学分必须大于 0
var ErrNoRemainingCredits = errors.New("剩余学分必须大于 0")

// RequiredGPA 计算剩余学分上需要达到的平均绩点。
//
// 结果不做 [0,4] 截断：大于 4.0 表示目标不可达，小于 0 表示目标已超额完成。
func RequiredGPA(currentGPA float64, currentCredits int, targetGPA float64, remainingCredits int) (float64, error) {
	if remainingCredits <= 0 {
		return 0, ErrNoRemainingCredits
	}
	total := float64(currentCredits + remainingCredits)
	requiredPoints := targetGPA*total - currentGPA*float64(currentCredits)
	return Round2(requiredPoints / float64(remainingCredits)), nil
}

// Feasibility 目标可达性分级
type Feasibility string

const (
	FeasibilityNotAchievable Feasibility = "not_achievable"
	FeasibilityChallenging   Feasibility = "challenging"
	FeasibilityAchievable    Feasibility = "achievable"
	FeasibilityEasy          Feasibility = "easily_achievable"
)

var feasibilityMessages = map[Feasibility]string{
	FeasibilityNotAchievable: "Target not achievable with current grading system",
	FeasibilityChallenging:   "Challenging but achievable with excellent grades",
	FeasibilityAchievable:    "Achievable with good performance",
	FeasibilityEasy:          "Easily achievable",
}

// ClassifyRequirement 按阈值 >4.0 / >3.5 / >3.0 对所需绩点分级
func ClassifyRequirement(required float64) Feasibility {
	switch {
	case required > 4.0:
		return FeasibilityNotAchievable
	case required > 3.5:
		return FeasibilityChallenging
	case required > 3.0:
		return FeasibilityAchievable
	default:
		return FeasibilityEasy
	}
}

// Message 分级对应的提示文案
func (f Feasibility) Message() string {
	return feasibilityMessages[f]
}
