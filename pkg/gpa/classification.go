package gpa

// Classification 学位等级
type Classification struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MinGPA      float64 `json:"min_gpa"`
}

// classifications 按 MinGPA 降序排列
var classifications = []Classification{
	{Name: "First Class Honours", Description: "Excellent academic performance", MinGPA: 3.7},
	{Name: "Second Class Upper", Description: "Very good academic performance", MinGPA: 3.3},
	{Name: "Second Class Lower", Description: "Good academic performance", MinGPA: 3.0},
	{Name: "General Pass", Description: "Satisfactory academic performance", MinGPA: 2.0},
	{Name: "Below Pass", Description: "Needs significant improvement", MinGPA: 0},
}

// Classify 返回 GPA 所属的学位等级；负值落入最低档
func Classify(v float64) Classification {
	for _, c := range classifications {
		if v >= c.MinGPA {
			return c
		}
	}
	return classifications[len(classifications)-1]
}

// Classifications 返回全部等级（副本），用于报告中的评分标准说明
func Classifications() []Classification {
	out := make([]Classification, len(classifications))
	copy(out, classifications)
	return out
}

// Standing 总评状态文案
func Standing(v float64) string {
	switch {
	case v >= 3.7:
		return "Excellent"
	case v >= 3.3:
		return "Good"
	case v >= 3.0:
		return "Satisfactory"
	case v >= 2.0:
		return "Needs Improvement"
	default:
		return "Critical"
	}
}
