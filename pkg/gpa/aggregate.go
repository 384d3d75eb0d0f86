package gpa

// CourseInput 参与计算的一门已评分课程
type CourseInput struct {
	Credits int
	Grade   Grade
}

// Result 学期级聚合结果
type Result struct {
	GPA          float64 `json:"gpa"`
	TotalCredits int     `json:"total_credits"`
}

// TermInput 已聚合的学期结果，作为总评计算的输入
type TermInput struct {
	GPA          float64
	TotalCredits int
}

// Overall 全部学期的总评结果
type Overall struct {
	GPA          float64 `json:"overall_gpa"`
	TotalCredits int     `json:"total_credits"`
}

// Aggregate 按学分加权计算一组课程的 GPA。
//
// 未知成绩贡献 0 绩点但学分照常计入；未评分课程应由调用方在上游过滤。
// 空列表或总学分为 0 时返回零值。
func Aggregate(courses []CourseInput) Result {
	var (
		points  float64
		credits int
	)
	for _, c := range courses {
		p, _ := Point(c.Grade)
		points += p * float64(c.Credits)
		credits += c.Credits
	}
	if credits == 0 {
		return Result{}
	}
	return Result{
		GPA:          Round2(points / float64(credits)),
		TotalCredits: credits,
	}
}

// AggregateOverall 以各学期已舍入的 GPA 按学分重新加权得到总评。
//
// 不从课程明细重新推导，因此结果可能与直接汇总全部课程在第二位小数上有差异。
func AggregateOverall(terms []TermInput) Overall {
	var (
		points  float64
		credits int
	)
	for _, t := range terms {
		points += t.GPA * float64(t.TotalCredits)
		credits += t.TotalCredits
	}
	if credits == 0 {
		return Overall{}
	}
	return Overall{
		GPA:          Round2(points / float64(credits)),
		TotalCredits: credits,
	}
}
