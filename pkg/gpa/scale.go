package gpa

import "math"

// Grade 字母成绩
type Grade string

// 固定成绩档位（闭合枚举，不随院校变化）
const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeCPlus  Grade = "C+"
	GradeC      Grade = "C"
	GradeCMinus Grade = "C-"
	GradeDPlus  Grade = "D+"
	GradeD      Grade = "D"
	GradeF      Grade = "F"
)

// gradeOptions 按展示顺序排列的成绩档位
var gradeOptions = []Grade{
	GradeAPlus, GradeA, GradeAMinus,
	GradeBPlus, GradeB, GradeBMinus,
	GradeCPlus, GradeC, GradeCMinus,
	GradeDPlus, GradeD, GradeF,
}

// gradePoints 成绩 → 绩点映射，进程级常量，只读
var gradePoints = map[Grade]float64{
	GradeAPlus:  4.0,
	GradeA:      4.0,
	GradeAMinus: 3.7,
	GradeBPlus:  3.3,
	GradeB:      3.0,
	GradeBMinus: 2.7,
	GradeCPlus:  2.3,
	GradeC:      2.0,
	GradeCMinus: 1.7,
	GradeDPlus:  1.3,
	GradeD:      1.0,
	GradeF:      0.0,
}

// MaxPoint 满绩点
const MaxPoint = 4.0

// Point 返回成绩对应的绩点。
// 未知成绩按 0.0 计（宽松策略），第二个返回值标识成绩是否在枚举内。
func Point(g Grade) (float64, bool) {
	p, ok := gradePoints[g]
	return p, ok
}

// IsValid 判断成绩是否属于固定枚举
func IsValid(g string) bool {
	_, ok := gradePoints[Grade(g)]
	return ok
}

// Options 返回全部成绩档位（副本）
func Options() []Grade {
	out := make([]Grade, len(gradeOptions))
	copy(out, gradeOptions)
	return out
}

// ScaleEntry 绩点表中的一行
type ScaleEntry struct {
	Grade Grade   `json:"grade"`
	Point float64 `json:"point"`
}

// Scale 返回完整绩点表，顺序与 Options 一致
func Scale() []ScaleEntry {
	out := make([]ScaleEntry, 0, len(gradeOptions))
	for _, g := range gradeOptions {
		out = append(out, ScaleEntry{Grade: g, Point: gradePoints[g]})
	}
	return out
}

// Round2 保留两位小数，四舍五入（远离零）
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
