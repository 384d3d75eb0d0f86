package gpa

import "errors"

var (
	ErrTermNotFound   = errors.New("学期不存在")
	ErrCourseNotFound = errors.New("课程不存在")
	ErrDuplicateID    = errors.New("ID 已存在")
)

// Course 快照中的课程
type Course struct {
	ID      string
	Name    string
	Credits int
	Grade   Grade
}

// Term 快照中的学期，GPA 与 TotalCredits 为派生字段
type Term struct {
	ID           string
	Name         string
	Courses      []Course
	GPA          float64
	TotalCredits int
}

// Snapshot 成绩数据的不可变快照
type Snapshot struct {
	Terms        []Term
	OverallGPA   float64
	TotalCredits int
}

// Mutation 对快照的一次修改
type Mutation interface {
	mutation()
}

type (
	AddTerm struct {
		ID   string
		Name string
	}
	RenameTerm struct {
		ID   string
		Name string
	}
	DeleteTerm struct {
		ID string
	}
	AddCourse struct {
		TermID string
		Course Course
	}
	UpdateCourse struct {
		TermID string
		Course Course
	}
	DeleteCourse struct {
		TermID   string
		CourseID string
	}
)

func (AddTerm) mutation()      {}
func (RenameTerm) mutation()   {}
func (DeleteTerm) mutation()   {}
func (AddCourse) mutation()    {}
func (UpdateCourse) mutation() {}
func (DeleteCourse) mutation() {}

// Reduce 将修改应用到 prev 上并返回新快照。
//
// prev 不会被修改。受影响学期先重新聚合，随后重新计算总评，
// 返回的快照中派生字段总是与课程明细一致。
func Reduce(prev Snapshot, m Mutation) (Snapshot, error) {
	terms := cloneTerms(prev.Terms)

	switch mu := m.(type) {
	case AddTerm:
		if indexOfTerm(terms, mu.ID) >= 0 {
			return prev, ErrDuplicateID
		}
		terms = append(terms, Term{ID: mu.ID, Name: mu.Name})

	case RenameTerm:
		i := indexOfTerm(terms, mu.ID)
		if i < 0 {
			return prev, ErrTermNotFound
		}
		terms[i].Name = mu.Name

	case DeleteTerm:
		i := indexOfTerm(terms, mu.ID)
		if i < 0 {
			return prev, ErrTermNotFound
		}
		terms = append(terms[:i], terms[i+1:]...)

	case AddCourse:
		i := indexOfTerm(terms, mu.TermID)
		if i < 0 {
			return prev, ErrTermNotFound
		}
		if indexOfCourse(terms[i].Courses, mu.Course.ID) >= 0 {
			return prev, ErrDuplicateID
		}
		terms[i].Courses = append(terms[i].Courses, mu.Course)
		terms[i] = Recompute(terms[i])

	case UpdateCourse:
		i := indexOfTerm(terms, mu.TermID)
		if i < 0 {
			return prev, ErrTermNotFound
		}
		j := indexOfCourse(terms[i].Courses, mu.Course.ID)
		if j < 0 {
			return prev, ErrCourseNotFound
		}
		terms[i].Courses[j] = mu.Course
		terms[i] = Recompute(terms[i])

	case DeleteCourse:
		i := indexOfTerm(terms, mu.TermID)
		if i < 0 {
			return prev, ErrTermNotFound
		}
		j := indexOfCourse(terms[i].Courses, mu.CourseID)
		if j < 0 {
			return prev, ErrCourseNotFound
		}
		courses := terms[i].Courses
		terms[i].Courses = append(courses[:j], courses[j+1:]...)
		terms[i] = Recompute(terms[i])
	}

	return Build(terms), nil
}

// Build 由学期列表构造快照并计算总评（学期自身的派生字段保持不变）
func Build(terms []Term) Snapshot {
	inputs := make([]TermInput, 0, len(terms))
	for _, t := range terms {
		inputs = append(inputs, TermInput{GPA: t.GPA, TotalCredits: t.TotalCredits})
	}
	overall := AggregateOverall(inputs)
	return Snapshot{
		Terms:        terms,
		OverallGPA:   overall.GPA,
		TotalCredits: overall.TotalCredits,
	}
}

// Recompute 根据课程明细重新计算学期派生字段
func Recompute(t Term) Term {
	inputs := make([]CourseInput, 0, len(t.Courses))
	for _, c := range t.Courses {
		inputs = append(inputs, CourseInput{Credits: c.Credits, Grade: c.Grade})
	}
	r := Aggregate(inputs)
	t.GPA = r.GPA
	t.TotalCredits = r.TotalCredits
	return t
}

func cloneTerms(src []Term) []Term {
	out := make([]Term, len(src))
	for i, t := range src {
		out[i] = t
		out[i].Courses = append([]Course(nil), t.Courses...)
	}
	return out
}

func indexOfTerm(terms []Term, id string) int {
	for i := range terms {
		if terms[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfCourse(courses []Course, id string) int {
	for i := range courses {
		if courses[i].ID == id {
			return i
		}
	}
	return -1
}
