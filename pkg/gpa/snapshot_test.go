package gpa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustReduce(t *testing.T, s Snapshot, muts ...Mutation) Snapshot {
	t.Helper()
	var err error
	for _, m := range muts {
		s, err = Reduce(s, m)
		require.NoError(t, err)
	}
	return s
}

func TestReduce_AddTermStartsEmpty(t *testing.T) {
	s := mustReduce(t, Snapshot{}, AddTerm{ID: "t1", Name: "Fall 2024"})

	require.Len(t, s.Terms, 1)
	assert.Equal(t, "Fall 2024", s.Terms[0].Name)
	assert.Equal(t, 0.0, s.Terms[0].GPA)
	assert.Equal(t, 0, s.Terms[0].TotalCredits)
	assert.Equal(t, 0.0, s.OverallGPA)
}

func TestReduce_CourseMutationsRecompute(t *testing.T) {
	s := mustReduce(t, Snapshot{},
		AddTerm{ID: "t1", Name: "Fall"},
		AddCourse{TermID: "t1", Course: Course{ID: "c1", Name: "Calculus", Credits: 3, Grade: GradeA}},
		AddCourse{TermID: "t1", Course: Course{ID: "c2", Name: "Physics", Credits: 4, Grade: GradeB}},
	)
	assert.Equal(t, 3.43, s.Terms[0].GPA)
	assert.Equal(t, 7, s.Terms[0].TotalCredits)
	assert.Equal(t, 3.43, s.OverallGPA)
	assert.Equal(t, 7, s.TotalCredits)

	s = mustReduce(t, s, UpdateCourse{TermID: "t1", Course: Course{ID: "c2", Name: "Physics", Credits: 4, Grade: GradeA}})
	assert.Equal(t, 4.0, s.Terms[0].GPA)

	s = mustReduce(t, s, DeleteCourse{TermID: "t1", CourseID: "c1"})
	assert.Equal(t, 4, s.Terms[0].TotalCredits)
	assert.Equal(t, 4, s.TotalCredits)
}

func TestReduce_DeleteTermUpdatesOverall(t *testing.T) {
	s := mustReduce(t, Snapshot{},
		AddTerm{ID: "t1", Name: "Fall"},
		AddTerm{ID: "t2", Name: "Spring"},
		AddCourse{TermID: "t1", Course: Course{ID: "c1", Credits: 10, Grade: GradeA}},
		AddCourse{TermID: "t2", Course: Course{ID: "c2", Credits: 10, Grade: GradeB}},
	)
	assert.Equal(t, 3.5, s.OverallGPA)
	assert.Equal(t, 20, s.TotalCredits)

	s = mustReduce(t, s, DeleteTerm{ID: "t1"})
	require.Len(t, s.Terms, 1)
	assert.Equal(t, 3.0, s.OverallGPA)
	assert.Equal(t, 10, s.TotalCredits)
}

func TestReduce_DoesNotMutatePrevious(t *testing.T) {
	prev := mustReduce(t, Snapshot{},
		AddTerm{ID: "t1", Name: "Fall"},
		AddCourse{TermID: "t1", Course: Course{ID: "c1", Credits: 3, Grade: GradeA}},
	)
	next := mustReduce(t, prev,
		UpdateCourse{TermID: "t1", Course: Course{ID: "c1", Credits: 3, Grade: GradeF}},
		RenameTerm{ID: "t1", Name: "Autumn"},
	)

	assert.Equal(t, GradeA, prev.Terms[0].Courses[0].Grade)
	assert.Equal(t, "Fall", prev.Terms[0].Name)
	assert.Equal(t, 4.0, prev.OverallGPA)
	assert.Equal(t, 0.0, next.OverallGPA)
	assert.Equal(t, "Autumn", next.Terms[0].Name)
}

func TestReduce_Errors(t *testing.T) {
	s := mustReduce(t, Snapshot{}, AddTerm{ID: "t1", Name: "Fall"})

	_, err := Reduce(s, AddTerm{ID: "t1", Name: "dup"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = Reduce(s, RenameTerm{ID: "nope", Name: "x"})
	assert.ErrorIs(t, err, ErrTermNotFound)

	_, err = Reduce(s, AddCourse{TermID: "nope", Course: Course{ID: "c"}})
	assert.ErrorIs(t, err, ErrTermNotFound)

	_, err = Reduce(s, DeleteCourse{TermID: "t1", CourseID: "missing"})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = Reduce(s, UpdateCourse{TermID: "t1", Course: Course{ID: "missing"}})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

// 重复应用 Recompute 结果不变
func TestRecompute_Idempotent(t *testing.T) {
	term := Term{ID: "t1", Courses: []Course{
		{ID: "a", Credits: 3, Grade: GradeBMinus},
		{ID: "b", Credits: 2, Grade: GradeAMinus},
	}}
	once := Recompute(term)
	twice := Recompute(once)
	assert.Equal(t, once, twice)
}
