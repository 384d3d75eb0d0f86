package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gpa-tracker/config"
	"gpa-tracker/internal/model"
	"gpa-tracker/internal/repository"
	"gpa-tracker/pkg/redis"
)

// ── 共享内存存储 ──
// 各 mock 仓储共享同一份数据，以模拟学期删除时课程的级联删除

type mockStore struct {
	seq int

	users        map[string]*model.User
	semesters    map[string]*model.Semester
	semesterSeq  []string
	courses      map[string]*model.Course
	courseSeq    []string
	planned      map[string]*model.PlannedModule
	plannedSeq   []string
	goals        []*model.GPAGoal
	failOnCreate bool     // 模拟写库失败
	locked       []string // GetByIDForUpdate 锁定过的学期 ID
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[string]*model.User),
		semesters: make(map[string]*model.Semester),
		courses:   make(map[string]*model.Course),
		planned:   make(map[string]*model.PlannedModule),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// now 按序递增的时间戳，保证创建顺序可比较
func (s *mockStore) now() time.Time {
	return time.Date(2025, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ── Mock UserRepository ──

type mockUserRepo struct{ store *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = m.store.nextID("user")
	}
	user.CreatedAt = m.store.now()
	cp := *user
	m.store.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.store.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.store.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.store.users[user.UserID] = &cp
	return nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct{ store *mockStore }

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if m.store.failOnCreate {
		return fmt.Errorf("mock: 写入失败")
	}
	if semester.SemesterID == "" {
		semester.SemesterID = m.store.nextID("sem")
	}
	semester.CreatedAt = m.store.now()
	cp := *semester
	cp.Courses = nil
	m.store.semesters[semester.SemesterID] = &cp
	m.store.semesterSeq = append(m.store.semesterSeq, semester.SemesterID)
	return nil
}

func (m *mockSemesterRepo) withCourses(s *model.Semester) model.Semester {
	cp := *s
	cp.Courses = nil
	for _, id := range m.store.courseSeq {
		if c := m.store.courses[id]; c.SemesterID == s.SemesterID {
			cp.Courses = append(cp.Courses, *c)
		}
	}
	return cp
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.store.semesters[id]; ok {
		cp := m.withCourses(s)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Semester, error) {
	s, ok := m.store.semesters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.store.locked = append(m.store.locked, id)
	cp := *s
	return &cp, nil
}

func (m *mockSemesterRepo) ListByUser(_ context.Context, userID string) ([]model.Semester, error) {
	var result []model.Semester
	for _, id := range m.store.semesterSeq {
		if s := m.store.semesters[id]; s.UserID == userID {
			result = append(result, m.withCourses(s))
		}
	}
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	if s, ok := m.store.semesters[semester.SemesterID]; ok {
		s.Name = semester.Name
	}
	return nil
}

func (m *mockSemesterRepo) UpdateTotals(_ context.Context, id string, gpa float64, totalCredits int) error {
	if s, ok := m.store.semesters[id]; ok {
		s.GPA = gpa
		s.TotalCredits = totalCredits
	}
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string) error {
	delete(m.store.semesters, id)
	m.store.semesterSeq = removeID(m.store.semesterSeq, id)
	for cid, c := range m.store.courses {
		if c.SemesterID == id {
			delete(m.store.courses, cid)
			m.store.courseSeq = removeID(m.store.courseSeq, cid)
		}
	}
	return nil
}

func (m *mockSemesterRepo) DeleteByUser(ctx context.Context, userID string) error {
	for id, s := range m.store.semesters {
		if s.UserID == userID {
			_ = m.Delete(ctx, id)
		}
	}
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ store *mockStore }

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = m.store.nextID("course")
	}
	course.CreatedAt = m.store.now()
	cp := *course
	m.store.courses[course.CourseID] = &cp
	m.store.courseSeq = append(m.store.courseSeq, course.CourseID)
	return nil
}

func (m *mockCourseRepo) BatchCreate(ctx context.Context, courses []model.Course) error {
	for i := range courses {
		if err := m.Create(ctx, &courses[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.store.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListBySemester(_ context.Context, semesterID string) ([]model.Course, error) {
	var result []model.Course
	for _, id := range m.store.courseSeq {
		if c := m.store.courses[id]; c.SemesterID == semesterID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	cp := *course
	m.store.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.store.courses, id)
	m.store.courseSeq = removeID(m.store.courseSeq, id)
	return nil
}

// ── Mock PlannedModuleRepository ──

type mockPlannedModuleRepo struct{ store *mockStore }

func (m *mockPlannedModuleRepo) Create(_ context.Context, pm *model.PlannedModule) error {
	if pm.ModuleID == "" {
		pm.ModuleID = m.store.nextID("pm")
	}
	pm.CreatedAt = m.store.now()
	cp := *pm
	m.store.planned[pm.ModuleID] = &cp
	m.store.plannedSeq = append(m.store.plannedSeq, pm.ModuleID)
	return nil
}

func (m *mockPlannedModuleRepo) BatchCreate(ctx context.Context, modules []model.PlannedModule) error {
	for i := range modules {
		if err := m.Create(ctx, &modules[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockPlannedModuleRepo) GetByID(_ context.Context, id string) (*model.PlannedModule, error) {
	if pm, ok := m.store.planned[id]; ok {
		cp := *pm
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlannedModuleRepo) ListByUser(_ context.Context, userID string) ([]model.PlannedModule, error) {
	var result []model.PlannedModule
	for _, id := range m.store.plannedSeq {
		if pm := m.store.planned[id]; pm.UserID == userID {
			result = append(result, *pm)
		}
	}
	return result, nil
}

func (m *mockPlannedModuleRepo) Delete(_ context.Context, id string) error {
	delete(m.store.planned, id)
	m.store.plannedSeq = removeID(m.store.plannedSeq, id)
	return nil
}

func (m *mockPlannedModuleRepo) DeleteByUser(ctx context.Context, userID string) error {
	for id, pm := range m.store.planned {
		if pm.UserID == userID {
			_ = m.Delete(ctx, id)
		}
	}
	return nil
}

// ── Mock GoalRepository ──

type mockGoalRepo struct{ store *mockStore }

func (m *mockGoalRepo) Create(_ context.Context, goal *model.GPAGoal) error {
	if goal.GoalID == "" {
		goal.GoalID = m.store.nextID("goal")
	}
	goal.CreatedAt = m.store.now()
	cp := *goal
	m.store.goals = append(m.store.goals, &cp)
	return nil
}

func (m *mockGoalRepo) GetLatestByUser(_ context.Context, userID string) (*model.GPAGoal, error) {
	for i := len(m.store.goals) - 1; i >= 0; i-- {
		if g := m.store.goals[i]; g.UserID == userID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock Redis（黑名单 + JSON 缓存）──

type mockCache struct {
	values      map[string][]byte
	blacklisted map[string]time.Duration
	deletes     int
}

func newMockCache() *mockCache {
	return &mockCache{
		values:      make(map[string][]byte),
		blacklisted: make(map[string]time.Duration),
	}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (m *mockCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	m.deletes++
	return nil
}

func (m *mockCache) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.blacklisted[jti] = ttl
	return nil
}

func (m *mockCache) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.blacklisted[jti]
	return ok, nil
}

// ── 测试装配 ──

const testUserID = "user-test"

// testEnv 基于 mock 仓储的 Service 测试环境
type testEnv struct {
	store    *mockStore
	repo     *repository.Repository
	cache    *mockCache
	overview *overviewCalculator
	logger   *zap.Logger
}

func newTestEnv() *testEnv {
	store := newMockStore()
	store.users[testUserID] = &model.User{UserID: testUserID, Username: "alice", FullName: "Alice Smith"}

	repo := &repository.Repository{
		User:          &mockUserRepo{store: store},
		Semester:      &mockSemesterRepo{store: store},
		Course:        &mockCourseRepo{store: store},
		PlannedModule: &mockPlannedModuleRepo{store: store},
		Goal:          &mockGoalRepo{store: store},
	}
	cache := newMockCache()
	logger := zap.NewNop()
	return &testEnv{
		store:    store,
		repo:     repo,
		cache:    cache,
		overview: newOverviewCalculator(cache, 10*time.Minute, logger),
		logger:   logger,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-tests",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Redis: config.RedisConfig{OverviewTTL: 10 * time.Minute},
		Report: config.ReportConfig{
			Title:     "ACADEMIC TRANSCRIPT",
			Generator: "GPA Tracker",
		},
	}
}
