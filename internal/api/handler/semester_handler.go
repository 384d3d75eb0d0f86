package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/service"
	"gpa-tracker/pkg/response"
)

// SemesterHandler 学期与课程模块 HTTP 处理器
type SemesterHandler struct {
	semesterSvc service.SemesterService
}

// NewSemesterHandler 创建 SemesterHandler
func NewSemesterHandler(semesterSvc service.SemesterService) *SemesterHandler {
	return &SemesterHandler{semesterSvc: semesterSvc}
}

// ListSemesters 获取学期列表（附带总评）
// GET /api/v1/semesters
func (h *SemesterHandler) ListSemesters(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.ListSemesters(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetSemester 获取学期详情
// GET /api/v1/semesters/:id
func (h *SemesterHandler) GetSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	semester, err := h.semesterSvc.GetSemester(c.Request.Context(), userID, id)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, semester)
}

// CreateSemester 创建学期
// POST /api/v1/semesters
func (h *SemesterHandler) CreateSemester(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.CreateSemester(c.Request.Context(), userID, &req)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateSemester 重命名学期
// PUT /api/v1/semesters/:id
func (h *SemesterHandler) UpdateSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.UpdateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.UpdateSemester(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteSemester 删除学期及其课程
// DELETE /api/v1/semesters/:id
func (h *SemesterHandler) DeleteSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.DeleteSemester(c.Request.Context(), userID, id)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── 课程 ──────────────────────

// AddCourse 向学期添加课程
// POST /api/v1/semesters/:id/courses
func (h *SemesterHandler) AddCourse(c *gin.Context) {
	semesterID := c.Param("id")
	if semesterID == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.AddCourse(c.Request.Context(), userID, semesterID, &req)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateCourse 修改课程
// PUT /api/v1/semesters/:id/courses/:course_id
func (h *SemesterHandler) UpdateCourse(c *gin.Context) {
	semesterID, courseID := c.Param("id"), c.Param("course_id")
	if semesterID == "" || courseID == "" {
		response.BadRequest(c, 10001, "学期ID与课程ID不能为空")
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.UpdateCourse(c.Request.Context(), userID, semesterID, courseID, &req)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteCourse 删除课程
// DELETE /api/v1/semesters/:id/courses/:course_id
func (h *SemesterHandler) DeleteCourse(c *gin.Context) {
	semesterID, courseID := c.Param("id"), c.Param("course_id")
	if semesterID == "" || courseID == "" {
		response.BadRequest(c, 10001, "学期ID与课程ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.semesterSvc.DeleteCourse(c.Request.Context(), userID, semesterID, courseID)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── 总评 ──────────────────────

// GetOverview 获取总评
// GET /api/v1/overview
func (h *SemesterHandler) GetOverview(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	overview, err := h.semesterSvc.GetOverview(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, overview)
}

// GradeScale 绩点表与学位等级
// GET /api/v1/grade-scale
func (h *SemesterHandler) GradeScale(c *gin.Context) {
	response.OK(c, h.semesterSvc.GradeScale())
}

// handleSemesterError 统一处理学期与课程业务错误
func handleSemesterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 14001, "学期不存在")
	case errors.Is(err, service.ErrSemesterNameEmpty):
		response.BadRequest(c, 14002, "学期名称不能为空")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 15001, "课程不存在")
	case errors.Is(err, service.ErrInvalidGrade):
		response.BadRequest(c, 15002, "成绩不在绩点表内")
	case errors.Is(err, service.ErrInvalidCredits):
		response.BadRequest(c, 15003, "学分必须为正整数")
	case errors.Is(err, service.ErrCourseNameEmpty):
		response.BadRequest(c, 15004, "课程名称不能为空")
	default:
		response.InternalError(c)
	}
}
