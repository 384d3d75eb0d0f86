package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/service"
	"gpa-tracker/pkg/response"
)

// GoalHandler 目标绩点模块 HTTP 处理器
type GoalHandler struct {
	goalSvc service.GoalService
}

// NewGoalHandler 创建 GoalHandler
func NewGoalHandler(goalSvc service.GoalService) *GoalHandler {
	return &GoalHandler{goalSvc: goalSvc}
}

// Project 测算达成目标所需绩点
// POST /api/v1/goals/projection
func (h *GoalHandler) Project(c *gin.Context) {
	var req dto.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.goalSvc.Project(c.Request.Context(), userID, &req)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	response.Created(c, result)
}

// GetLatest 获取最近一次测算
// GET /api/v1/goals
func (h *GoalHandler) GetLatest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.goalSvc.GetLatest(c.Request.Context(), userID)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	response.OK(c, result)
}

func handleGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		response.NotFound(c, 17001, "尚未设定目标绩点")
	case errors.Is(err, service.ErrNoRemainingCredits):
		response.BadRequest(c, 17002, "剩余学分必须大于 0")
	case errors.Is(err, service.ErrTargetGPAOutOfBounds):
		response.BadRequest(c, 17003, "目标绩点必须在 0 到 4.0 之间")
	default:
		response.InternalError(c)
	}
}
