package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/service"
	"gpa-tracker/pkg/response"
)

// PlannedModuleHandler 计划课程模块 HTTP 处理器
type PlannedModuleHandler struct {
	plannedSvc service.PlannedModuleService
}

// NewPlannedModuleHandler 创建 PlannedModuleHandler
func NewPlannedModuleHandler(plannedSvc service.PlannedModuleService) *PlannedModuleHandler {
	return &PlannedModuleHandler{plannedSvc: plannedSvc}
}

// List 获取计划课程
// GET /api/v1/planned-modules
func (h *PlannedModuleHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.plannedSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.List(c, list)
}

// Create 添加计划课程
// POST /api/v1/planned-modules
func (h *PlannedModuleHandler) Create(c *gin.Context) {
	var req dto.CreatePlannedModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	module, err := h.plannedSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handlePlannedModuleError(c, err)
		return
	}

	response.Created(c, module)
}

// ReplaceAll 整体保存计划课程
// PUT /api/v1/planned-modules
func (h *PlannedModuleHandler) ReplaceAll(c *gin.Context) {
	var req dto.SavePlannedModulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.plannedSvc.ReplaceAll(c.Request.Context(), userID, &req)
	if err != nil {
		handlePlannedModuleError(c, err)
		return
	}

	response.List(c, list)
}

// Delete 删除计划课程
// DELETE /api/v1/planned-modules/:id
func (h *PlannedModuleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "计划课程ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.plannedSvc.Delete(c.Request.Context(), userID, id); err != nil {
		handlePlannedModuleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Complete 为计划课程评分并转入学期
// POST /api/v1/planned-modules/:id/complete
func (h *PlannedModuleHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "计划课程ID不能为空")
		return
	}

	var req dto.CompletePlannedModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.plannedSvc.Complete(c.Request.Context(), userID, id, &req)
	if err != nil {
		handlePlannedModuleError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportICS 从 ICS 课表导入计划课程
// POST /api/v1/planned-modules/import-ics
// Content-Type: multipart/form-data, 字段: file, semester, default_credits
func (h *PlannedModuleHandler) ImportICS(c *gin.Context) {
	var req dto.ImportICSRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 16004, "请上传 ICS 文件")
		return
	}
	defer file.Close()

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.plannedSvc.ImportICS(c.Request.Context(), userID, file, &req)
	if err != nil {
		handlePlannedModuleError(c, err)
		return
	}

	response.Created(c, result)
}

func handlePlannedModuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlannedModuleNotFound):
		response.NotFound(c, 16001, "计划课程不存在")
	case errors.Is(err, service.ErrICSParse):
		response.BadRequest(c, 16002, "ICS 格式解析失败")
	case errors.Is(err, service.ErrICSEmpty):
		response.BadRequest(c, 16003, "ICS 文件中没有可导入的课程")
	case errors.Is(err, service.ErrPlannedModuleNameEmpty):
		response.BadRequest(c, 16005, "计划课程名称不能为空")
	case errors.Is(err, service.ErrPlannedModuleSemesterEmpty):
		response.BadRequest(c, 16006, "计划学期标签不能为空")
	default:
		// 评分转入学期时复用学期模块错误码
		handleSemesterError(c, err)
	}
}
