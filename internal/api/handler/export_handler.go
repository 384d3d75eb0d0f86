package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/service"
	"gpa-tracker/pkg/response"
)

// ExportHandler 导入导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportJSON 导出全部成绩数据
// GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, err := h.exportSvc.ExportJSON(c.Request.Context(), userID)
	if err != nil {
		handleExportError(c, err)
		return
	}

	if c.Query("download") == "1" {
		c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape("gpa_data.json"))
		c.JSON(http.StatusOK, data)
		return
	}
	response.OK(c, data)
}

// ImportJSON 导入成绩数据（整体替换）
// POST /api/v1/import/json
func (h *ExportHandler) ImportJSON(c *gin.Context) {
	var req dto.ExportData
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.exportSvc.ImportJSON(c.Request.Context(), userID, &req)
	if err != nil {
		handleExportError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportTranscript 导出 Excel 成绩单
// GET /api/v1/export/transcript
func (h *ExportHandler) ExportTranscript(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTranscript(c.Request.Context(), userID)
	if err != nil {
		handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 18001, "导入数据无效", err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 18002, "生成 Excel 文件失败")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, "用户不存在")
	default:
		response.InternalError(c)
	}
}
