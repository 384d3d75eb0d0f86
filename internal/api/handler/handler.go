package handler

import "gpa-tracker/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	Semester      *SemesterHandler
	PlannedModule *PlannedModuleHandler
	Goal          *GoalHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Semester:      NewSemesterHandler(svc.Semester),
		PlannedModule: NewPlannedModuleHandler(svc.PlannedModule),
		Goal:          NewGoalHandler(svc.Goal),
		Export:        NewExportHandler(svc.Export),
	}
}
