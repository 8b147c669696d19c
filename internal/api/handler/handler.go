package handler

import "github.com/greymaverick/PKP-app/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Examiner   *ExaminerHandler
	Procedure  *ProcedureHandler
	Assignment *AssignmentHandler
	Import     *ImportHandler
	Snapshot   *SnapshotHandler
	Export     *ExportHandler
	Meta       *MetaHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Examiner:   NewExaminerHandler(svc.Examiner),
		Procedure:  NewProcedureHandler(svc.Procedure),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Import:     NewImportHandler(svc.Import),
		Snapshot:   NewSnapshotHandler(svc.Snapshot),
		Export:     NewExportHandler(svc.Export),
		Meta:       NewMetaHandler(svc.Meta),
	}
}
