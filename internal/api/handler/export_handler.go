package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportProcedureList 导出程序清单 Excel
// GET /api/v1/export/procedures
func (h *ExportHandler) ExportProcedureList(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportProcedureList(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownloadHeaders(c, filename, xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportPKP 导出指定阶段的 PKP PDF
// GET /api/v1/export/pkp?stage=Interim|Terinci
func (h *ExportHandler) ExportPKP(c *gin.Context) {
	stage := c.DefaultQuery("stage", model.StageTerinci)
	if stage != model.StageInterim && stage != model.StageTerinci {
		response.BadRequest(c, 10001, "stage 必须为 Interim 或 Terinci")
		return
	}

	buf, filename, err := h.exportSvc.ExportPKP(c.Request.Context(), stage)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownloadHeaders(c, filename, pdfContentType)
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}

// 设置下载响应头
func writeDownloadHeaders(c *gin.Context, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoProcedures):
		response.NotFound(c, 17001, "当前阶段没有已分配的程序可导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
