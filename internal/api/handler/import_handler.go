package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

// ImportHandler 程序清单导入 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// Sync 从云端表格同步程序清单
// POST /api/v1/import/sync
// body 可省略；省略时用配置里的默认表格地址
func (h *ImportHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	imported, err := h.importSvc.SyncFromCloud(c.Request.Context(), req.URL)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, dto.SyncResponse{Imported: imported})
}

// Upload 上传 CSV 文件导入程序清单
// POST /api/v1/import/upload（multipart 字段名 file）
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "无法读取上传文件")
		return
	}
	defer f.Close()

	imported, err := h.importSvc.ImportFromReader(c.Request.Context(), f)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, dto.SyncResponse{Imported: imported})
}

// handleImportError 统一处理导入模块业务错误
// 空数据是软警告：现有集合未被触碰，前端仅提示
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSyncNoData):
		response.Warning(c, "云端表格没有可导入的程序数据")
	default:
		response.ErrorWithDetails(c, http.StatusBadGateway, 15001, "同步程序清单失败", err.Error())
	}
}
