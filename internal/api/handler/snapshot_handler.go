package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

// SnapshotHandler 快照（.pkp 备份）HTTP 处理器
type SnapshotHandler struct {
	snapshotSvc service.SnapshotService
}

// NewSnapshotHandler 创建 SnapshotHandler
func NewSnapshotHandler(snapshotSvc service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotSvc: snapshotSvc}
}

// Export 导出完整工作状态
// GET /api/v1/snapshot/export
// 返回 JSON 内容与建议文件名，由前端落盘为 .pkp 文件
func (h *SnapshotHandler) Export(c *gin.Context) {
	result, err := h.snapshotSvc.Export(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Restore 用备份文件整体覆盖当前状态
// POST /api/v1/snapshot/restore
func (h *SnapshotHandler) Restore(c *gin.Context) {
	var snap dto.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		response.BadRequest(c, 10001, "备份文件不是合法 JSON")
		return
	}

	if err := h.snapshotSvc.Restore(c.Request.Context(), &snap); err != nil {
		if errors.Is(err, service.ErrSnapshotInvalid) {
			response.BadRequest(c, 16001, "备份文件格式无效")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
