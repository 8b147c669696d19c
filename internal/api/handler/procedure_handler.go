package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

// ProcedureHandler 审计程序模块 HTTP 处理器
type ProcedureHandler struct {
	procedureSvc service.ProcedureService
}

// NewProcedureHandler 创建 ProcedureHandler
func NewProcedureHandler(procedureSvc service.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{procedureSvc: procedureSvc}
}

// ListProcedures 获取程序列表（集合顺序）
// GET /api/v1/procedures
func (h *ProcedureHandler) ListProcedures(c *gin.Context) {
	procedures, err := h.procedureSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": procedures})
}

// QueryProcedures 管理表视图（按列过滤 + 自然排序）
// POST /api/v1/procedures/query
func (h *ProcedureHandler) QueryProcedures(c *gin.Context) {
	var req dto.ProcedureQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	procedures, err := h.procedureSvc.Query(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": procedures})
}

// GetProcedure 获取程序详情
// GET /api/v1/procedures/:id
func (h *ProcedureHandler) GetProcedure(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "程序ID不能为空")
		return
	}

	procedure, err := h.procedureSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.OK(c, procedure)
}

// CreateProcedure 添加程序
// POST /api/v1/procedures
func (h *ProcedureHandler) CreateProcedure(c *gin.Context) {
	var req dto.CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	procedure, err := h.procedureSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.Created(c, procedure)
}

// UpdateProcedure 更新程序
// PUT /api/v1/procedures/:id
func (h *ProcedureHandler) UpdateProcedure(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "程序ID不能为空")
		return
	}

	var req dto.UpdateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	procedure, err := h.procedureSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.OK(c, procedure)
}

// DeleteProcedure 删除程序
// DELETE /api/v1/procedures/:id
func (h *ProcedureHandler) DeleteProcedure(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "程序ID不能为空")
		return
	}

	if err := h.procedureSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleActive 翻转启用状态（停用时强制移除分配）
// POST /api/v1/procedures/:id/toggle-active
func (h *ProcedureHandler) ToggleActive(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "程序ID不能为空")
		return
	}

	procedure, err := h.procedureSvc.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.OK(c, procedure)
}

// ToggleStage 翻转检查阶段
// POST /api/v1/procedures/:id/toggle-stage
func (h *ProcedureHandler) ToggleStage(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "程序ID不能为空")
		return
	}

	procedure, err := h.procedureSvc.ToggleStage(c.Request.Context(), id)
	if err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.OK(c, procedure)
}

// BulkSetActive 批量启/停用
// POST /api/v1/procedures/bulk/active
func (h *ProcedureHandler) BulkSetActive(c *gin.Context) {
	var req dto.BulkSetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.procedureSvc.BulkSetActive(c.Request.Context(), &req); err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.OK(c, nil)
}

// BulkSetStage 批量调整检查阶段
// POST /api/v1/procedures/bulk/stage
func (h *ProcedureHandler) BulkSetStage(c *gin.Context) {
	var req dto.BulkSetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.procedureSvc.BulkSetStage(c.Request.Context(), &req); err != nil {
		h.handleProcedureError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleProcedureError 统一处理程序模块业务错误
func (h *ProcedureHandler) handleProcedureError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProcedureNotFound):
		response.NotFound(c, 13001, "审计程序不存在")
	default:
		response.InternalError(c)
	}
}
