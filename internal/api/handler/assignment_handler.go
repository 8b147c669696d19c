package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

// AssignmentHandler 分配看板模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// Board 分配看板整体视图
// GET /api/v1/assignments/board
func (h *AssignmentHandler) Board(c *gin.Context) {
	board, err := h.assignmentSvc.Board(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, board)
}

// Pool 未分配程序列表
// GET /api/v1/assignments/pool?include_inactive=true
func (h *AssignmentHandler) Pool(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	procedures, err := h.assignmentSvc.GetUnassigned(c.Request.Context(), includeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": procedures})
}

// AssignSingle 单个程序分配（拖放落点）
// POST /api/v1/assignments
func (h *AssignmentHandler) AssignSingle(c *gin.Context) {
	var req dto.AssignSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.assignmentSvc.AssignSingle(c.Request.Context(), &req); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignBulk 批量移动
// POST /api/v1/assignments/bulk
func (h *AssignmentHandler) AssignBulk(c *gin.Context) {
	var req dto.AssignBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.assignmentSvc.AssignBulk(c.Request.Context(), &req); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// Unassign 从检查员处移除单个程序
// POST /api/v1/assignments/unassign
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	var req dto.UnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.assignmentSvc.Unassign(c.Request.Context(), &req); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAssignmentError 统一处理分配模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExaminerNotFound):
		response.NotFound(c, 12001, "检查员不存在")
	case errors.Is(err, service.ErrProcedureNotFound):
		response.NotFound(c, 13001, "审计程序不存在")
	case errors.Is(err, service.ErrLeadNotAssignable):
		response.Conflict(c, 14001, "组长角色不可分配程序")
	case errors.Is(err, service.ErrNotAssigned):
		response.Conflict(c, 14002, "该程序未分配给该检查员")
	default:
		response.InternalError(c)
	}
}
