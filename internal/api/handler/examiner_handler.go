package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

// ExaminerHandler 检查员模块 HTTP 处理器
type ExaminerHandler struct {
	examinerSvc service.ExaminerService
}

// NewExaminerHandler 创建 ExaminerHandler
func NewExaminerHandler(examinerSvc service.ExaminerService) *ExaminerHandler {
	return &ExaminerHandler{examinerSvc: examinerSvc}
}

// ListExaminers 获取检查员列表
// GET /api/v1/examiners
func (h *ExaminerHandler) ListExaminers(c *gin.Context) {
	examiners, err := h.examinerSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": examiners})
}

// GetExaminer 获取检查员详情
// GET /api/v1/examiners/:id
func (h *ExaminerHandler) GetExaminer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "检查员ID不能为空")
		return
	}

	examiner, err := h.examinerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleExaminerError(c, err)
		return
	}

	response.OK(c, examiner)
}

// CreateExaminer 添加检查员
// POST /api/v1/examiners
func (h *ExaminerHandler) CreateExaminer(c *gin.Context) {
	var req dto.CreateExaminerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	examiner, err := h.examinerSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleExaminerError(c, err)
		return
	}

	response.Created(c, examiner)
}

// UpdateExaminer 更新检查员
// PUT /api/v1/examiners/:id
func (h *ExaminerHandler) UpdateExaminer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "检查员ID不能为空")
		return
	}

	var req dto.UpdateExaminerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	examiner, err := h.examinerSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleExaminerError(c, err)
		return
	}

	response.OK(c, examiner)
}

// DeleteExaminer 删除检查员（其分配列表一并释放）
// DELETE /api/v1/examiners/:id
func (h *ExaminerHandler) DeleteExaminer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "检查员ID不能为空")
		return
	}

	if err := h.examinerSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleExaminerError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleExaminerError 统一处理检查员模块业务错误
func (h *ExaminerHandler) handleExaminerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExaminerNotFound):
		response.NotFound(c, 12001, "检查员不存在")
	default:
		response.InternalError(c)
	}
}
