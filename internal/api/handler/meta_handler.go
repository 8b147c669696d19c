package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

// MetaHandler 项目元信息 HTTP 处理器
type MetaHandler struct {
	metaSvc service.MetaService
}

// NewMetaHandler 创建 MetaHandler
func NewMetaHandler(metaSvc service.MetaService) *MetaHandler {
	return &MetaHandler{metaSvc: metaSvc}
}

// Get 查询项目元信息
// GET /api/v1/meta
func (h *MetaHandler) Get(c *gin.Context) {
	result, err := h.metaSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 更新项目元信息
// PUT /api/v1/meta
func (h *MetaHandler) Update(c *gin.Context) {
	var req dto.UpdateMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数格式错误: "+err.Error())
		return
	}

	result, err := h.metaSvc.Update(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
