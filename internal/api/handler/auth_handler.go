package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/service"
	"github.com/greymaverick/PKP-app/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Refresh 换发 Token 对
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出（当前 Token 加入黑名单）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Me 当前登录主体
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	response.OK(c, dto.EmployeeInfo{
		NIP:   claims.NIP,
		Name:  claims.Name,
		Email: claims.Email,
	})
}

// ListEmployees 员工花名册
// GET /api/v1/employees
func (h *AuthHandler) ListEmployees(c *gin.Context) {
	employees, err := h.authSvc.ListEmployees(c.Request.Context())
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, gin.H{"list": employees})
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLoginInvalid):
		response.Unauthorized(c, 11001, "NIP 与邮箱不匹配")
	case errors.Is(err, service.ErrEmployeeSheetDown):
		response.Error(c, http.StatusServiceUnavailable, 11002, "员工花名册暂时不可用")
	case errors.Is(err, service.ErrRefreshInvalid):
		response.Unauthorized(c, 11003, "refresh token 无效")
	default:
		response.InternalError(c)
	}
}
