package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// username 为邮箱前缀（系统自动补全机构域名后缀）
type LoginRequest struct {
	NIP      string `json:"nip"      binding:"required,max=30"`
	Username string `json:"username" binding:"required,max=100"`
}

// RefreshRequest Token 换发请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// EmployeeInfo 员工花名册条目（来自发布表格）
type EmployeeInfo struct {
	NIP   string `json:"nip"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         EmployeeInfo `json:"user"`
}
