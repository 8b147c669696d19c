package dto

// ── 检查员模块 DTO ──

// CreateExaminerRequest 新增检查员请求
type CreateExaminerRequest struct {
	Name         string  `json:"name"          binding:"required,max=100"`
	NIP          string  `json:"nip"           binding:"omitempty,max=30"`
	Role         string  `json:"role"          binding:"required,oneof=KT KST AT DKR"`
	SupervisorID *string `json:"supervisor_id" binding:"omitempty,uuid"`
}

// UpdateExaminerRequest 更新检查员请求（id 与已有分配不受影响）
type UpdateExaminerRequest struct {
	Name         *string `json:"name"          binding:"omitempty,max=100"`
	NIP          *string `json:"nip"           binding:"omitempty,max=30"`
	Role         *string `json:"role"          binding:"omitempty,oneof=KT KST AT DKR"`
	SupervisorID *string `json:"supervisor_id" binding:"omitempty,uuid"`
}

// ExaminerResponse 检查员信息响应
type ExaminerResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	NIP          string  `json:"nip"`
	Role         string  `json:"role"`
	RoleLabel    string  `json:"role_label"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
	Initials     string  `json:"initials"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
