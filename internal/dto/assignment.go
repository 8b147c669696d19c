package dto

// ── 分配看板模块 DTO ──

// PoolTarget 批量移动的目标/来源可取 "pool"（未分配池）
const PoolTarget = "pool"

// AssignSingleRequest 单个程序分配请求（拖放落点）
type AssignSingleRequest struct {
	ProcedureID string `json:"procedure_id" binding:"required,uuid"`
	ExaminerID  string `json:"examiner_id"  binding:"required,uuid"`
}

// AssignBulkRequest 批量移动请求
// target / source 为检查员 id 或 "pool"
type AssignBulkRequest struct {
	ProcedureIDs []string `json:"procedure_ids" binding:"required,min=1,dive,uuid"`
	Target       string   `json:"target"        binding:"required"`
	Source       string   `json:"source"        binding:"required"`
}

// UnassignRequest 按检查员移除单个程序请求
type UnassignRequest struct {
	ProcedureID string `json:"procedure_id" binding:"required,uuid"`
	ExaminerID  string `json:"examiner_id"  binding:"required,uuid"`
}

// ExaminerColumnResponse 看板上单个检查员列
type ExaminerColumnResponse struct {
	Examiner   ExaminerResponse    `json:"examiner"`
	Procedures []ProcedureResponse `json:"procedures"`
}

// BoardResponse 分配看板整体视图
// pool 仅含活跃程序（与交互看板的可拖动集合一致）
type BoardResponse struct {
	Columns []ExaminerColumnResponse `json:"columns"`
	Pool    []ProcedureResponse      `json:"pool"`
}
