package dto

// ── 审计程序模块 DTO ──

// CreateProcedureRequest 新增程序请求
type CreateProcedureRequest struct {
	Code         string `json:"code"          binding:"omitempty,max=50"`
	Name         string `json:"name"          binding:"required"`
	ReportType   string `json:"report_type"   binding:"omitempty,max=50"`
	Account1Code string `json:"account1_code" binding:"omitempty,max=50"`
	Account1Name string `json:"account1_name"`
	Account2Code string `json:"account2_code" binding:"omitempty,max=50"`
	Account2Name string `json:"account2_name"`
	Account3Code string `json:"account3_code" binding:"omitempty,max=50"`
	Account3Name string `json:"account3_name"`
	Level        string `json:"level"         binding:"omitempty,max=20"`
	IsHeader     string `json:"is_header"     binding:"omitempty,oneof=0 1 TRUE FALSE"`
	Stage        string `json:"stage"         binding:"omitempty,oneof=Interim Terinci"`
}

// UpdateProcedureRequest 更新程序请求
// is_active 未显式给出时保持原值
type UpdateProcedureRequest struct {
	Code         *string `json:"code"          binding:"omitempty,max=50"`
	Name         *string `json:"name"`
	ReportType   *string `json:"report_type"   binding:"omitempty,max=50"`
	Account1Code *string `json:"account1_code" binding:"omitempty,max=50"`
	Account1Name *string `json:"account1_name"`
	Account2Code *string `json:"account2_code" binding:"omitempty,max=50"`
	Account2Name *string `json:"account2_name"`
	Account3Code *string `json:"account3_code" binding:"omitempty,max=50"`
	Account3Name *string `json:"account3_name"`
	Level        *string `json:"level"         binding:"omitempty,max=20"`
	IsHeader     *string `json:"is_header"     binding:"omitempty,oneof=0 1 TRUE FALSE"`
	IsActive     *bool   `json:"is_active"`
	Stage        *string `json:"stage"         binding:"omitempty,oneof=Interim Terinci"`
}

// ProcedureQueryRequest 管理表的过滤/排序视图请求
//
// filters: 列键 → 允许的展示值集合（空集合或缺失表示不过滤该列）
// 列键取值: report_type | akun_1 | akun_2 | akun_3 | prosedur | level | isheader | status | tahapan
type ProcedureQueryRequest struct {
	Filters   map[string][]string `json:"filters"`
	SortKey   string              `json:"sort_key"   binding:"omitempty,oneof=report_type akun_1 akun_2 akun_3 prosedur level isheader status tahapan"`
	Direction string              `json:"direction"  binding:"omitempty,oneof=asc desc"`
}

// BulkSetActiveRequest 批量启/停用请求
type BulkSetActiveRequest struct {
	ProcedureIDs []string `json:"procedure_ids" binding:"required,min=1,dive,uuid"`
	IsActive     bool     `json:"is_active"`
}

// BulkSetStageRequest 批量调整检查阶段请求
type BulkSetStageRequest struct {
	ProcedureIDs []string `json:"procedure_ids" binding:"required,min=1,dive,uuid"`
	Stage        string   `json:"stage"         binding:"required,oneof=Interim Terinci"`
}

// ProcedureResponse 程序信息响应
type ProcedureResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	ReportType   string `json:"report_type"`
	Account1Code string `json:"account1_code"`
	Account1Name string `json:"account1_name"`
	Account2Code string `json:"account2_code"`
	Account2Name string `json:"account2_name"`
	Account3Code string `json:"account3_code"`
	Account3Name string `json:"account3_name"`
	Level        string `json:"level"`
	IsHeader     string `json:"is_header"`
	IsActive     bool   `json:"is_active"`
	Stage        string `json:"stage"`
	Position     int    `json:"position"`
}
