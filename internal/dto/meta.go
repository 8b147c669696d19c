package dto

// ── 项目元信息模块 DTO ──

// UpdateMetaRequest 更新项目元信息请求
type UpdateMetaRequest struct {
	Title  *string `json:"title"  binding:"omitempty,max=200"`
	Status *string `json:"status" binding:"omitempty,oneof=draft review final"`
}

// MetaResponse 项目元信息响应
type MetaResponse struct {
	Title     string `json:"title"`
	Status    string `json:"status"`
	LastSaved string `json:"last_saved"`
}

// ── CSV 同步模块 DTO ──

// SyncRequest 云端 CSV 同步请求（url 缺省时使用配置中的默认链接）
type SyncRequest struct {
	URL string `json:"url" binding:"omitempty,url"`
}

// SyncResponse 同步结果响应
type SyncResponse struct {
	Imported int `json:"imported"`
}
