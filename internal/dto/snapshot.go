package dto

// ── 快照（备份文件）DTO ──
//
// 与 .pkp 备份文件的 JSON 结构一一对应，也是跨会话持久化格式。
// 加载时 examiners 与 procedures 为必填；assignments 与 meta 缺省补默认值。

// SnapshotExaminer 快照中的检查员条目
type SnapshotExaminer struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	NIP          string  `json:"nip"`
	Role         string  `json:"role"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

// SnapshotProcedure 快照中的程序条目
type SnapshotProcedure struct {
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
	IsActive     *bool  `json:"is_active,omitempty"` // 缺失视为 true
	Stage        string `json:"stage,omitempty"`     // 缺失视为 Terinci
}

// SnapshotMeta 快照中的项目元信息
type SnapshotMeta struct {
	Title     string `json:"title"`
	Status    string `json:"status"`
	LastSaved string `json:"lastSaved"`
}

// Snapshot 备份文件整体结构
type Snapshot struct {
	Examiners   []SnapshotExaminer  `json:"examiners"`
	Procedures  []SnapshotProcedure `json:"procedures"`
	Assignments map[string][]string `json:"assignments"`
	Meta        *SnapshotMeta       `json:"meta,omitempty"`
}

// SnapshotExportResponse 快照导出响应
type SnapshotExportResponse struct {
	Filename string   `json:"filename"`
	Snapshot Snapshot `json:"snapshot"`
}
