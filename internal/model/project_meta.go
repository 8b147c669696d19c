package model

import "time"

// ── PKP 项目状态 ──
const (
	StatusDraft  = "draft"  // Draft Pembagian
	StatusReview = "review" // Reviu Ketua Tim
	StatusFinal  = "final"  // Final / Siap Jalan
)

// ValidStatus 状态枚举校验
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusReview || s == StatusFinal
}

// ProjectMeta 项目元信息表 — 对应 project_meta（单行，id 恒为 1）
type ProjectMeta struct {
	ID        int16     `gorm:"primaryKey;default:1"                      json:"-"`
	Title     string    `gorm:"type:varchar(200);not null"                json:"title"`
	Status    string    `gorm:"type:varchar(10);not null;default:'draft'" json:"status"`
	LastSaved time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"last_saved"`
}

// TableName 指定表名
func (ProjectMeta) TableName() string { return "project_meta" }
