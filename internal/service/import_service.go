package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/config"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// ── 云端同步模块业务错误 ──

var (
	// ErrSyncNoData 表格可达但解析不出任何程序行；现有数据保持不动
	ErrSyncNoData = errors.New("云端表格没有可导入的程序数据")
)

// ImportService 程序清单导入业务接口
type ImportService interface {
	// SyncFromCloud 拉取发布的 CSV 并整体替换程序集合；url 为空时用配置里的默认地址
	SyncFromCloud(ctx context.Context, url string) (int, error)
	// ImportFromReader 从上传的 CSV 内容整体替换程序集合
	ImportFromReader(ctx context.Context, r io.Reader) (int, error)
}

type importService struct {
	repo   *repository.Repository
	cfg    *config.SheetConfig
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(repo *repository.Repository, cfg *config.SheetConfig, logger *zap.Logger) ImportService {
	return &importService{repo: repo, cfg: cfg, logger: logger}
}

func (s *importService) SyncFromCloud(ctx context.Context, url string) (int, error) {
	if url == "" {
		url = s.cfg.ProcedureCSVURL
	}
	if url == "" {
		return 0, fmt.Errorf("未配置程序表格地址")
	}

	body, err := FetchCSVContent(ctx, url, s.cfg.FetchTimeout, s.cfg.MaxFetchBytes)
	if err != nil {
		s.logger.Error("拉取云端表格失败", zap.String("url", url), zap.Error(err))
		return 0, fmt.Errorf("拉取云端表格失败: %w", err)
	}
	defer body.Close()

	return s.replaceFromReader(ctx, body)
}

func (s *importService) ImportFromReader(ctx context.Context, r io.Reader) (int, error) {
	return s.replaceFromReader(ctx, r)
}

// replaceFromReader 解析 CSV 并整体替换；0 行时不触碰现有数据
func (s *importService) replaceFromReader(ctx context.Context, r io.Reader) (int, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("读取表格内容失败: %w", err)
	}

	procedures := ParseProcedureCSV(string(text))
	if len(procedures) == 0 {
		return 0, ErrSyncNoData
	}

	if err := s.repo.Procedure.ReplaceAll(ctx, procedures); err != nil {
		s.logger.Error("替换程序集合失败", zap.Int("count", len(procedures)), zap.Error(err))
		return 0, err
	}

	if err := s.repo.Meta.Touch(ctx); err != nil {
		s.logger.Warn("更新 last_saved 失败", zap.Error(err))
	}

	s.logger.Info("程序清单同步完成", zap.Int("imported", len(procedures)))
	return len(procedures), nil
}
