package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// MetaService 项目元信息业务接口
type MetaService interface {
	Get(ctx context.Context) (*dto.MetaResponse, error)
	Update(ctx context.Context, req *dto.UpdateMetaRequest) (*dto.MetaResponse, error)
}

type metaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMetaService 创建 MetaService 实例
func NewMetaService(repo *repository.Repository, logger *zap.Logger) MetaService {
	return &metaService{repo: repo, logger: logger}
}

func (s *metaService) Get(ctx context.Context) (*dto.MetaResponse, error) {
	meta, err := s.repo.Meta.Get(ctx)
	if err != nil {
		s.logger.Error("读取项目元信息失败", zap.Error(err))
		return nil, err
	}
	return toMetaResponse(meta), nil
}

func (s *metaService) Update(ctx context.Context, req *dto.UpdateMetaRequest) (*dto.MetaResponse, error) {
	meta, err := s.repo.Meta.Get(ctx)
	if err != nil {
		s.logger.Error("读取项目元信息失败", zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		meta.Title = *req.Title
	}
	if req.Status != nil {
		meta.Status = *req.Status
	}

	if err := s.repo.Meta.Update(ctx, meta); err != nil {
		s.logger.Error("更新项目元信息失败", zap.Error(err))
		return nil, err
	}

	return toMetaResponse(meta), nil
}

func toMetaResponse(meta *model.ProjectMeta) *dto.MetaResponse {
	return &dto.MetaResponse{
		Title:     meta.Title,
		Status:    meta.Status,
		LastSaved: meta.LastSaved.Format(time.RFC3339),
	}
}
