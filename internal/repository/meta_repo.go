package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greymaverick/PKP-app/internal/model"
)

// MetaRepository 项目元信息数据访问接口（单行表）
type MetaRepository interface {
	Get(ctx context.Context) (*model.ProjectMeta, error)
	Update(ctx context.Context, meta *model.ProjectMeta) error
	// Touch 仅更新 last_saved 时间戳（任何引擎变更后调用）
	Touch(ctx context.Context) error
}

// metaRepo MetaRepository 的 GORM 实现
type metaRepo struct {
	db *gorm.DB
}

// NewMetaRepo 创建 MetaRepository 实例
func NewMetaRepo(db *gorm.DB) MetaRepository {
	return &metaRepo{db: db}
}

func (r *metaRepo) Get(ctx context.Context) (*model.ProjectMeta, error) {
	var meta model.ProjectMeta
	err := r.db.WithContext(ctx).
		Where("id = ?", 1).
		First(&meta).Error
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *metaRepo) Update(ctx context.Context, meta *model.ProjectMeta) error {
	meta.ID = 1
	meta.LastSaved = time.Now()
	return r.db.WithContext(ctx).Save(meta).Error
}

func (r *metaRepo) Touch(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.ProjectMeta{}).
		Where("id = ?", 1).
		Update("last_saved", time.Now()).Error
}
