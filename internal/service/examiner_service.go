package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// ── 检查员模块业务错误 ──

var (
	ErrExaminerNotFound = errors.New("检查员不存在")
)

// ExaminerService 检查员业务接口
type ExaminerService interface {
	Create(ctx context.Context, req *dto.CreateExaminerRequest) (*dto.ExaminerResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ExaminerResponse, error)
	List(ctx context.Context) ([]dto.ExaminerResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateExaminerRequest) (*dto.ExaminerResponse, error)
	// Delete 删除检查员并整体移除其分配列表（程序按派生池规则回到未分配池）
	Delete(ctx context.Context, id string) error
}

type examinerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExaminerService 创建 ExaminerService 实例
func NewExaminerService(repo *repository.Repository, logger *zap.Logger) ExaminerService {
	return &examinerService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *examinerService) Create(ctx context.Context, req *dto.CreateExaminerRequest) (*dto.ExaminerResponse, error) {
	examiner := &model.Examiner{
		Name:         req.Name,
		NIP:          req.NIP,
		Role:         req.Role,
		SupervisorID: req.SupervisorID,
	}

	if err := s.repo.Examiner.Create(ctx, examiner); err != nil {
		s.logger.Error("创建检查员失败", zap.Error(err))
		return nil, err
	}

	s.touchMeta(ctx)
	return toExaminerResponse(examiner), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *examinerService) GetByID(ctx context.Context, id string) (*dto.ExaminerResponse, error) {
	examiner, err := s.repo.Examiner.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExaminerNotFound
		}
		s.logger.Error("查询检查员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toExaminerResponse(examiner), nil
}

// ────────────────────── List ──────────────────────

func (s *examinerService) List(ctx context.Context) ([]dto.ExaminerResponse, error) {
	examiners, err := s.repo.Examiner.List(ctx)
	if err != nil {
		s.logger.Error("列出检查员失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ExaminerResponse, 0, len(examiners))
	for i := range examiners {
		result = append(result, *toExaminerResponse(&examiners[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *examinerService) Update(ctx context.Context, id string, req *dto.UpdateExaminerRequest) (*dto.ExaminerResponse, error) {
	examiner, err := s.repo.Examiner.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExaminerNotFound
		}
		s.logger.Error("查询检查员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		examiner.Name = *req.Name
	}
	if req.NIP != nil {
		examiner.NIP = *req.NIP
	}
	if req.Role != nil {
		examiner.Role = *req.Role
	}
	if req.SupervisorID != nil {
		examiner.SupervisorID = req.SupervisorID
	}

	if err := s.repo.Examiner.Update(ctx, examiner); err != nil {
		s.logger.Error("更新检查员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.touchMeta(ctx)
	return toExaminerResponse(examiner), nil
}

// ────────────────────── Delete ──────────────────────

func (s *examinerService) Delete(ctx context.Context, id string) error {
	_, err := s.repo.Examiner.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExaminerNotFound
		}
		s.logger.Error("查询检查员失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 先整体移除分配列表，检查员行随后删除（外键级联兜底）
	if err := s.repo.Assignment.DeleteByExaminer(ctx, id); err != nil {
		s.logger.Error("清除检查员分配失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Examiner.Delete(ctx, id); err != nil {
		s.logger.Error("删除检查员失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.touchMeta(ctx)
	return nil
}

// ── 内部辅助方法 ──

// touchMeta 引擎变更后推进 last_saved；失败仅记录不阻断主流程
func (s *examinerService) touchMeta(ctx context.Context) {
	if err := s.repo.Meta.Touch(ctx); err != nil {
		s.logger.Warn("更新 last_saved 失败", zap.Error(err))
	}
}

func toExaminerResponse(e *model.Examiner) *dto.ExaminerResponse {
	return &dto.ExaminerResponse{
		ID:           e.ExaminerID,
		Name:         e.Name,
		NIP:          e.NIP,
		Role:         e.Role,
		RoleLabel:    model.RoleLabel(e.Role),
		SupervisorID: e.SupervisorID,
		Initials:     e.Initials(),
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}
