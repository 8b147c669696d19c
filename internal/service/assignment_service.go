package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// ── 分配看板模块业务错误 ──

var (
	// ErrLeadNotAssignable 组长角色（KT/KST）只做复核签字，不接受程序分配
	ErrLeadNotAssignable = errors.New("组长角色不可分配程序")
	ErrNotAssigned       = errors.New("该程序未分配给该检查员")
)

// AssignmentService 分配看板业务接口
type AssignmentService interface {
	// AssignSingle 把单个程序落到某检查员列；幂等，且自动从原持有人处摘除
	AssignSingle(ctx context.Context, req *dto.AssignSingleRequest) error
	// AssignBulk 批量移动一组程序；target/source 可为检查员 id 或 "pool"
	AssignBulk(ctx context.Context, req *dto.AssignBulkRequest) error
	Unassign(ctx context.Context, req *dto.UnassignRequest) error
	// GetUnassigned 未分配程序列表；includeInactive 为 false 时仅含活跃程序
	GetUnassigned(ctx context.Context, includeInactive bool) ([]dto.ProcedureResponse, error)
	Board(ctx context.Context) (*dto.BoardResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ────────────────────── AssignSingle ──────────────────────

func (s *assignmentService) AssignSingle(ctx context.Context, req *dto.AssignSingleRequest) error {
	examiner, err := s.repo.Examiner.GetByID(ctx, req.ExaminerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExaminerNotFound
		}
		s.logger.Error("查询检查员失败", zap.String("id", req.ExaminerID), zap.Error(err))
		return err
	}
	if model.IsLeadRole(examiner.Role) {
		return ErrLeadNotAssignable
	}

	if _, err := s.repo.Procedure.GetByID(ctx, req.ProcedureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProcedureNotFound
		}
		s.logger.Error("查询审计程序失败", zap.String("id", req.ProcedureID), zap.Error(err))
		return err
	}

	if err := s.repo.Assignment.Assign(ctx, req.ProcedureID, req.ExaminerID); err != nil {
		s.logger.Error("分配程序失败",
			zap.String("procedure_id", req.ProcedureID),
			zap.String("examiner_id", req.ExaminerID),
			zap.Error(err))
		return err
	}

	s.touchMeta(ctx)
	return nil
}

// ────────────────────── AssignBulk ──────────────────────

func (s *assignmentService) AssignBulk(ctx context.Context, req *dto.AssignBulkRequest) error {
	if req.Target != dto.PoolTarget {
		examiner, err := s.repo.Examiner.GetByID(ctx, req.Target)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExaminerNotFound
			}
			s.logger.Error("查询检查员失败", zap.String("id", req.Target), zap.Error(err))
			return err
		}
		if model.IsLeadRole(examiner.Role) {
			return ErrLeadNotAssignable
		}
	}

	// 丢弃集合里已不存在的程序 id，保留请求顺序
	known, err := s.repo.Procedure.ListByIDs(ctx, req.ProcedureIDs)
	if err != nil {
		s.logger.Error("查询审计程序失败", zap.Error(err))
		return err
	}
	knownSet := make(map[string]struct{}, len(known))
	for i := range known {
		knownSet[known[i].ProcedureID] = struct{}{}
	}
	ids := make([]string, 0, len(req.ProcedureIDs))
	for _, id := range req.ProcedureIDs {
		if _, ok := knownSet[id]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	// 来源是检查员时先从其列表摘除；来源为池时无需摘除，
	// 目标分配本身会把程序从任何原持有人处挪走
	if req.Source != dto.PoolTarget && req.Source != req.Target {
		if err := s.repo.Assignment.RemoveFromExaminer(ctx, req.Source, ids); err != nil {
			s.logger.Error("移除来源分配失败", zap.String("source", req.Source), zap.Error(err))
			return err
		}
	}

	if req.Target != dto.PoolTarget {
		if err := s.repo.Assignment.AssignBulk(ctx, ids, req.Target); err != nil {
			s.logger.Error("批量分配失败", zap.String("target", req.Target), zap.Error(err))
			return err
		}
	}

	s.touchMeta(ctx)
	return nil
}

// ────────────────────── Unassign ──────────────────────

func (s *assignmentService) Unassign(ctx context.Context, req *dto.UnassignRequest) error {
	existing, err := s.repo.Assignment.GetByProcedure(ctx, req.ProcedureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAssigned
		}
		s.logger.Error("查询分配失败", zap.String("procedure_id", req.ProcedureID), zap.Error(err))
		return err
	}
	if existing.ExaminerID != req.ExaminerID {
		return ErrNotAssigned
	}

	if err := s.repo.Assignment.RemoveFromExaminer(ctx, req.ExaminerID, []string{req.ProcedureID}); err != nil {
		s.logger.Error("移除分配失败", zap.String("procedure_id", req.ProcedureID), zap.Error(err))
		return err
	}

	s.touchMeta(ctx)
	return nil
}

// ────────────────────── 查询视图 ──────────────────────

func (s *assignmentService) GetUnassigned(ctx context.Context, includeInactive bool) ([]dto.ProcedureResponse, error) {
	procedures, err := s.repo.Procedure.List(ctx)
	if err != nil {
		s.logger.Error("列出审计程序失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出分配失败", zap.Error(err))
		return nil, err
	}

	assigned := make(map[string]struct{}, len(assignments))
	for i := range assignments {
		assigned[assignments[i].ProcedureID] = struct{}{}
	}

	result := make([]dto.ProcedureResponse, 0, len(procedures))
	for i := range procedures {
		p := &procedures[i]
		if _, ok := assigned[p.ProcedureID]; ok {
			continue
		}
		if !includeInactive && !p.IsActive {
			continue
		}
		result = append(result, *toProcedureResponse(p))
	}

	return result, nil
}

func (s *assignmentService) Board(ctx context.Context) (*dto.BoardResponse, error) {
	examiners, err := s.repo.Examiner.List(ctx)
	if err != nil {
		s.logger.Error("列出检查员失败", zap.Error(err))
		return nil, err
	}
	procedures, err := s.repo.Procedure.List(ctx)
	if err != nil {
		s.logger.Error("列出审计程序失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出分配失败", zap.Error(err))
		return nil, err
	}

	byID := make(map[string]*model.Procedure, len(procedures))
	for i := range procedures {
		byID[procedures[i].ProcedureID] = &procedures[i]
	}

	assigned := make(map[string]struct{}, len(assignments))
	byExaminer := make(map[string][]dto.ProcedureResponse)
	for i := range assignments {
		a := &assignments[i]
		assigned[a.ProcedureID] = struct{}{}
		p, ok := byID[a.ProcedureID]
		if !ok {
			// 分配里残留的悬空 id 直接跳过
			continue
		}
		byExaminer[a.ExaminerID] = append(byExaminer[a.ExaminerID], *toProcedureResponse(p))
	}

	columns := make([]dto.ExaminerColumnResponse, 0, len(examiners))
	for i := range examiners {
		e := &examiners[i]
		list := byExaminer[e.ExaminerID]
		if list == nil {
			list = []dto.ProcedureResponse{}
		}
		columns = append(columns, dto.ExaminerColumnResponse{
			Examiner:   *toExaminerResponse(e),
			Procedures: list,
		})
	}

	pool := make([]dto.ProcedureResponse, 0)
	for i := range procedures {
		p := &procedures[i]
		if _, ok := assigned[p.ProcedureID]; ok {
			continue
		}
		if !p.IsActive {
			continue
		}
		pool = append(pool, *toProcedureResponse(p))
	}

	return &dto.BoardResponse{Columns: columns, Pool: pool}, nil
}

// ── 内部辅助方法 ──

func (s *assignmentService) touchMeta(ctx context.Context) {
	if err := s.repo.Meta.Touch(ctx); err != nil {
		s.logger.Warn("更新 last_saved 失败", zap.Error(err))
	}
}
