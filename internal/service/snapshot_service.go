package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// ── 快照模块业务错误 ──

var (
	// ErrSnapshotInvalid 备份文件缺少 examiners 或 procedures，拒绝加载
	ErrSnapshotInvalid = errors.New("备份文件格式无效")
)

// SnapshotService 快照导出/还原业务接口
type SnapshotService interface {
	// Export 导出完整工作状态（.pkp 备份文件内容与建议文件名）
	Export(ctx context.Context) (*dto.SnapshotExportResponse, error)
	// Restore 用快照整体覆盖当前状态；单事务，失败不留半截
	Restore(ctx context.Context, snap *dto.Snapshot) error
}

type snapshotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSnapshotService 创建 SnapshotService 实例
func NewSnapshotService(repo *repository.Repository, logger *zap.Logger) SnapshotService {
	return &snapshotService{repo: repo, logger: logger}
}

// ────────────────────── Export ──────────────────────

func (s *snapshotService) Export(ctx context.Context) (*dto.SnapshotExportResponse, error) {
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
	meta, err := s.repo.Meta.Get(ctx)
	if err != nil {
		s.logger.Error("读取项目元信息失败", zap.Error(err))
		return nil, err
	}

	snap := dto.Snapshot{
		Examiners:   make([]dto.SnapshotExaminer, 0, len(examiners)),
		Procedures:  make([]dto.SnapshotProcedure, 0, len(procedures)),
		Assignments: make(map[string][]string),
		Meta: &dto.SnapshotMeta{
			Title:     meta.Title,
			Status:    meta.Status,
			LastSaved: meta.LastSaved.Format(time.RFC3339),
		},
	}
	for i := range examiners {
		e := &examiners[i]
		snap.Examiners = append(snap.Examiners, dto.SnapshotExaminer{
			ID:           e.ExaminerID,
			Name:         e.Name,
			NIP:          e.NIP,
			Role:         e.Role,
			SupervisorID: e.SupervisorID,
		})
	}
	for i := range procedures {
		p := &procedures[i]
		active := p.IsActive
		snap.Procedures = append(snap.Procedures, dto.SnapshotProcedure{
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
			IsActive:     &active,
			Stage:        p.Stage,
		})
	}
	for i := range assignments {
		a := &assignments[i]
		snap.Assignments[a.ExaminerID] = append(snap.Assignments[a.ExaminerID], a.ProcedureID)
	}

	now := time.Now()
	filename := fmt.Sprintf("PKP_%s_%s_%s.pkp",
		sanitizeFilename(meta.Title),
		now.Format("2006-01-02"),
		now.Format("150405"))

	return &dto.SnapshotExportResponse{Filename: filename, Snapshot: snap}, nil
}

// sanitizeFilename 非字母数字字符一律替换为下划线
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "PKP"
	}
	return b.String()
}

// ────────────────────── Restore ──────────────────────

func (s *snapshotService) Restore(ctx context.Context, snap *dto.Snapshot) error {
	if snap == nil || snap.Examiners == nil || snap.Procedures == nil {
		return ErrSnapshotInvalid
	}

	// 旧版备份里的 id 可能不是 UUID，换发新 id 并保持引用关系
	examinerIDs := make(map[string]string, len(snap.Examiners))
	procedureIDs := make(map[string]string, len(snap.Procedures))

	examiners := make([]model.Examiner, 0, len(snap.Examiners))
	for i := range snap.Examiners {
		se := &snap.Examiners[i]
		examinerIDs[se.ID] = normalizeID(se.ID)
	}
	for i := range snap.Examiners {
		se := &snap.Examiners[i]
		role := se.Role
		if role == "" {
			role = model.RoleAnggotaTim
		}
		e := model.Examiner{
			ExaminerID: examinerIDs[se.ID],
			Name:       se.Name,
			NIP:        se.NIP,
			Role:       role,
		}
		if se.SupervisorID != nil {
			if mapped, ok := examinerIDs[*se.SupervisorID]; ok {
				e.SupervisorID = &mapped
			}
		}
		examiners = append(examiners, e)
	}

	procedures := make([]model.Procedure, 0, len(snap.Procedures))
	for i := range snap.Procedures {
		sp := &snap.Procedures[i]
		id := normalizeID(sp.ID)
		procedureIDs[sp.ID] = id

		p := model.Procedure{
			ProcedureID:  id,
			Code:         sp.Code,
			Name:         sp.Name,
			ReportType:   sp.ReportType,
			Account1Code: sp.Account1Code,
			Account1Name: sp.Account1Name,
			Account2Code: sp.Account2Code,
			Account2Name: sp.Account2Name,
			Account3Code: sp.Account3Code,
			Account3Name: sp.Account3Name,
			Level:        sp.Level,
			IsHeader:     sp.IsHeader,
			IsActive:     sp.IsActive == nil || *sp.IsActive,
			Stage:        sp.Stage,
			Position:     i + 1,
		}
		if p.Code == "" {
			p.Code = "?"
		}
		if p.Name == "" {
			p.Name = untitledProcedureName
		}
		if p.IsHeader == "" {
			p.IsHeader = "0"
		}
		if p.Stage == "" {
			p.Stage = model.StageTerinci
		}
		procedures = append(procedures, p)
	}

	// 分配关系：悬空 id 跳过；同一程序出现多次时首个持有人生效
	assignments := make([]model.Assignment, 0)
	seen := make(map[string]struct{})
	for rawExaminerID, rawProcedureIDs := range snap.Assignments {
		examinerID, ok := examinerIDs[rawExaminerID]
		if !ok {
			continue
		}
		pos := 0
		for _, rawID := range rawProcedureIDs {
			procedureID, ok := procedureIDs[rawID]
			if !ok {
				continue
			}
			if _, dup := seen[procedureID]; dup {
				continue
			}
			seen[procedureID] = struct{}{}
			pos++
			assignments = append(assignments, model.Assignment{
				ProcedureID: procedureID,
				ExaminerID:  examinerID,
				Position:    pos,
			})
		}
	}

	meta := &model.ProjectMeta{
		Title:     "Pemeriksaan LKPD",
		Status:    model.StatusDraft,
		LastSaved: time.Now(),
	}
	if snap.Meta != nil {
		if snap.Meta.Title != "" {
			meta.Title = snap.Meta.Title
		}
		if model.ValidStatus(snap.Meta.Status) {
			meta.Status = snap.Meta.Status
		}
		if t, err := time.Parse(time.RFC3339, snap.Meta.LastSaved); err == nil {
			meta.LastSaved = t
		}
	}

	if err := s.repo.Snapshot.RestoreAll(ctx, examiners, procedures, assignments, meta); err != nil {
		s.logger.Error("快照还原失败", zap.Error(err))
		return err
	}

	s.logger.Info("快照还原完成",
		zap.Int("examiners", len(examiners)),
		zap.Int("procedures", len(procedures)),
		zap.Int("assignments", len(assignments)))
	return nil
}

// normalizeID 保留合法 UUID，其余换发新 id
func normalizeID(raw string) string {
	if _, err := uuid.Parse(raw); err == nil {
		return raw
	}
	return uuid.New().String()
}
