package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// ── 测试辅助 ──

func setupTestSnapshotService() (SnapshotService, *repository.Repository) {
	repo := newTestRepository()
	svc := NewSnapshotService(repo, zap.NewNop())
	return svc, repo
}

// ── Export 测试 ──

func TestSnapshotService_Export_Complete(t *testing.T) {
	svc, repo := setupTestSnapshotService()

	examiner := &model.Examiner{Name: "Budi", Role: model.RoleAnggotaTim}
	if err := repo.Examiner.Create(context.Background(), examiner); err != nil {
		t.Fatalf("准备检查员失败: %v", err)
	}
	proc := &model.Procedure{Name: "Periksa kas", IsActive: true, Stage: model.StageTerinci}
	if err := repo.Procedure.Create(context.Background(), proc); err != nil {
		t.Fatalf("准备程序失败: %v", err)
	}
	if err := repo.Assignment.Assign(context.Background(), proc.ProcedureID, examiner.ExaminerID); err != nil {
		t.Fatalf("准备分配失败: %v", err)
	}

	result, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export 应成功: %v", err)
	}

	if len(result.Snapshot.Examiners) != 1 || len(result.Snapshot.Procedures) != 1 {
		t.Errorf("快照内容不完整: %d examiners, %d procedures",
			len(result.Snapshot.Examiners), len(result.Snapshot.Procedures))
	}
	if got := result.Snapshot.Assignments[examiner.ExaminerID]; len(got) != 1 || got[0] != proc.ProcedureID {
		t.Errorf("快照分配映射错误: %v", result.Snapshot.Assignments)
	}
	if result.Snapshot.Meta == nil || result.Snapshot.Meta.Title == "" {
		t.Error("快照应带项目元信息")
	}
	if !strings.HasPrefix(result.Filename, "PKP_Pemeriksaan_LKPD_") || !strings.HasSuffix(result.Filename, ".pkp") {
		t.Errorf("文件名格式错误: %s", result.Filename)
	}
}

// ── Restore 测试 ──

func TestSnapshotService_Restore_MissingCollections(t *testing.T) {
	svc, _ := setupTestSnapshotService()

	cases := []*dto.Snapshot{
		nil,
		{Procedures: []dto.SnapshotProcedure{}},
		{Examiners: []dto.SnapshotExaminer{}},
	}
	for _, snap := range cases {
		if err := svc.Restore(context.Background(), snap); !errors.Is(err, ErrSnapshotInvalid) {
			t.Errorf("期望 ErrSnapshotInvalid，实际: %v", err)
		}
	}
}

func TestSnapshotService_Restore_RemapsLegacyIDs(t *testing.T) {
	svc, repo := setupTestSnapshotService()

	// 旧版备份里的 id 不是 UUID
	snap := &dto.Snapshot{
		Examiners: []dto.SnapshotExaminer{
			{ID: "legacy-ex-1", Name: "Budi", Role: model.RoleAnggotaTim},
		},
		Procedures: []dto.SnapshotProcedure{
			{ID: "legacy-proc-1", Code: "K-01", Name: "Periksa kas"},
		},
		Assignments: map[string][]string{
			"legacy-ex-1": {"legacy-proc-1"},
		},
	}

	if err := svc.Restore(context.Background(), snap); err != nil {
		t.Fatalf("Restore 应成功: %v", err)
	}

	examiners, _ := repo.Examiner.List(context.Background())
	procedures, _ := repo.Procedure.List(context.Background())
	if len(examiners) != 1 || len(procedures) != 1 {
		t.Fatalf("还原集合数量错误: %d, %d", len(examiners), len(procedures))
	}
	if _, err := uuid.Parse(examiners[0].ExaminerID); err != nil {
		t.Errorf("旧id应换发为UUID，实际=%s", examiners[0].ExaminerID)
	}

	// 引用关系在换发后保持
	a, err := repo.Assignment.GetByProcedure(context.Background(), procedures[0].ProcedureID)
	if err != nil {
		t.Fatalf("分配应随还原重建: %v", err)
	}
	if a.ExaminerID != examiners[0].ExaminerID {
		t.Errorf("分配引用应指向换发后的检查员id")
	}
}

func TestSnapshotService_Restore_Defaults(t *testing.T) {
	svc, repo := setupTestSnapshotService()

	snap := &dto.Snapshot{
		Examiners: []dto.SnapshotExaminer{
			{ID: uuid.New().String(), Name: "Budi", Role: model.RoleAnggotaTim},
		},
		Procedures: []dto.SnapshotProcedure{
			{ID: uuid.New().String()}, // 全部字段缺省
		},
		// assignments 与 meta 整体缺失
	}

	if err := svc.Restore(context.Background(), snap); err != nil {
		t.Fatalf("Restore 应成功: %v", err)
	}

	procedures, _ := repo.Procedure.List(context.Background())
	p := procedures[0]
	if p.Code != "?" || p.Name != "Untitled Procedure" {
		t.Errorf("缺省字段应补默认值: %s %s", p.Code, p.Name)
	}
	if !p.IsActive {
		t.Error("is_active 缺失应视为 true")
	}
	if p.Stage != model.StageTerinci {
		t.Errorf("stage 缺失应视为 Terinci，实际=%s", p.Stage)
	}

	meta, _ := repo.Meta.Get(context.Background())
	if meta.Title != "Pemeriksaan LKPD" || meta.Status != model.StatusDraft {
		t.Errorf("meta 缺失应补默认值: %s %s", meta.Title, meta.Status)
	}
}

func TestSnapshotService_Restore_DuplicateAssignmentFirstWins(t *testing.T) {
	svc, repo := setupTestSnapshotService()

	budi := uuid.New().String()
	citra := uuid.New().String()
	procID := uuid.New().String()
	snap := &dto.Snapshot{
		Examiners: []dto.SnapshotExaminer{
			{ID: budi, Name: "Budi", Role: model.RoleAnggotaTim},
			{ID: citra, Name: "Citra", Role: model.RoleAnggotaTim},
		},
		Procedures: []dto.SnapshotProcedure{
			{ID: procID, Name: "Periksa kas"},
		},
		Assignments: map[string][]string{
			budi:  {procID},
			citra: {procID},
		},
	}

	if err := svc.Restore(context.Background(), snap); err != nil {
		t.Fatalf("Restore 应成功: %v", err)
	}

	assignments, _ := repo.Assignment.ListAll(context.Background())
	if len(assignments) != 1 {
		t.Errorf("同一程序重复出现应只保留一条分配，实际=%d", len(assignments))
	}
}

// ── 导出-还原往返测试 ──

func TestSnapshotService_ExportRestoreRoundTrip(t *testing.T) {
	svc, repo := setupTestSnapshotService()

	examiner := &model.Examiner{ExaminerID: uuid.New().String(), Name: "Budi", NIP: "123", Role: model.RoleAnggotaTim}
	if err := repo.Examiner.Create(context.Background(), examiner); err != nil {
		t.Fatalf("准备检查员失败: %v", err)
	}
	proc := &model.Procedure{ProcedureID: uuid.New().String(), Name: "Periksa kas", Code: "K-01", IsActive: false, Stage: model.StageInterim}
	if err := repo.Procedure.Create(context.Background(), proc); err != nil {
		t.Fatalf("准备程序失败: %v", err)
	}

	exported, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export 应成功: %v", err)
	}
	if err := svc.Restore(context.Background(), &exported.Snapshot); err != nil {
		t.Fatalf("Restore 应成功: %v", err)
	}

	procedures, _ := repo.Procedure.List(context.Background())
	if len(procedures) != 1 {
		t.Fatalf("往返后程序数量错误: %d", len(procedures))
	}
	p := procedures[0]
	if p.ProcedureID != proc.ProcedureID {
		t.Error("合法UUID往返后应保持不变")
	}
	if p.IsActive {
		t.Error("停用状态应在往返后保持")
	}
	if p.Stage != model.StageInterim {
		t.Errorf("阶段应在往返后保持，实际=%s", p.Stage)
	}
}
