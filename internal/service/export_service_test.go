package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *repository.Repository) {
	repo := newTestRepository()
	svc := NewExportService(repo, zap.NewNop())
	return svc, repo
}

func seedExportData(t *testing.T, repo *repository.Repository) (atID string, procID string) {
	t.Helper()
	ctx := context.Background()

	kt := &model.Examiner{Name: "Ketua Tim", NIP: "111", Role: model.RoleKetuaTim}
	kst := &model.Examiner{Name: "Ketua Subtim", NIP: "222", Role: model.RoleKetuaSubtim}
	at := &model.Examiner{Name: "Budi Santoso", NIP: "333", Role: model.RoleAnggotaTim}
	for _, e := range []*model.Examiner{kt, kst, at} {
		if err := repo.Examiner.Create(ctx, e); err != nil {
			t.Fatalf("准备检查员失败: %v", err)
		}
	}

	proc := &model.Procedure{
		Name: "Periksa kas dan rekening koran", Code: "K-01",
		ReportType: "LRA", Account1Code: "1.1", Account1Name: "Kas",
		IsActive: true, Stage: model.StageTerinci,
	}
	if err := repo.Procedure.Create(ctx, proc); err != nil {
		t.Fatalf("准备程序失败: %v", err)
	}
	if err := repo.Assignment.Assign(ctx, proc.ProcedureID, at.ExaminerID); err != nil {
		t.Fatalf("准备分配失败: %v", err)
	}
	return at.ExaminerID, proc.ProcedureID
}

// ── ExportProcedureList 测试 ──

func TestExportService_ExportProcedureList(t *testing.T) {
	svc, repo := setupTestExportService()
	seedExportData(t, repo)

	buf, filename, err := svc.ExportProcedureList(context.Background())
	if err != nil {
		t.Fatalf("ExportProcedureList 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Excel 内容不应为空")
	}
	if !strings.HasPrefix(filename, "Daftar_Prosedur_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式错误: %s", filename)
	}
	// xlsx 本质是 zip，验证魔数
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("Excel 输出应为合法的 zip 容器")
	}
}

func TestExportService_ExportProcedureList_EmptyCollection(t *testing.T) {
	svc, _ := setupTestExportService()

	// 空集合导出仅表头，不报错
	buf, _, err := svc.ExportProcedureList(context.Background())
	if err != nil {
		t.Fatalf("空集合导出应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("仅表头的 Excel 也不应为空")
	}
}

// ── ExportPKP 测试 ──

func TestExportService_ExportPKP_Success(t *testing.T) {
	svc, repo := setupTestExportService()
	seedExportData(t, repo)

	buf, filename, err := svc.ExportPKP(context.Background(), model.StageTerinci)
	if err != nil {
		t.Fatalf("ExportPKP 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("PDF 内容不应为空")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("输出应为合法 PDF")
	}
	if !strings.HasPrefix(filename, "PKP_Terinci_") || !strings.HasSuffix(filename, ".pdf") {
		t.Errorf("文件名格式错误: %s", filename)
	}
}

func TestExportService_ExportPKP_StageFiltered(t *testing.T) {
	svc, repo := setupTestExportService()
	seedExportData(t, repo)

	// 分配的程序都在 Terinci，导出 Interim 应无内容
	_, _, err := svc.ExportPKP(context.Background(), model.StageInterim)
	if !errors.Is(err, ErrExportNoProcedures) {
		t.Errorf("期望 ErrExportNoProcedures，实际: %v", err)
	}
}

func TestExportService_ExportPKP_NoAssignments(t *testing.T) {
	svc, repo := setupTestExportService()

	e := &model.Examiner{Name: "Budi", Role: model.RoleAnggotaTim}
	if err := repo.Examiner.Create(context.Background(), e); err != nil {
		t.Fatalf("准备检查员失败: %v", err)
	}

	_, _, err := svc.ExportPKP(context.Background(), model.StageTerinci)
	if !errors.Is(err, ErrExportNoProcedures) {
		t.Errorf("期望 ErrExportNoProcedures，实际: %v", err)
	}
}

func TestExportService_ExportPKP_KTHasAssignmentSkipped(t *testing.T) {
	svc, repo := setupTestExportService()
	ctx := context.Background()

	// 只有 KT 持有分配时，导出仍须跳过 KT
	kt := &model.Examiner{Name: "Ketua", Role: model.RoleKetuaTim}
	if err := repo.Examiner.Create(ctx, kt); err != nil {
		t.Fatalf("准备检查员失败: %v", err)
	}
	proc := &model.Procedure{Name: "Periksa kas", IsActive: true, Stage: model.StageTerinci}
	if err := repo.Procedure.Create(ctx, proc); err != nil {
		t.Fatalf("准备程序失败: %v", err)
	}
	if err := repo.Assignment.Assign(ctx, proc.ProcedureID, kt.ExaminerID); err != nil {
		t.Fatalf("准备分配失败: %v", err)
	}

	_, _, err := svc.ExportPKP(ctx, model.StageTerinci)
	if !errors.Is(err, ErrExportNoProcedures) {
		t.Errorf("KT 不应出现在 PKP 导出里，期望 ErrExportNoProcedures，实际: %v", err)
	}
}
