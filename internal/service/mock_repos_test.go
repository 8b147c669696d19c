package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/greymaverick/PKP-app/internal/model"
	"github.com/greymaverick/PKP-app/internal/repository"
)

// newTestRepository 组装全套 Mock 仓储
// Mock 用切片保持插入顺序，模拟真实仓储的排序语义
func newTestRepository() *repository.Repository {
	assignments := newMockAssignmentRepo()
	examiners := newMockExaminerRepo()
	procedures := newMockProcedureRepo(assignments)
	meta := newMockMetaRepo()
	return &repository.Repository{
		Examiner:   examiners,
		Procedure:  procedures,
		Assignment: assignments,
		Meta:       meta,
		Snapshot:   &mockSnapshotRepo{examiners: examiners, procedures: procedures, assignments: assignments, meta: meta},
	}
}

// ── Mock ExaminerRepository ──

type mockExaminerRepo struct {
	examiners []model.Examiner
	idCounter int
}

func newMockExaminerRepo() *mockExaminerRepo {
	return &mockExaminerRepo{}
}

func (m *mockExaminerRepo) Create(_ context.Context, examiner *model.Examiner) error {
	if examiner.ExaminerID == "" {
		m.idCounter++
		examiner.ExaminerID = fmt.Sprintf("ex-%d", m.idCounter)
	}
	examiner.CreatedAt = time.Now()
	examiner.UpdatedAt = time.Now()
	m.examiners = append(m.examiners, *examiner)
	return nil
}

func (m *mockExaminerRepo) GetByID(_ context.Context, id string) (*model.Examiner, error) {
	for i, e := range m.examiners {
		if e.ExaminerID == id {
			return &m.examiners[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExaminerRepo) List(_ context.Context) ([]model.Examiner, error) {
	result := make([]model.Examiner, len(m.examiners))
	copy(result, m.examiners)
	return result, nil
}

func (m *mockExaminerRepo) Update(_ context.Context, examiner *model.Examiner) error {
	for i, e := range m.examiners {
		if e.ExaminerID == examiner.ExaminerID {
			examiner.UpdatedAt = time.Now()
			m.examiners[i] = *examiner
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockExaminerRepo) Delete(_ context.Context, id string) error {
	for i, e := range m.examiners {
		if e.ExaminerID == id {
			m.examiners = append(m.examiners[:i], m.examiners[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock ProcedureRepository ──

type mockProcedureRepo struct {
	procedures  []model.Procedure
	assignments *mockAssignmentRepo
	idCounter   int
}

func newMockProcedureRepo(assignments *mockAssignmentRepo) *mockProcedureRepo {
	return &mockProcedureRepo{assignments: assignments}
}

func (m *mockProcedureRepo) Create(_ context.Context, procedure *model.Procedure) error {
	if procedure.ProcedureID == "" {
		m.idCounter++
		procedure.ProcedureID = fmt.Sprintf("proc-%d", m.idCounter)
	}
	procedure.Position = len(m.procedures) + 1
	m.procedures = append(m.procedures, *procedure)
	return nil
}

func (m *mockProcedureRepo) GetByID(_ context.Context, id string) (*model.Procedure, error) {
	for i, p := range m.procedures {
		if p.ProcedureID == id {
			return &m.procedures[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProcedureRepo) List(_ context.Context) ([]model.Procedure, error) {
	result := make([]model.Procedure, len(m.procedures))
	copy(result, m.procedures)
	return result, nil
}

func (m *mockProcedureRepo) ListByIDs(_ context.Context, ids []string) ([]model.Procedure, error) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var result []model.Procedure
	for _, p := range m.procedures {
		if idSet[p.ProcedureID] {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProcedureRepo) Update(_ context.Context, procedure *model.Procedure) error {
	for i, p := range m.procedures {
		if p.ProcedureID == procedure.ProcedureID {
			m.procedures[i] = *procedure
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockProcedureRepo) Delete(_ context.Context, id string) error {
	for i, p := range m.procedures {
		if p.ProcedureID == id {
			m.procedures = append(m.procedures[:i], m.procedures[i+1:]...)
			m.assignments.removeByProcedure(id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockProcedureRepo) ReplaceAll(_ context.Context, procedures []model.Procedure) error {
	m.assignments.assignments = nil
	m.procedures = make([]model.Procedure, len(procedures))
	copy(m.procedures, procedures)
	for i := range m.procedures {
		m.procedures[i].Position = i + 1
	}
	return nil
}

func (m *mockProcedureRepo) SetActive(_ context.Context, ids []string, active bool) error {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for i := range m.procedures {
		if idSet[m.procedures[i].ProcedureID] {
			m.procedures[i].IsActive = active
			if !active {
				m.assignments.removeByProcedure(m.procedures[i].ProcedureID)
			}
		}
	}
	return nil
}

func (m *mockProcedureRepo) SetStage(_ context.Context, ids []string, stage string) error {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for i := range m.procedures {
		if idSet[m.procedures[i].ProcedureID] {
			m.procedures[i].Stage = stage
		}
	}
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments []model.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{}
}

func (m *mockAssignmentRepo) ListAll(_ context.Context) ([]model.Assignment, error) {
	result := make([]model.Assignment, len(m.assignments))
	copy(result, m.assignments)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ExaminerID != result[j].ExaminerID {
			return result[i].ExaminerID < result[j].ExaminerID
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (m *mockAssignmentRepo) ListByExaminer(_ context.Context, examinerID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.ExaminerID == examinerID {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockAssignmentRepo) GetByProcedure(_ context.Context, procedureID string) (*model.Assignment, error) {
	for i, a := range m.assignments {
		if a.ProcedureID == procedureID {
			return &m.assignments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Assign(_ context.Context, procedureID, examinerID string) error {
	m.assignOne(procedureID, examinerID)
	return nil
}

func (m *mockAssignmentRepo) AssignBulk(_ context.Context, procedureIDs []string, examinerID string) error {
	for _, id := range procedureIDs {
		m.assignOne(id, examinerID)
	}
	return nil
}

func (m *mockAssignmentRepo) RemoveFromExaminer(_ context.Context, examinerID string, procedureIDs []string) error {
	idSet := make(map[string]bool, len(procedureIDs))
	for _, id := range procedureIDs {
		idSet[id] = true
	}
	var remaining []model.Assignment
	for _, a := range m.assignments {
		if a.ExaminerID == examinerID && idSet[a.ProcedureID] {
			continue
		}
		remaining = append(remaining, a)
	}
	m.assignments = remaining
	return nil
}

func (m *mockAssignmentRepo) DeleteByExaminer(_ context.Context, examinerID string) error {
	var remaining []model.Assignment
	for _, a := range m.assignments {
		if a.ExaminerID != examinerID {
			remaining = append(remaining, a)
		}
	}
	m.assignments = remaining
	return nil
}

func (m *mockAssignmentRepo) assignOne(procedureID, examinerID string) {
	for i, a := range m.assignments {
		if a.ProcedureID == procedureID {
			if a.ExaminerID == examinerID {
				return // 幂等：保持原位置
			}
			m.assignments = append(m.assignments[:i], m.assignments[i+1:]...)
			break
		}
	}
	maxPos := 0
	for _, a := range m.assignments {
		if a.ExaminerID == examinerID && a.Position > maxPos {
			maxPos = a.Position
		}
	}
	m.assignments = append(m.assignments, model.Assignment{
		ProcedureID: procedureID,
		ExaminerID:  examinerID,
		Position:    maxPos + 1,
	})
}

func (m *mockAssignmentRepo) removeByProcedure(procedureID string) {
	for i, a := range m.assignments {
		if a.ProcedureID == procedureID {
			m.assignments = append(m.assignments[:i], m.assignments[i+1:]...)
			return
		}
	}
}

// ── Mock MetaRepository ──

type mockMetaRepo struct {
	meta model.ProjectMeta
}

func newMockMetaRepo() *mockMetaRepo {
	return &mockMetaRepo{
		meta: model.ProjectMeta{
			ID:        1,
			Title:     "Pemeriksaan LKPD",
			Status:    model.StatusDraft,
			LastSaved: time.Now(),
		},
	}
}

func (m *mockMetaRepo) Get(_ context.Context) (*model.ProjectMeta, error) {
	cp := m.meta
	return &cp, nil
}

func (m *mockMetaRepo) Update(_ context.Context, meta *model.ProjectMeta) error {
	meta.ID = 1
	meta.LastSaved = time.Now()
	m.meta = *meta
	return nil
}

func (m *mockMetaRepo) Touch(_ context.Context) error {
	m.meta.LastSaved = time.Now()
	return nil
}

// ── Mock SnapshotRepository ──

type mockSnapshotRepo struct {
	examiners   *mockExaminerRepo
	procedures  *mockProcedureRepo
	assignments *mockAssignmentRepo
	meta        *mockMetaRepo
}

func (m *mockSnapshotRepo) RestoreAll(_ context.Context, examiners []model.Examiner, procedures []model.Procedure, assignments []model.Assignment, meta *model.ProjectMeta) error {
	m.examiners.examiners = make([]model.Examiner, len(examiners))
	copy(m.examiners.examiners, examiners)
	m.procedures.procedures = make([]model.Procedure, len(procedures))
	copy(m.procedures.procedures, procedures)
	m.assignments.assignments = make([]model.Assignment, len(assignments))
	copy(m.assignments.assignments, assignments)
	if meta != nil {
		meta.ID = 1
		m.meta.meta = *meta
	}
	return nil
}
