package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/grading"
	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

type mockSubjectRepo struct {
	subjects  map[string]*models.Subject
	tree      *models.SubjectTree
	finished  *models.HistoryRecord
	finishErr error
}

func (m *mockSubjectRepo) List(ctx context.Context, userID string, filter models.SubjectFilter) ([]models.Subject, int, error) {
	var out []models.Subject
	for _, s := range m.subjects {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, userID, id string) (*models.Subject, error) {
	s, ok := m.subjects[id]
	if !ok || s.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockSubjectRepo) FindTree(ctx context.Context, userID, id string) (*models.SubjectTree, error) {
	if m.tree == nil || m.tree.ID != id || m.tree.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return m.tree, nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = "sub-1"
	if m.subjects == nil {
		m.subjects = make(map[string]*models.Subject)
	}
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, userID, id string) error {
	delete(m.subjects, id)
	return nil
}

func (m *mockSubjectRepo) Finish(ctx context.Context, record *models.HistoryRecord) error {
	if m.finishErr != nil {
		return m.finishErr
	}
	record.ID = "hist-1"
	m.finished = record
	delete(m.subjects, record.SubjectID)
	return nil
}

func scoredTree(userID string, target *float64, score, max float64) *models.SubjectTree {
	tree := &models.SubjectTree{
		Subject: models.Subject{
			ID:          "sub-1",
			UserID:      userID,
			Name:        "Calculus",
			TargetGrade: target,
			Units:       3,
		},
	}
	tree.Components = []models.ComponentTree{
		{
			Component: models.Component{ID: "c1", SubjectID: "sub-1", Name: "Exams", Percentage: "100"},
			Items: []models.Item{
				{ID: "i1", Name: "Midterm Exam", Score: &score, Max: &max},
			},
		},
	}
	return tree
}

func newSubjectService(repo *mockSubjectRepo) *SubjectService {
	return NewSubjectService(repo, nil, validator.New(), zap.NewNop())
}

func TestSubjectCreateDefaultsUnits(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newSubjectService(repo)

	subject, err := svc.Create(context.Background(), "u1", models.CreateSubjectRequest{Name: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, grading.DefaultUnits, subject.Units)
	assert.Equal(t, "u1", subject.UserID)
}

func TestSubjectCreateInvalidTarget(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newSubjectService(repo)

	bad := 7.5
	_, err := svc.Create(context.Background(), "u1", models.CreateSubjectRequest{Name: "Physics", TargetGrade: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectGetNotFound(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newSubjectService(repo)

	_, err := svc.Get(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectFinishReached(t *testing.T) {
	target := 2.0
	repo := &mockSubjectRepo{tree: scoredTree("u1", &target, 90, 100)}
	repo.subjects = map[string]*models.Subject{"sub-1": &repo.tree.Subject}
	svc := newSubjectService(repo)

	result, err := svc.Finish(context.Background(), "u1", "sub-1")
	require.NoError(t, err)
	assert.InDelta(t, 90.0, result.Percent, 0.001)
	assert.InDelta(t, 1.75, result.FinalGrade, 0.001)

	require.NotNil(t, repo.finished)
	assert.Equal(t, models.HistoryReached, repo.finished.Status)
	assert.Equal(t, "1.75", repo.finished.FinalGrade)
	assert.Equal(t, "2.00", repo.finished.TargetGrade)
	assert.Equal(t, 3.0, repo.finished.Units)
}

func TestSubjectFinishMissed(t *testing.T) {
	target := 1.5
	repo := &mockSubjectRepo{tree: scoredTree("u1", &target, 90, 100)}
	svc := newSubjectService(repo)

	result, err := svc.Finish(context.Background(), "u1", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, models.HistoryMissed, result.Record.Status)
}

func TestSubjectFinishNoTargetReached(t *testing.T) {
	repo := &mockSubjectRepo{tree: scoredTree("u1", nil, 50, 100)}
	svc := newSubjectService(repo)

	result, err := svc.Finish(context.Background(), "u1", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, models.HistoryReached, result.Record.Status)
	assert.Empty(t, result.Record.TargetGrade)
	assert.Equal(t, "5.00", result.Record.FinalGrade)
}

func TestSubjectFinishRepositoryError(t *testing.T) {
	repo := &mockSubjectRepo{tree: scoredTree("u1", nil, 90, 100), finishErr: assert.AnError}
	svc := newSubjectService(repo)

	_, err := svc.Finish(context.Background(), "u1", "sub-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestSubjectOverviewSnapshot(t *testing.T) {
	target := 2.0
	repo := &mockSubjectRepo{tree: scoredTree("u1", &target, 90, 100)}
	svc := newSubjectService(repo)

	snapshot, err := svc.Overview(context.Background(), "u1", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Calculus", snapshot.SubjectName)
	assert.InDelta(t, 90.0, snapshot.CurrentPercent, 0.001)
	assert.Equal(t, grading.ZoneGreen, snapshot.SafetyZone)
	assert.Equal(t, 1, snapshot.ItemsCompleted)
}

func TestSubjectUpdatePartial(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]*models.Subject{
		"sub-1": {ID: "sub-1", UserID: "u1", Name: "Old", Units: 3},
	}}
	svc := newSubjectService(repo)

	name := "New Name"
	units := 4.0
	subject, err := svc.Update(context.Background(), "u1", "sub-1", models.UpdateSubjectRequest{Name: &name, Units: &units})
	require.NoError(t, err)
	assert.Equal(t, "New Name", subject.Name)
	assert.Equal(t, 4.0, subject.Units)
}
