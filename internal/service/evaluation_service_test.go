package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type mockEvaluationRepo struct {
	evaluations map[string]models.Evaluation
	updated     []string
}

func (m *mockEvaluationRepo) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	var out []models.Evaluation
	for _, e := range m.evaluations {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEvaluationRepo) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	if e, ok := m.evaluations[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEvaluationRepo) FindByEnrollmentAndModule(ctx context.Context, enrollmentID, moduleID string) (*models.Evaluation, error) {
	for _, e := range m.evaluations {
		if e.EnrollmentID == enrollmentID && e.ModuleID == moduleID {
			found := e
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEvaluationRepo) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if m.evaluations == nil {
		m.evaluations = make(map[string]models.Evaluation)
	}
	m.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (m *mockEvaluationRepo) Update(ctx context.Context, evaluation *models.Evaluation) error {
	m.evaluations[evaluation.ID] = *evaluation
	m.updated = append(m.updated, evaluation.ID)
	return nil
}

type mockEnrollmentReader struct {
	enrollments map[string]models.Enrollment
}

func (m *mockEnrollmentReader) FindEnrollmentByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func newEvaluationService(repo *mockEvaluationRepo, enrollmentID, moduleID string) *EvaluationService {
	enrollments := &mockEnrollmentReader{enrollments: map[string]models.Enrollment{
		enrollmentID: {ID: enrollmentID, ClassID: "c1", TraineeID: "tr1"},
	}}
	modules := &mockModuleReader{modules: map[string]models.Module{
		moduleID: {ID: moduleID, TotalHours: 10},
	}}
	return NewEvaluationService(repo, enrollments, modules, nil, nil)
}

func TestEvaluationRecordCreates(t *testing.T) {
	enrollmentID, moduleID := uuid.NewString(), uuid.NewString()
	repo := &mockEvaluationRepo{}
	svc := newEvaluationService(repo, enrollmentID, moduleID)

	evaluation, err := svc.Record(context.Background(), RecordEvaluationRequest{
		EnrollmentID: enrollmentID, ModuleID: moduleID, Score: 14,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, evaluation.ID)
	assert.Equal(t, 14.0, evaluation.Score)
	assert.Empty(t, repo.updated)
}

func TestEvaluationRecordOverwritesExistingScore(t *testing.T) {
	enrollmentID, moduleID := uuid.NewString(), uuid.NewString()
	repo := &mockEvaluationRepo{}
	svc := newEvaluationService(repo, enrollmentID, moduleID)

	first, err := svc.Record(context.Background(), RecordEvaluationRequest{
		EnrollmentID: enrollmentID, ModuleID: moduleID, Score: 9,
	})
	require.NoError(t, err)

	second, err := svc.Record(context.Background(), RecordEvaluationRequest{
		EnrollmentID: enrollmentID, ModuleID: moduleID, Score: 16,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 16.0, second.Score)
	assert.Equal(t, []string{first.ID}, repo.updated)
}

func TestEvaluationRecordScoreOutOfRange(t *testing.T) {
	enrollmentID, moduleID := uuid.NewString(), uuid.NewString()
	svc := newEvaluationService(&mockEvaluationRepo{}, enrollmentID, moduleID)

	_, err := svc.Record(context.Background(), RecordEvaluationRequest{
		EnrollmentID: enrollmentID, ModuleID: moduleID, Score: 21,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEvaluationRecordUnknownEnrollment(t *testing.T) {
	enrollmentID, moduleID := uuid.NewString(), uuid.NewString()
	svc := newEvaluationService(&mockEvaluationRepo{}, enrollmentID, moduleID)

	_, err := svc.Record(context.Background(), RecordEvaluationRequest{
		EnrollmentID: uuid.NewString(), ModuleID: moduleID, Score: 10,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
