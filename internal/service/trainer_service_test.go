package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type mockTrainerRepo struct {
	trainers  map[string]models.Trainer
	listCalls int
}

func (m *mockTrainerRepo) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error) {
	m.listCalls++
	var out []models.Trainer
	for _, tr := range m.trainers {
		out = append(out, tr)
	}
	return out, len(out), nil
}

func (m *mockTrainerRepo) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	if tr, ok := m.trainers[id]; ok {
		return &tr, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTrainerRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, tr := range m.trainers {
		if tr.Email == email && tr.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTrainerRepo) Create(ctx context.Context, trainer *models.Trainer) error {
	if m.trainers == nil {
		m.trainers = make(map[string]models.Trainer)
	}
	m.trainers[trainer.ID] = *trainer
	return nil
}

func (m *mockTrainerRepo) Update(ctx context.Context, trainer *models.Trainer) error {
	m.trainers[trainer.ID] = *trainer
	return nil
}

func (m *mockTrainerRepo) Deactivate(ctx context.Context, id string) error {
	tr := m.trainers[id]
	tr.Active = false
	m.trainers[id] = tr
	return nil
}

// mockCache round-trips values through JSON the way the redis cache does.
type mockCache struct {
	entries     map[string][]byte
	invalidated []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	return nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.entries = nil
	return nil
}

func TestTrainerListPopulatesAndUsesCache(t *testing.T) {
	repo := &mockTrainerRepo{trainers: map[string]models.Trainer{
		"t1": {ID: "t1", Email: "ana@forma.pt", FullName: "Ana Marques", Active: true},
	}}
	cache := &mockCache{}
	svc := NewTrainerService(repo, cache, nil, nil)

	filter := models.TrainerFilter{Page: 1, PageSize: 20}
	trainers, pagination, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, trainers, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, repo.listCalls)

	// second identical call is served from the cache
	trainers, _, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, trainers, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestTrainerListWithoutCache(t *testing.T) {
	repo := &mockTrainerRepo{}
	svc := NewTrainerService(repo, nil, nil, nil)

	trainers, pagination, err := svc.List(context.Background(), models.TrainerFilter{})
	require.NoError(t, err)
	assert.Empty(t, trainers)
	assert.Zero(t, pagination.TotalCount)
}

func TestTrainerCreateInvalidatesListCache(t *testing.T) {
	repo := &mockTrainerRepo{}
	cache := &mockCache{}
	svc := NewTrainerService(repo, cache, nil, nil)

	trainer, err := svc.Create(context.Background(), CreateTrainerRequest{
		Email: "rui@forma.pt", FullName: "Rui Costa",
	})
	require.NoError(t, err)
	assert.True(t, trainer.Active)
	assert.NotEmpty(t, trainer.ID)
	assert.Equal(t, []string{"trainers:list:*"}, cache.invalidated)
}

func TestTrainerCreateDuplicateEmail(t *testing.T) {
	repo := &mockTrainerRepo{trainers: map[string]models.Trainer{
		"t1": {ID: "t1", Email: "ana@forma.pt", FullName: "Ana Marques"},
	}}
	svc := NewTrainerService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateTrainerRequest{
		Email: "ana@forma.pt", FullName: "Outra Ana",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTrainerCreateInvalidPayload(t *testing.T) {
	svc := NewTrainerService(&mockTrainerRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateTrainerRequest{Email: "not-an-email", FullName: "X"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTrainerUpdateEmailConflict(t *testing.T) {
	repo := &mockTrainerRepo{trainers: map[string]models.Trainer{
		"t1": {ID: "t1", Email: "ana@forma.pt", FullName: "Ana Marques"},
		"t2": {ID: "t2", Email: "rui@forma.pt", FullName: "Rui Costa"},
	}}
	svc := NewTrainerService(repo, nil, nil, nil)

	email := "rui@forma.pt"
	_, err := svc.Update(context.Background(), "t1", UpdateTrainerRequest{Email: &email})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTrainerUpdateUnknown(t *testing.T) {
	svc := NewTrainerService(&mockTrainerRepo{}, nil, nil, nil)

	name := "Novo Nome"
	_, err := svc.Update(context.Background(), "missing", UpdateTrainerRequest{FullName: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTrainerDeactivate(t *testing.T) {
	repo := &mockTrainerRepo{trainers: map[string]models.Trainer{
		"t1": {ID: "t1", Email: "ana@forma.pt", FullName: "Ana Marques", Active: true},
	}}
	cache := &mockCache{}
	svc := NewTrainerService(repo, cache, nil, nil)

	require.NoError(t, svc.Deactivate(context.Background(), "t1"))
	assert.False(t, repo.trainers["t1"].Active)
	assert.Equal(t, []string{"trainers:list:*"}, cache.invalidated)
}
