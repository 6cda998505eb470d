package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/pkg/config"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type mockWindowRepo struct {
	windows  map[string]models.AvailabilityWindow
	created  []models.AvailabilityWindow
	batches  [][]models.AvailabilityWindow
	deleted  []string
	matching []models.AvailabilityWindow
	nextID   int
}

func (m *mockWindowRepo) ListByTrainer(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range m.windows {
		if w.TrainerID != filter.TrainerID {
			continue
		}
		if filter.DateFrom != nil && w.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && w.Date.After(*filter.DateTo) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (m *mockWindowRepo) ListByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range m.windows {
		if w.TrainerID == trainerID && w.Date.Equal(date) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockWindowRepo) FindByID(ctx context.Context, id string) (*models.AvailabilityWindow, error) {
	if w, ok := m.windows[id]; ok {
		return &w, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockWindowRepo) FindMatching(ctx context.Context, trainerID string, from, to time.Time, startTime, endTime string) ([]models.AvailabilityWindow, error) {
	return m.matching, nil
}

func (m *mockWindowRepo) Create(ctx context.Context, window *models.AvailabilityWindow) error {
	if window.ID == "" {
		window.ID = "win-generated"
	}
	if m.windows == nil {
		m.windows = make(map[string]models.AvailabilityWindow)
	}
	m.windows[window.ID] = *window
	m.created = append(m.created, *window)
	return nil
}

func (m *mockWindowRepo) CreateBatch(ctx context.Context, windows []models.AvailabilityWindow) error {
	m.batches = append(m.batches, windows)
	return nil
}

func (m *mockWindowRepo) Delete(ctx context.Context, id string) error {
	delete(m.windows, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockWindowRepo) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	m.deleted = append(m.deleted, ids...)
	return len(ids), nil
}

type mockBlockReader struct {
	blocks []models.ScheduleBlock
}

func (m *mockBlockReader) ListByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range m.blocks {
		if b.TrainerID == trainerID && b.Date.Equal(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBlockReader) ListByTrainerBetween(ctx context.Context, trainerID string, from, to time.Time) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range m.blocks {
		if b.TrainerID == trainerID && !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockTrainerResolver struct {
	byUserID map[string]models.Trainer
}

func (m *mockTrainerResolver) FindByUserID(ctx context.Context, userID string) (*models.Trainer, error) {
	if tr, ok := m.byUserID[userID]; ok {
		return &tr, nil
	}
	return nil, sql.ErrNoRows
}

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func newAvailabilityService(windows *mockWindowRepo, blocks *mockBlockReader, trainers *mockTrainerResolver) *AvailabilityService {
	if windows == nil {
		windows = &mockWindowRepo{}
	}
	if blocks == nil {
		blocks = &mockBlockReader{}
	}
	if trainers == nil {
		trainers = &mockTrainerResolver{}
	}
	svc := NewAvailabilityService(windows, blocks, trainers, config.AvailabilityConfig{}, validator.New(), zap.NewNop())
	svc.now = func() time.Time { return day("2026-09-01") }
	return svc
}

var admin = Actor{UserID: "admin-user", Role: models.RoleAdmin}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err).Code
}

func TestOverlapsRange(t *testing.T) {
	// touching endpoints never overlap
	assert.False(t, overlapsRange(480, 600, 600, 720))
	assert.False(t, overlapsRange(600, 720, 480, 600))
	// partial overlap is symmetric
	assert.True(t, overlapsRange(600, 690, 630, 720))
	assert.True(t, overlapsRange(630, 720, 600, 690))
	// containment
	assert.True(t, overlapsRange(480, 720, 540, 600))
	assert.True(t, overlapsRange(540, 600, 480, 720))
}

func TestReconcileWindowWithoutBlocks(t *testing.T) {
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "08:00", EndTime: "12:00"},
	}}
	svc := newAvailabilityService(windows, nil, nil)

	segments, err := svc.Reconcile(context.Background(), admin, "t1", nil, nil)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, models.SegmentAvailable, segments[0].Label)
	assert.Equal(t, "08:00", segments[0].StartTime)
	assert.Equal(t, "12:00", segments[0].EndTime)
}

func TestReconcileSingleBlockSplitsWindow(t *testing.T) {
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "08:00", EndTime: "12:00"},
	}}
	blocks := &mockBlockReader{blocks: []models.ScheduleBlock{
		{ID: "b1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "09:00", EndTime: "10:00"},
	}}
	svc := newAvailabilityService(windows, blocks, nil)

	segments, err := svc.Reconcile(context.Background(), admin, "t1", nil, nil)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, models.SegmentAvailable, segments[0].Label)
	assert.Equal(t, "08:00", segments[0].StartTime)
	assert.Equal(t, "09:00", segments[0].EndTime)

	assert.Equal(t, models.SegmentOccupied, segments[1].Label)
	assert.Equal(t, "09:00", segments[1].StartTime)
	assert.Equal(t, "10:00", segments[1].EndTime)
	assert.Equal(t, "b1", segments[1].BlockID)

	assert.Equal(t, models.SegmentAvailable, segments[2].Label)
	assert.Equal(t, "10:00", segments[2].StartTime)
	assert.Equal(t, "12:00", segments[2].EndTime)
}

func TestReconcileOccupiedSegmentNotClipped(t *testing.T) {
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "08:00", EndTime: "12:00"},
	}}
	blocks := &mockBlockReader{blocks: []models.ScheduleBlock{
		{ID: "b1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "11:00", EndTime: "13:00"},
	}}
	svc := newAvailabilityService(windows, blocks, nil)

	segments, err := svc.Reconcile(context.Background(), admin, "t1", nil, nil)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, models.SegmentAvailable, segments[0].Label)
	assert.Equal(t, "11:00", segments[0].EndTime)
	assert.Equal(t, models.SegmentOccupied, segments[1].Label)
	// occupied runs to the block end even past the window end
	assert.Equal(t, "13:00", segments[1].EndTime)
}

func TestReconcileUnorderedOverlappingBlocks(t *testing.T) {
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "08:00", EndTime: "14:00"},
	}}
	// stored out of order, second block starts inside the first
	blocks := &mockBlockReader{blocks: []models.ScheduleBlock{
		{ID: "b2", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "10:00", EndTime: "11:00"},
		{ID: "b1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "09:00", EndTime: "10:30"},
	}}
	svc := newAvailabilityService(windows, blocks, nil)

	segments, err := svc.Reconcile(context.Background(), admin, "t1", nil, nil)
	require.NoError(t, err)
	require.Len(t, segments, 4)
	assert.Equal(t, "08:00", segments[0].StartTime)
	assert.Equal(t, "09:00", segments[0].EndTime)
	assert.Equal(t, "b1", segments[1].BlockID)
	assert.Equal(t, "b2", segments[2].BlockID)
	// cursor stayed at 11:00, never went back to 10:30
	assert.Equal(t, "11:00", segments[3].StartTime)
	assert.Equal(t, "14:00", segments[3].EndTime)
}

func TestReconcileForbiddenForOtherTrainer(t *testing.T) {
	trainers := &mockTrainerResolver{byUserID: map[string]models.Trainer{
		"user-1": {ID: "t1"},
	}}
	svc := newAvailabilityService(nil, nil, trainers)

	_, err := svc.Reconcile(context.Background(), Actor{UserID: "user-1", Role: models.RoleTrainer}, "t2", nil, nil)
	assert.Equal(t, appErrors.ErrForbidden.Code, errCode(t, err))

	_, err = svc.Reconcile(context.Background(), Actor{UserID: "user-9", Role: models.RoleTrainee}, "t1", nil, nil)
	assert.Equal(t, appErrors.ErrForbidden.Code, errCode(t, err))
}

func TestCreateWindowRejectsShortWindow(t *testing.T) {
	svc := newAvailabilityService(nil, nil, nil)

	_, err := svc.CreateWindow(context.Background(), admin, CreateWindowRequest{
		TrainerID: "t1", Date: "2026-09-10", StartTime: "09:00", EndTime: "09:30",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))
}

func TestCreateWindowRejectsInvertedBand(t *testing.T) {
	svc := newAvailabilityService(nil, nil, nil)

	_, err := svc.CreateWindow(context.Background(), admin, CreateWindowRequest{
		TrainerID: "t1", Date: "2026-09-10", StartTime: "12:00", EndTime: "10:00",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))
}

func TestCreateWindowConflictsWithOverlap(t *testing.T) {
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "10:00", EndTime: "11:30"},
	}}
	svc := newAvailabilityService(windows, nil, nil)

	_, err := svc.CreateWindow(context.Background(), admin, CreateWindowRequest{
		TrainerID: "t1", Date: "2026-09-10", StartTime: "10:30", EndTime: "12:00",
	})
	assert.Equal(t, appErrors.ErrConflict.Code, errCode(t, err))
}

func TestCreateWindowAllowsTouchingEndpoints(t *testing.T) {
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-09-10"), StartTime: "08:00", EndTime: "10:00"},
	}}
	svc := newAvailabilityService(windows, nil, nil)

	window, err := svc.CreateWindow(context.Background(), admin, CreateWindowRequest{
		TrainerID: "t1", Date: "2026-09-10", StartTime: "10:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", window.StartTime)
	assert.Equal(t, "12:00", window.EndTime)
}

func TestCreateWindowRangeSkipsWeekends(t *testing.T) {
	windows := &mockWindowRepo{}
	svc := newAvailabilityService(windows, nil, nil)

	// 2026-09-07 is a Monday; the span covers two full weeks
	result, err := svc.CreateWindowRange(context.Background(), admin, CreateWindowRangeRequest{
		TrainerID: "t1", DateFrom: "2026-09-07", DateTo: "2026-09-18",
		StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Count)
	require.Len(t, windows.batches, 1)
	for _, w := range windows.batches[0] {
		wd := w.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestCreateWindowRangeRejectsWeekendOnlyRange(t *testing.T) {
	svc := newAvailabilityService(nil, nil, nil)

	// Saturday to Sunday
	_, err := svc.CreateWindowRange(context.Background(), admin, CreateWindowRangeRequest{
		TrainerID: "t1", DateFrom: "2026-09-12", DateTo: "2026-09-13",
		StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))
}

func TestCreateWindowRangeRejectsBandOutsideDailyLimits(t *testing.T) {
	svc := newAvailabilityService(nil, nil, nil)

	_, err := svc.CreateWindowRange(context.Background(), admin, CreateWindowRangeRequest{
		TrainerID: "t1", DateFrom: "2026-09-07", DateTo: "2026-09-11",
		StartTime: "07:00", EndTime: "10:00",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))

	_, err = svc.CreateWindowRange(context.Background(), admin, CreateWindowRangeRequest{
		TrainerID: "t1", DateFrom: "2026-09-07", DateTo: "2026-09-11",
		StartTime: "21:00", EndTime: "23:30",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))
}

func TestCreateWindowRangeAbortsOnAnyConflict(t *testing.T) {
	// an existing window on the Wednesday collides, nothing is inserted
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-09-09"), StartTime: "10:00", EndTime: "11:00"},
	}}
	svc := newAvailabilityService(windows, nil, nil)

	_, err := svc.CreateWindowRange(context.Background(), admin, CreateWindowRangeRequest{
		TrainerID: "t1", DateFrom: "2026-09-07", DateTo: "2026-09-11",
		StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, appErrors.ErrConflict.Code, errCode(t, err))
	assert.Empty(t, windows.batches)
}

func TestDeleteWindowLeadTimeBoundary(t *testing.T) {
	// now is fixed at 2026-09-01, so the cutoff lands on 2026-10-01
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"boundary": {ID: "boundary", TrainerID: "t1", Date: day("2026-10-01"), StartTime: "09:00", EndTime: "12:00"},
		"beyond":   {ID: "beyond", TrainerID: "t1", Date: day("2026-10-02"), StartTime: "09:00", EndTime: "12:00"},
	}}
	svc := newAvailabilityService(windows, nil, nil)

	err := svc.DeleteWindow(context.Background(), admin, "boundary")
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))

	err = svc.DeleteWindow(context.Background(), admin, "beyond")
	require.NoError(t, err)
	assert.Contains(t, windows.deleted, "beyond")
}

func TestDeleteWindowRejectedWhenOccupied(t *testing.T) {
	windows := &mockWindowRepo{windows: map[string]models.AvailabilityWindow{
		"w1": {ID: "w1", TrainerID: "t1", Date: day("2026-12-10"), StartTime: "09:00", EndTime: "12:00"},
	}}
	blocks := &mockBlockReader{blocks: []models.ScheduleBlock{
		{ID: "b1", TrainerID: "t1", Date: day("2026-12-10"), StartTime: "10:00", EndTime: "11:00"},
	}}
	svc := newAvailabilityService(windows, blocks, nil)

	err := svc.DeleteWindow(context.Background(), admin, "w1")
	assert.Equal(t, appErrors.ErrConflict.Code, errCode(t, err))
	assert.Empty(t, windows.deleted)
}

func TestDeleteWindowNotFound(t *testing.T) {
	svc := newAvailabilityService(nil, nil, nil)

	err := svc.DeleteWindow(context.Background(), admin, "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(t, err))
}

func TestDeleteWindowRangeDeletesExactMatches(t *testing.T) {
	windows := &mockWindowRepo{matching: []models.AvailabilityWindow{
		{ID: "w1", TrainerID: "t1", Date: day("2026-12-07"), StartTime: "09:00", EndTime: "12:00"},
		{ID: "w2", TrainerID: "t1", Date: day("2026-12-08"), StartTime: "09:00", EndTime: "12:00"},
	}}
	svc := newAvailabilityService(windows, nil, nil)

	result, err := svc.DeleteWindowRange(context.Background(), admin, DeleteWindowRangeRequest{
		TrainerID: "t1", DateFrom: "2026-12-01", DateTo: "2026-12-31",
		StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.ElementsMatch(t, []string{"w1", "w2"}, windows.deleted)
}

func TestDeleteWindowRangeNoMatches(t *testing.T) {
	svc := newAvailabilityService(&mockWindowRepo{}, nil, nil)

	_, err := svc.DeleteWindowRange(context.Background(), admin, DeleteWindowRangeRequest{
		TrainerID: "t1", DateFrom: "2026-12-01", DateTo: "2026-12-31",
		StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(t, err))
}

func TestTrainerManagesOwnWindows(t *testing.T) {
	trainers := &mockTrainerResolver{byUserID: map[string]models.Trainer{
		"user-1": {ID: "t1"},
	}}
	svc := newAvailabilityService(&mockWindowRepo{}, nil, trainers)

	window, err := svc.CreateWindow(context.Background(), Actor{UserID: "user-1", Role: models.RoleTrainer}, CreateWindowRequest{
		TrainerID: "t1", Date: "2026-09-10", StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", window.TrainerID)
}
