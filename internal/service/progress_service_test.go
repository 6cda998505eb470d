package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type mockProgressBlocks struct {
	blocks []models.ScheduleBlock
}

func (m *mockProgressBlocks) ListByTrainerBetween(ctx context.Context, trainerID string, from, to time.Time) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range m.blocks {
		if b.TrainerID == trainerID && !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockProgressBlocks) ListByTrainerClassModule(ctx context.Context, trainerID, classID, moduleID string) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range m.blocks {
		if b.TrainerID == trainerID && b.ClassID == classID && b.ModuleID == moduleID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockModuleReader struct {
	modules map[string]models.Module
}

func (m *mockModuleReader) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	if mod, ok := m.modules[id]; ok {
		return &mod, nil
	}
	return nil, sql.ErrNoRows
}

func newProgressService(blocks *mockProgressBlocks, modules *mockModuleReader) *ProgressService {
	if blocks == nil {
		blocks = &mockProgressBlocks{}
	}
	if modules == nil {
		modules = &mockModuleReader{}
	}
	svc := NewProgressService(blocks, modules, zap.NewNop())
	svc.now = func() time.Time { return day("2026-09-15") }
	return svc
}

func TestTaughtHoursEmpty(t *testing.T) {
	svc := newProgressService(nil, nil)

	hours, err := svc.TaughtHours(context.Background(), "t1", day("2026-09-01"), day("2026-09-10"))
	require.NoError(t, err)
	assert.Zero(t, hours)
}

func TestTaughtHoursSumsBlocks(t *testing.T) {
	blocks := &mockProgressBlocks{blocks: []models.ScheduleBlock{
		{TrainerID: "t1", Date: day("2026-09-07"), StartTime: "09:00", EndTime: "10:30"},
		{TrainerID: "t1", Date: day("2026-09-08"), StartTime: "14:00", EndTime: "16:00"},
	}}
	svc := newProgressService(blocks, nil)

	hours, err := svc.TaughtHours(context.Background(), "t1", day("2026-09-01"), day("2026-09-10"))
	require.NoError(t, err)
	assert.InDelta(t, 3.5, hours, 1e-9)
}

func TestTaughtHoursIgnoresDegenerateBlocks(t *testing.T) {
	blocks := &mockProgressBlocks{blocks: []models.ScheduleBlock{
		{TrainerID: "t1", Date: day("2026-09-07"), StartTime: "10:00", EndTime: "10:00"},
		{TrainerID: "t1", Date: day("2026-09-07"), StartTime: "11:00", EndTime: "10:00"},
		{TrainerID: "t1", Date: day("2026-09-07"), StartTime: "bogus", EndTime: "12:00"},
	}}
	svc := newProgressService(blocks, nil)

	hours, err := svc.TaughtHours(context.Background(), "t1", day("2026-09-01"), day("2026-09-10"))
	require.NoError(t, err)
	assert.Zero(t, hours)
}

func TestTaughtHoursExcludesFutureBlocks(t *testing.T) {
	// now is fixed at 2026-09-15
	blocks := &mockProgressBlocks{blocks: []models.ScheduleBlock{
		{TrainerID: "t1", Date: day("2026-09-14"), StartTime: "09:00", EndTime: "10:00"},
		{TrainerID: "t1", Date: day("2026-09-16"), StartTime: "09:00", EndTime: "10:00"},
	}}
	svc := newProgressService(blocks, nil)

	hours, err := svc.TaughtHours(context.Background(), "t1", day("2026-09-01"), day("2026-09-30"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hours, 1e-9)
}

func TestTaughtHoursRangeEntirelyInFuture(t *testing.T) {
	blocks := &mockProgressBlocks{blocks: []models.ScheduleBlock{
		{TrainerID: "t1", Date: day("2026-10-05"), StartTime: "09:00", EndTime: "10:00"},
	}}
	svc := newProgressService(blocks, nil)

	hours, err := svc.TaughtHours(context.Background(), "t1", day("2026-10-01"), day("2026-10-31"))
	require.NoError(t, err)
	assert.Zero(t, hours)
}

func TestTaughtHoursMonthWindows(t *testing.T) {
	blocks := &mockProgressBlocks{blocks: []models.ScheduleBlock{
		{TrainerID: "t1", Date: day("2026-08-20"), StartTime: "09:00", EndTime: "11:00"},
		{TrainerID: "t1", Date: day("2026-09-10"), StartTime: "09:00", EndTime: "10:00"},
	}}
	svc := newProgressService(blocks, nil)

	current, err := svc.TaughtHoursMonth(context.Background(), "t1", false)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, current, 1e-9)

	previous, err := svc.TaughtHoursMonth(context.Background(), "t1", true)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, previous, 1e-9)
}

func TestModuleProgressStatuses(t *testing.T) {
	modules := &mockModuleReader{modules: map[string]models.Module{
		"m1": {ID: "m1", TotalHours: 2},
	}}

	svc := newProgressService(&mockProgressBlocks{}, modules)
	progress, err := svc.ModuleProgress(context.Background(), "t1", "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.TeachingNotStarted, progress.Status)

	blocks := &mockProgressBlocks{blocks: []models.ScheduleBlock{
		{TrainerID: "t1", ClassID: "c1", ModuleID: "m1", Date: day("2026-09-10"), StartTime: "09:00", EndTime: "10:00"},
	}}
	svc = newProgressService(blocks, modules)
	progress, err = svc.ModuleProgress(context.Background(), "t1", "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.TeachingInProgress, progress.Status)
	assert.InDelta(t, 1.0, progress.TaughtHours, 1e-9)

	blocks.blocks = append(blocks.blocks, models.ScheduleBlock{
		TrainerID: "t1", ClassID: "c1", ModuleID: "m1", Date: day("2026-09-11"), StartTime: "09:00", EndTime: "10:00",
	})
	progress, err = svc.ModuleProgress(context.Background(), "t1", "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.TeachingFinished, progress.Status)
}

func TestModuleProgressUnknownModule(t *testing.T) {
	svc := newProgressService(nil, nil)

	_, err := svc.ModuleProgress(context.Background(), "t1", "c1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
