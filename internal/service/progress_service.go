package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type progressScheduleReader interface {
	ListByTrainerBetween(ctx context.Context, trainerID string, from, to time.Time) ([]models.ScheduleBlock, error)
	ListByTrainerClassModule(ctx context.Context, trainerID, classID, moduleID string) ([]models.ScheduleBlock, error)
}

type progressModuleReader interface {
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
}

// ProgressService aggregates taught hours from schedule blocks and
// derives per-module teaching status. Results are computed fresh per
// request; nothing is stored.
type ProgressService struct {
	blocks  progressScheduleReader
	modules progressModuleReader
	logger  *zap.Logger
	now     func() time.Time
}

// NewProgressService constructs a ProgressService.
func NewProgressService(blocks progressScheduleReader, modules progressModuleReader, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{blocks: blocks, modules: modules, logger: logger, now: time.Now}
}

// TaughtHours sums the duration of a trainer's blocks inside [from,
// to], never counting blocks dated after today. Blocks whose end does
// not exceed their start contribute zero.
func (s *ProgressService) TaughtHours(ctx context.Context, trainerID string, from, to time.Time) (float64, error) {
	today := s.today()
	if to.After(today) {
		to = today
	}
	if to.Before(from) {
		return 0, nil
	}
	blocks, err := s.blocks.ListByTrainerBetween(ctx, trainerID, from, to)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
	}
	return s.sumHours(blocks), nil
}

// TaughtHoursMonth sums taught hours for the current calendar month,
// or the previous one.
func (s *ProgressService) TaughtHoursMonth(ctx context.Context, trainerID string, previous bool) (float64, error) {
	now := s.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if previous {
		first = first.AddDate(0, -1, 0)
	}
	last := first.AddDate(0, 1, -1)
	return s.TaughtHours(ctx, trainerID, first, last)
}

// ModuleProgress reports taught hours of one (class, module, trainer)
// tuple against the module's required total and labels the tuple
// NotStarted, InProgress or Finished.
func (s *ProgressService) ModuleProgress(ctx context.Context, trainerID, classID, moduleID string) (*models.ModuleProgress, error) {
	module, err := s.modules.FindModuleByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	blocks, err := s.blocks.ListByTrainerClassModule(ctx, trainerID, classID, moduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
	}

	today := s.today()
	taught := 0.0
	for _, b := range blocks {
		if b.Date.After(today) {
			continue
		}
		taught += blockHours(b)
	}

	progress := &models.ModuleProgress{
		ClassID:     classID,
		ModuleID:    moduleID,
		TrainerID:   trainerID,
		TaughtHours: taught,
		TotalHours:  module.TotalHours,
	}
	switch {
	case taught == 0:
		progress.Status = models.TeachingNotStarted
	case taught < module.TotalHours:
		progress.Status = models.TeachingInProgress
	default:
		progress.Status = models.TeachingFinished
	}
	return progress, nil
}

func (s *ProgressService) sumHours(blocks []models.ScheduleBlock) float64 {
	total := 0.0
	for _, b := range blocks {
		total += blockHours(b)
	}
	return total
}

// blockHours returns the length of a block in hours. Degenerate blocks
// (end not after start, or unparseable times) count as zero rather
// than erroring.
func blockHours(b models.ScheduleBlock) float64 {
	start, err := minuteOfDay(b.StartTime)
	if err != nil {
		return 0
	}
	end, err := minuteOfDay(b.EndTime)
	if err != nil {
		return 0
	}
	if end <= start {
		return 0
	}
	return float64(end-start) / 60.0
}

func (s *ProgressService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
