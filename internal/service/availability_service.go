package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/pkg/config"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type availabilityRepository interface {
	ListByTrainer(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityWindow, error)
	ListByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) ([]models.AvailabilityWindow, error)
	FindByID(ctx context.Context, id string) (*models.AvailabilityWindow, error)
	FindMatching(ctx context.Context, trainerID string, from, to time.Time, startTime, endTime string) ([]models.AvailabilityWindow, error)
	Create(ctx context.Context, window *models.AvailabilityWindow) error
	CreateBatch(ctx context.Context, windows []models.AvailabilityWindow) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
}

type availabilityScheduleReader interface {
	ListByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) ([]models.ScheduleBlock, error)
	ListByTrainerBetween(ctx context.Context, trainerID string, from, to time.Time) ([]models.ScheduleBlock, error)
}

type trainerResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.Trainer, error)
}

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	UserID string
	Role   models.UserRole
}

// CreateWindowRequest declares a single availability window.
type CreateWindowRequest struct {
	TrainerID string `json:"trainer_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// CreateWindowRangeRequest declares one window per weekday across a
// date range, all with the same daily time band.
type CreateWindowRangeRequest struct {
	TrainerID string `json:"trainer_id" validate:"required"`
	DateFrom  string `json:"date_from" validate:"required"`
	DateTo    string `json:"date_to" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// DeleteWindowRangeRequest removes every window matching the exact
// daily time band inside a date range.
type DeleteWindowRangeRequest struct {
	TrainerID string `json:"trainer_id" validate:"required"`
	DateFrom  string `json:"date_from" validate:"required"`
	DateTo    string `json:"date_to" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// RangeResult reports how many windows a bulk operation touched.
type RangeResult struct {
	Count int `json:"count"`
}

// AvailabilityService reconciles trainer availability windows against
// scheduled lesson blocks and validates window mutations.
type AvailabilityService struct {
	windows   availabilityRepository
	blocks    availabilityScheduleReader
	trainers  trainerResolver
	cfg       config.AvailabilityConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(windows availabilityRepository, blocks availabilityScheduleReader, trainers trainerResolver, cfg config.AvailabilityConfig, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DayStart == "" {
		cfg.DayStart = "08:00"
	}
	if cfg.DayEnd == "" {
		cfg.DayEnd = "23:00"
	}
	if cfg.MinWindow <= 0 {
		cfg.MinWindow = time.Hour
	}
	if cfg.DeleteLeadMonths <= 0 {
		cfg.DeleteLeadMonths = 1
	}
	return &AvailabilityService{
		windows:   windows,
		blocks:    blocks,
		trainers:  trainers,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// overlapsRange is the half-open interval overlap predicate. Touching
// endpoints do not count as overlap.
func overlapsRange(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// minuteOfDay converts an "HH:MM" clock string to minutes from midnight.
func minuteOfDay(clock string) (int, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// clockOfMinute formats minutes from midnight back to "HH:MM".
func clockOfMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// Reconcile partitions each availability window of a trainer into
// Available/Occupied segments by subtracting the trainer's scheduled
// blocks. Segments are derived per call and never persisted.
func (s *AvailabilityService) Reconcile(ctx context.Context, actor Actor, trainerID string, from, to *time.Time) ([]models.ReconciledSegment, error) {
	if err := s.authorize(ctx, actor, trainerID); err != nil {
		return nil, err
	}

	windows, err := s.windows.ListByTrainer(ctx, models.AvailabilityFilter{TrainerID: trainerID, DateFrom: from, DateTo: to})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability windows")
	}
	if len(windows) == 0 {
		return []models.ReconciledSegment{}, nil
	}

	rangeFrom, rangeTo := windows[0].Date, windows[0].Date
	for _, w := range windows {
		if w.Date.Before(rangeFrom) {
			rangeFrom = w.Date
		}
		if w.Date.After(rangeTo) {
			rangeTo = w.Date
		}
	}

	blocks, err := s.blocks.ListByTrainerBetween(ctx, trainerID, rangeFrom, rangeTo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
	}

	blocksByDate := make(map[string][]models.ScheduleBlock)
	for _, b := range blocks {
		key := dateKey(b.Date)
		blocksByDate[key] = append(blocksByDate[key], b)
	}

	segments := make([]models.ReconciledSegment, 0, len(windows))
	for _, window := range windows {
		winSegs, err := s.reconcileWindow(window, blocksByDate[dateKey(window.Date)])
		if err != nil {
			s.logger.Warn("skipping malformed availability window",
				zap.String("window_id", window.ID), zap.Error(err))
			continue
		}
		segments = append(segments, winSegs...)
	}
	return segments, nil
}

// reconcileWindow walks a cursor from the window start: gaps before
// each occupying block become Available segments, the block itself an
// Occupied segment. Occupied segments are not clipped to the window
// end; the cursor never moves backwards, so blocks that overlap each
// other only extend the occupied front.
func (s *AvailabilityService) reconcileWindow(window models.AvailabilityWindow, sameDay []models.ScheduleBlock) ([]models.ReconciledSegment, error) {
	winStart, err := minuteOfDay(window.StartTime)
	if err != nil {
		return nil, err
	}
	winEnd, err := minuteOfDay(window.EndTime)
	if err != nil {
		return nil, err
	}

	type span struct {
		start, end int
		blockID    string
	}
	var occupying []span
	for _, b := range sameDay {
		bStart, err := minuteOfDay(b.StartTime)
		if err != nil {
			s.logger.Warn("skipping malformed schedule block", zap.String("block_id", b.ID), zap.Error(err))
			continue
		}
		bEnd, err := minuteOfDay(b.EndTime)
		if err != nil {
			s.logger.Warn("skipping malformed schedule block", zap.String("block_id", b.ID), zap.Error(err))
			continue
		}
		if overlapsRange(winStart, winEnd, bStart, bEnd) {
			occupying = append(occupying, span{start: bStart, end: bEnd, blockID: b.ID})
		}
	}
	sort.SliceStable(occupying, func(i, j int) bool { return occupying[i].start < occupying[j].start })

	var segments []models.ReconciledSegment
	cursor := winStart
	for _, block := range occupying {
		if cursor < block.start {
			segments = append(segments, models.ReconciledSegment{
				Date:      window.Date,
				StartTime: clockOfMinute(cursor),
				EndTime:   clockOfMinute(block.start),
				Label:     models.SegmentAvailable,
			})
		}
		segments = append(segments, models.ReconciledSegment{
			Date:      window.Date,
			StartTime: clockOfMinute(block.start),
			EndTime:   clockOfMinute(block.end),
			Label:     models.SegmentOccupied,
			BlockID:   block.blockID,
		})
		if block.end > cursor {
			cursor = block.end
		}
	}
	if cursor < winEnd {
		segments = append(segments, models.ReconciledSegment{
			Date:      window.Date,
			StartTime: clockOfMinute(cursor),
			EndTime:   clockOfMinute(winEnd),
			Label:     models.SegmentAvailable,
		})
	}
	return segments, nil
}

// CreateWindow declares a single availability window. The window must
// span at least the configured minimum and must not overlap any
// existing window for the same trainer and date. There is no lead-time
// restriction on creation.
func (s *AvailabilityService) CreateWindow(ctx context.Context, actor Actor, req CreateWindowRequest) (*models.AvailabilityWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if err := s.authorize(ctx, actor, req.TrainerID); err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}
	start, end, err := s.parseBand(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	existing, err := s.windows.ListByTrainerAndDate(ctx, req.TrainerID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing windows")
	}
	if err := s.checkWindowConflicts(existing, start, end); err != nil {
		return nil, err
	}

	window := &models.AvailabilityWindow{
		TrainerID: req.TrainerID,
		Date:      date,
		StartTime: clockOfMinute(start),
		EndTime:   clockOfMinute(end),
	}
	if err := s.windows.Create(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability window")
	}
	return window, nil
}

// CreateWindowRange declares one window per weekday of [DateFrom,
// DateTo] with the same daily time band. The operation is
// all-or-nothing: a conflict on any eligible day aborts the whole
// batch before any insert.
func (s *AvailabilityService) CreateWindowRange(ctx context.Context, actor Actor, req CreateWindowRangeRequest) (*RangeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if err := s.authorize(ctx, actor, req.TrainerID); err != nil {
		return nil, err
	}

	from, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_from must use YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, req.DateTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_to must use YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_to must not precede date_from")
	}

	start, end, err := s.parseBand(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	dayStart, _ := minuteOfDay(s.cfg.DayStart)
	dayEnd, _ := minuteOfDay(s.cfg.DayEnd)
	if start < dayStart || end > dayEnd {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("windows must lie within %s-%s", s.cfg.DayStart, s.cfg.DayEnd))
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range contains no weekdays")
	}

	for _, day := range days {
		existing, err := s.windows.ListByTrainerAndDate(ctx, req.TrainerID, day)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing windows")
		}
		if err := s.checkWindowConflicts(existing, start, end); err != nil {
			return nil, err
		}
	}

	batch := make([]models.AvailabilityWindow, 0, len(days))
	for _, day := range days {
		batch = append(batch, models.AvailabilityWindow{
			TrainerID: req.TrainerID,
			Date:      day,
			StartTime: clockOfMinute(start),
			EndTime:   clockOfMinute(end),
		})
	}
	if err := s.windows.CreateBatch(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability windows")
	}
	return &RangeResult{Count: len(batch)}, nil
}

// DeleteWindow removes a single window. Deletion requires the window
// to lie strictly more than the configured lead time ahead and to be
// free of overlapping schedule blocks.
func (s *AvailabilityService) DeleteWindow(ctx context.Context, actor Actor, id string) error {
	window, err := s.windows.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "availability window not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability window")
	}
	if err := s.authorize(ctx, actor, window.TrainerID); err != nil {
		return err
	}

	today := s.today()
	cutoff := today.AddDate(0, s.cfg.DeleteLeadMonths, 0)
	if !window.Date.After(cutoff) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("windows may only be deleted more than %d month(s) in advance", s.cfg.DeleteLeadMonths))
	}

	if err := s.checkNoOccupyingBlocks(ctx, window.TrainerID, []models.AvailabilityWindow{*window}); err != nil {
		return err
	}

	if err := s.windows.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability window")
	}
	return nil
}

// DeleteWindowRange removes every window of a trainer inside a date
// range that matches the exact start/end band. The whole operation is
// rejected when any matched date has an overlapping schedule block.
func (s *AvailabilityService) DeleteWindowRange(ctx context.Context, actor Actor, req DeleteWindowRangeRequest) (*RangeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if err := s.authorize(ctx, actor, req.TrainerID); err != nil {
		return nil, err
	}

	from, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_from must use YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, req.DateTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_to must use YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_to must not precede date_from")
	}
	if _, err := minuteOfDay(req.StartTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must use HH:MM")
	}
	if _, err := minuteOfDay(req.EndTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must use HH:MM")
	}

	matched, err := s.windows.FindMatching(ctx, req.TrainerID, from, to, req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability windows")
	}
	if len(matched) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no matching availability windows")
	}

	if err := s.checkNoOccupyingBlocks(ctx, req.TrainerID, matched); err != nil {
		return nil, err
	}

	ids := make([]string, len(matched))
	for i, w := range matched {
		ids[i] = w.ID
	}
	count, err := s.windows.DeleteByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability windows")
	}
	return &RangeResult{Count: count}, nil
}

// parseBand validates an HH:MM pair: parseable, start before end and
// at least the configured minimum apart.
func (s *AvailabilityService) parseBand(startTime, endTime string) (int, int, error) {
	start, err := minuteOfDay(startTime)
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "start_time must use HH:MM")
	}
	end, err := minuteOfDay(endTime)
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "end_time must use HH:MM")
	}
	if end <= start {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	minMinutes := int(s.cfg.MinWindow.Minutes())
	if end-start < minMinutes {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("windows must span at least %d minutes", minMinutes))
	}
	return start, end, nil
}

func (s *AvailabilityService) checkWindowConflicts(existing []models.AvailabilityWindow, start, end int) error {
	for _, w := range existing {
		wStart, err := minuteOfDay(w.StartTime)
		if err != nil {
			continue
		}
		wEnd, err := minuteOfDay(w.EndTime)
		if err != nil {
			continue
		}
		if overlapsRange(start, end, wStart, wEnd) {
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("window overlaps existing availability %s-%s on %s", w.StartTime, w.EndTime, dateKey(w.Date)))
		}
	}
	return nil
}

func (s *AvailabilityService) checkNoOccupyingBlocks(ctx context.Context, trainerID string, windows []models.AvailabilityWindow) error {
	for _, window := range windows {
		wStart, err := minuteOfDay(window.StartTime)
		if err != nil {
			continue
		}
		wEnd, err := minuteOfDay(window.EndTime)
		if err != nil {
			continue
		}
		blocks, err := s.blocks.ListByTrainerAndDate(ctx, trainerID, window.Date)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
		}
		for _, b := range blocks {
			bStart, err := minuteOfDay(b.StartTime)
			if err != nil {
				continue
			}
			bEnd, err := minuteOfDay(b.EndTime)
			if err != nil {
				continue
			}
			if overlapsRange(wStart, wEnd, bStart, bEnd) {
				return appErrors.Clone(appErrors.ErrConflict,
					fmt.Sprintf("a lesson occupies %s-%s on %s", b.StartTime, b.EndTime, dateKey(window.Date)))
			}
		}
	}
	return nil
}

// authorize allows admins through and requires trainers to operate on
// their own records.
func (s *AvailabilityService) authorize(ctx context.Context, actor Actor, trainerID string) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTrainer:
		trainer, err := s.trainers.FindByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrForbidden, "no trainer record for caller")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve trainer")
		}
		if trainer.ID != trainerID {
			return appErrors.Clone(appErrors.ErrForbidden, "trainers may only manage their own availability")
		}
		return nil
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "forbidden")
	}
}

func (s *AvailabilityService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
