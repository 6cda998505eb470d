package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleBlock, int, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleBlock, error)
	ListByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) ([]models.ScheduleBlock, error)
	ListByRoomAndDate(ctx context.Context, roomID string, date time.Time) ([]models.ScheduleBlock, error)
	ListByClassAndDate(ctx context.Context, classID string, date time.Time) ([]models.ScheduleBlock, error)
	Create(ctx context.Context, block *models.ScheduleBlock) error
	Delete(ctx context.Context, id string) error
}

// CreateScheduleBlockRequest represents payload for committing a lesson.
type CreateScheduleBlockRequest struct {
	TrainerID string `json:"trainer_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	ModuleID  string `json:"module_id" validate:"required"`
	RoomID    string `json:"room_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ScheduleService orchestrates schedule block operations and guards
// against double-booking a trainer, room or class.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// List returns schedule blocks plus pagination data.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleBlock, *models.Pagination, error) {
	blocks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule blocks")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return blocks, pagination, nil
}

// Get returns a schedule block by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleBlock, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule block")
	}
	return block, nil
}

// Create commits a lesson block after checking the trainer, room and
// class dimensions for collisions on the same date.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleBlockRequest) (*models.ScheduleBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}
	start, err := minuteOfDay(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must use HH:MM")
	}
	end, err := minuteOfDay(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must use HH:MM")
	}
	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if conflict, err := s.findConflict(ctx, req, date, start, end); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Message)
	}

	block := &models.ScheduleBlock{
		TrainerID: req.TrainerID,
		ClassID:   req.ClassID,
		ModuleID:  req.ModuleID,
		RoomID:    req.RoomID,
		Date:      date,
		StartTime: clockOfMinute(start),
		EndTime:   clockOfMinute(end),
	}
	if err := s.repo.Create(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule block")
	}
	return block, nil
}

// Delete removes a schedule block.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule block not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule block")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule block")
	}
	return nil
}

func (s *ScheduleService) findConflict(ctx context.Context, req CreateScheduleBlockRequest, date time.Time, start, end int) (*models.ScheduleConflictError, error) {
	checks := []struct {
		dimension string
		list      func() ([]models.ScheduleBlock, error)
	}{
		{"trainer", func() ([]models.ScheduleBlock, error) { return s.repo.ListByTrainerAndDate(ctx, req.TrainerID, date) }},
		{"room", func() ([]models.ScheduleBlock, error) { return s.repo.ListByRoomAndDate(ctx, req.RoomID, date) }},
		{"class", func() ([]models.ScheduleBlock, error) { return s.repo.ListByClassAndDate(ctx, req.ClassID, date) }},
	}

	for _, check := range checks {
		blocks, err := check.list()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
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
			if overlapsRange(start, end, bStart, bEnd) {
				return &models.ScheduleConflictError{
					Message: fmt.Sprintf("%s already booked %s-%s on %s", check.dimension, b.StartTime, b.EndTime, req.Date),
					Conflict: models.ScheduleConflict{
						BlockID:   b.ID,
						TrainerID: b.TrainerID,
						ClassID:   b.ClassID,
						RoomID:    b.RoomID,
						Date:      dateKey(b.Date),
						StartTime: b.StartTime,
						EndTime:   b.EndTime,
						Dimension: check.dimension,
					},
				}, nil
			}
		}
	}
	return nil, nil
}
