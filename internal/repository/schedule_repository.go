package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/centroforma/forma-api/internal/models"
)

const scheduleColumns = "id, trainer_id, class_id, module_id, room_id, date, start_time, end_time, created_at, updated_at"

// ScheduleRepository manages persistence for schedule blocks.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedule blocks matching filters along with total count.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleBlock, int, error) {
	base := "FROM schedule_blocks WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TrainerID != "" {
		conditions = append(conditions, fmt.Sprintf("trainer_id = $%d", len(args)+1))
		args = append(args, filter.TrainerID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.ModuleID != "" {
		conditions = append(conditions, fmt.Sprintf("module_id = $%d", len(args)+1))
		args = append(args, filter.ModuleID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY date %s, start_time %s LIMIT %d OFFSET %d", scheduleColumns, base, order, order, size, offset)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule blocks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule blocks: %w", err)
	}

	return blocks, total, nil
}

// FindByID fetches a schedule block by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE id = $1", scheduleColumns)
	var block models.ScheduleBlock
	if err := r.db.GetContext(ctx, &block, query, id); err != nil {
		return nil, err
	}
	return &block, nil
}

// ListByTrainerAndDate returns a trainer's blocks on one date ordered
// by start time.
func (r *ScheduleRepository) ListByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE trainer_id = $1 AND date = $2 ORDER BY start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, trainerID, date); err != nil {
		return nil, fmt.Errorf("list trainer blocks: %w", err)
	}
	return blocks, nil
}

// ListByTrainerBetween returns a trainer's blocks inside [from, to].
func (r *ScheduleRepository) ListByTrainerBetween(ctx context.Context, trainerID string, from, to time.Time) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE trainer_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, trainerID, from, to); err != nil {
		return nil, fmt.Errorf("list trainer blocks between: %w", err)
	}
	return blocks, nil
}

// ListByClassBetween returns a class's blocks inside [from, to].
func (r *ScheduleRepository) ListByClassBetween(ctx context.Context, classID string, from, to time.Time) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE class_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, classID, from, to); err != nil {
		return nil, fmt.Errorf("list class blocks between: %w", err)
	}
	return blocks, nil
}

// ListByRoomAndDate returns the blocks occupying a room on one date.
func (r *ScheduleRepository) ListByRoomAndDate(ctx context.Context, roomID string, date time.Time) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE room_id = $1 AND date = $2 ORDER BY start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, roomID, date); err != nil {
		return nil, fmt.Errorf("list room blocks: %w", err)
	}
	return blocks, nil
}

// ListByClassAndDate returns the blocks scheduled for a class on one date.
func (r *ScheduleRepository) ListByClassAndDate(ctx context.Context, classID string, date time.Time) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE class_id = $1 AND date = $2 ORDER BY start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, classID, date); err != nil {
		return nil, fmt.Errorf("list class blocks: %w", err)
	}
	return blocks, nil
}

// ListByTrainerClassModule returns the blocks a trainer taught for one
// class and module, ordered by date.
func (r *ScheduleRepository) ListByTrainerClassModule(ctx context.Context, trainerID, classID, moduleID string) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE trainer_id = $1 AND class_id = $2 AND module_id = $3 ORDER BY date ASC, start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, trainerID, classID, moduleID); err != nil {
		return nil, fmt.Errorf("list trainer class module blocks: %w", err)
	}
	return blocks, nil
}

// Create inserts a new schedule block.
func (r *ScheduleRepository) Create(ctx context.Context, block *models.ScheduleBlock) error {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now

	const query = `INSERT INTO schedule_blocks (id, trainer_id, class_id, module_id, room_id, date, start_time, end_time, created_at, updated_at)
		VALUES (:id, :trainer_id, :class_id, :module_id, :room_id, :date, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("create schedule block: %w", err)
	}
	return nil
}

// Delete removes a schedule block.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_blocks WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete schedule block: %w", err)
	}
	return nil
}
