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

const availabilityColumns = "id, trainer_id, date, start_time, end_time, created_at"

// AvailabilityRepository manages persistence for trainer availability
// windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByTrainer returns a trainer's windows, optionally scoped to a
// date range, ordered by date then start time.
func (r *AvailabilityRepository) ListByTrainer(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityWindow, error) {
	base := "FROM availability_windows WHERE trainer_id = $1"
	args := []interface{}{filter.TrainerID}

	if filter.DateFrom != nil {
		base += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		base += fmt.Sprintf(" AND date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, start_time ASC", availabilityColumns, base)
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, args...); err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}
	return windows, nil
}

// ListByTrainerAndDate returns the windows declared for one date.
func (r *AvailabilityRepository) ListByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) ([]models.AvailabilityWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM availability_windows WHERE trainer_id = $1 AND date = $2 ORDER BY start_time ASC", availabilityColumns)
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, trainerID, date); err != nil {
		return nil, fmt.Errorf("list availability windows for date: %w", err)
	}
	return windows, nil
}

// FindByID fetches a window by ID.
func (r *AvailabilityRepository) FindByID(ctx context.Context, id string) (*models.AvailabilityWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM availability_windows WHERE id = $1", availabilityColumns)
	var window models.AvailabilityWindow
	if err := r.db.GetContext(ctx, &window, query, id); err != nil {
		return nil, err
	}
	return &window, nil
}

// FindMatching returns the windows of a trainer inside a date range
// whose start and end times match exactly.
func (r *AvailabilityRepository) FindMatching(ctx context.Context, trainerID string, from, to time.Time, startTime, endTime string) ([]models.AvailabilityWindow, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_windows
		WHERE trainer_id = $1 AND date >= $2 AND date <= $3 AND start_time = $4 AND end_time = $5
		ORDER BY date ASC`, availabilityColumns)
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, trainerID, from, to, startTime, endTime); err != nil {
		return nil, fmt.Errorf("find matching availability windows: %w", err)
	}
	return windows, nil
}

// Create inserts a single window.
func (r *AvailabilityRepository) Create(ctx context.Context, window *models.AvailabilityWindow) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	if window.CreatedAt.IsZero() {
		window.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO availability_windows (id, trainer_id, date, start_time, end_time, created_at)
		VALUES (:id, :trainer_id, :date, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("create availability window: %w", err)
	}
	return nil
}

// CreateBatch inserts every window inside one transaction. Either all
// rows land or none do.
func (r *AvailabilityRepository) CreateBatch(ctx context.Context, windows []models.AvailabilityWindow) error {
	if len(windows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability batch: %w", err)
	}
	const query = `INSERT INTO availability_windows (id, trainer_id, date, start_time, end_time, created_at)
		VALUES (:id, :trainer_id, :date, :start_time, :end_time, :created_at)`
	now := time.Now().UTC()
	for i := range windows {
		if windows[i].ID == "" {
			windows[i].ID = uuid.NewString()
		}
		if windows[i].CreatedAt.IsZero() {
			windows[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, windows[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert availability window: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability batch: %w", err)
	}
	return nil
}

// Delete removes a single window.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM availability_windows WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete availability window: %w", err)
	}
	return nil
}

// DeleteByIDs removes a set of windows in one statement.
func (r *AvailabilityRepository) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf("DELETE FROM availability_windows WHERE id IN (%s)", strings.Join(placeholders, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete availability windows: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted availability windows: %w", err)
	}
	return int(affected), nil
}
