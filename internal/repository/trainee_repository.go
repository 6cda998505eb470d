package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/centroforma/forma-api/internal/models"
)

// TraineeRepository manages persistence for trainees.
type TraineeRepository struct {
	db *sqlx.DB
}

// NewTraineeRepository constructs a TraineeRepository.
func NewTraineeRepository(db *sqlx.DB) *TraineeRepository {
	return &TraineeRepository{db: db}
}

// List returns trainees matching filters along with total count.
func (r *TraineeRepository) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, int, error) {
	base := "FROM trainees t WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("t.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(t.full_name) LIKE $%d OR LOWER(t.email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("t.id IN (SELECT trainee_id FROM enrollments WHERE class_id = $%d)", len(args)+1))
		args = append(args, filter.ClassID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"email":      "email",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT t.id, t.user_id, t.email, t.full_name, t.phone, t.birth_date, t.active, t.created_at, t.updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var trainees []models.Trainee
	if err := r.db.SelectContext(ctx, &trainees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainees: %w", err)
	}

	return trainees, total, nil
}

// FindByID fetches a trainee by ID.
func (r *TraineeRepository) FindByID(ctx context.Context, id string) (*models.Trainee, error) {
	const query = `SELECT id, user_id, email, full_name, phone, birth_date, active, created_at, updated_at FROM trainees WHERE id = $1`
	var trainee models.Trainee
	if err := r.db.GetContext(ctx, &trainee, query, id); err != nil {
		return nil, err
	}
	return &trainee, nil
}

// ExistsByEmail checks if another trainee uses the same email.
func (r *TraineeRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM trainees WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check trainee email: %w", err)
	}
	return true, nil
}

// Create inserts a new trainee record.
func (r *TraineeRepository) Create(ctx context.Context, trainee *models.Trainee) error {
	if trainee.ID == "" {
		trainee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if trainee.CreatedAt.IsZero() {
		trainee.CreatedAt = now
	}
	trainee.UpdatedAt = now

	const query = `INSERT INTO trainees (id, user_id, email, full_name, phone, birth_date, active, created_at, updated_at)
		VALUES (:id, :user_id, :email, :full_name, :phone, :birth_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("create trainee: %w", err)
	}
	return nil
}

// Update modifies an existing trainee record.
func (r *TraineeRepository) Update(ctx context.Context, trainee *models.Trainee) error {
	trainee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE trainees SET email = :email, full_name = :full_name, phone = :phone, birth_date = :birth_date, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("update trainee: %w", err)
	}
	return nil
}

// Deactivate sets a trainee's active flag to false.
func (r *TraineeRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE trainees SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate trainee: %w", err)
	}
	return nil
}
