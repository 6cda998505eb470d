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

// TrainerRepository manages persistence for trainers.
type TrainerRepository struct {
	db *sqlx.DB
}

// NewTrainerRepository constructs a TrainerRepository.
func NewTrainerRepository(db *sqlx.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// List returns trainers matching filters along with total count.
func (r *TrainerRepository) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error) {
	base := "FROM trainers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"email":      "email",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT id, user_id, email, full_name, phone, expertise, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainers: %w", err)
	}

	return trainers, total, nil
}

// FindByID fetches a trainer by ID.
func (r *TrainerRepository) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	const query = `SELECT id, user_id, email, full_name, phone, expertise, active, created_at, updated_at FROM trainers WHERE id = $1`
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, id); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// FindByUserID fetches the trainer record bound to a user account.
func (r *TrainerRepository) FindByUserID(ctx context.Context, userID string) (*models.Trainer, error) {
	const query = `SELECT id, user_id, email, full_name, phone, expertise, active, created_at, updated_at FROM trainers WHERE user_id = $1`
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, userID); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// ExistsByEmail checks if another trainer uses the same email.
func (r *TrainerRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM trainers WHERE LOWER(email) = LOWER($1)"
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
		return false, fmt.Errorf("check trainer email: %w", err)
	}
	return true, nil
}

// Create inserts a new trainer record.
func (r *TrainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	if trainer.ID == "" {
		trainer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if trainer.CreatedAt.IsZero() {
		trainer.CreatedAt = now
	}
	trainer.UpdatedAt = now

	const query = `INSERT INTO trainers (id, user_id, email, full_name, phone, expertise, active, created_at, updated_at)
		VALUES (:id, :user_id, :email, :full_name, :phone, :expertise, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("create trainer: %w", err)
	}
	return nil
}

// Update modifies an existing trainer record.
func (r *TrainerRepository) Update(ctx context.Context, trainer *models.Trainer) error {
	trainer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE trainers SET email = :email, full_name = :full_name, phone = :phone, expertise = :expertise, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("update trainer: %w", err)
	}
	return nil
}

// Deactivate sets a trainer's active flag to false.
func (r *TrainerRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE trainers SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate trainer: %w", err)
	}
	return nil
}
