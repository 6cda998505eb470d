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

// EvaluationRepository manages persistence for module evaluations.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs an EvaluationRepository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// List returns evaluations matching the filter.
func (r *EvaluationRepository) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	base := `FROM evaluations ev WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.EnrollmentID != "" {
		conditions = append(conditions, fmt.Sprintf("ev.enrollment_id = $%d", len(args)+1))
		args = append(args, filter.EnrollmentID)
	}
	if filter.ModuleID != "" {
		conditions = append(conditions, fmt.Sprintf("ev.module_id = $%d", len(args)+1))
		args = append(args, filter.ModuleID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("ev.enrollment_id IN (SELECT id FROM enrollments WHERE class_id = $%d)", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.TraineeID != "" {
		conditions = append(conditions, fmt.Sprintf("ev.enrollment_id IN (SELECT id FROM enrollments WHERE trainee_id = $%d)", len(args)+1))
		args = append(args, filter.TraineeID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT ev.id, ev.enrollment_id, ev.module_id, ev.score, ev.evaluated_at, ev.created_at, ev.updated_at %s ORDER BY ev.evaluated_at DESC", base)
	var evaluations []models.Evaluation
	if err := r.db.SelectContext(ctx, &evaluations, query, args...); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evaluations, nil
}

// FindByID fetches an evaluation by ID.
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	const query = `SELECT id, enrollment_id, module_id, score, evaluated_at, created_at, updated_at FROM evaluations WHERE id = $1`
	var evaluation models.Evaluation
	if err := r.db.GetContext(ctx, &evaluation, query, id); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// FindByEnrollmentAndModule fetches the evaluation for one enrollment
// and module pair.
func (r *EvaluationRepository) FindByEnrollmentAndModule(ctx context.Context, enrollmentID, moduleID string) (*models.Evaluation, error) {
	const query = `SELECT id, enrollment_id, module_id, score, evaluated_at, created_at, updated_at FROM evaluations WHERE enrollment_id = $1 AND module_id = $2`
	var evaluation models.Evaluation
	if err := r.db.GetContext(ctx, &evaluation, query, enrollmentID, moduleID); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// Create inserts a new evaluation record.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if evaluation.ID == "" {
		evaluation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	evaluation.CreatedAt = now
	evaluation.UpdatedAt = now
	if evaluation.EvaluatedAt.IsZero() {
		evaluation.EvaluatedAt = now
	}

	const query = `INSERT INTO evaluations (id, enrollment_id, module_id, score, evaluated_at, created_at, updated_at)
		VALUES (:id, :enrollment_id, :module_id, :score, :evaluated_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, evaluation); err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// Update modifies an existing evaluation.
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) error {
	evaluation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE evaluations SET score = :score, evaluated_at = :evaluated_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, evaluation); err != nil {
		return fmt.Errorf("update evaluation: %w", err)
	}
	return nil
}
