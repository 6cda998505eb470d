package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type evaluationRepository interface {
	List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error)
	FindByID(ctx context.Context, id string) (*models.Evaluation, error)
	FindByEnrollmentAndModule(ctx context.Context, enrollmentID, moduleID string) (*models.Evaluation, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Update(ctx context.Context, evaluation *models.Evaluation) error
}

type evaluationEnrollmentReader interface {
	FindEnrollmentByID(ctx context.Context, id string) (*models.Enrollment, error)
}

type evaluationModuleReader interface {
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
}

// RecordEvaluationRequest is the payload for grading a trainee on a
// module. Scores use the 0-20 scale.
type RecordEvaluationRequest struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required,uuid4"`
	ModuleID     string  `json:"module_id" validate:"required,uuid4"`
	Score        float64 `json:"score" validate:"min=0,max=20"`
}

// EvaluationService records and lists module grades. Recording is an
// upsert keyed by (enrollment, module), so re-grading overwrites the
// previous score.
type EvaluationService struct {
	repo        evaluationRepository
	enrollments evaluationEnrollmentReader
	modules     evaluationModuleReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEvaluationService constructs an EvaluationService.
func NewEvaluationService(repo evaluationRepository, enrollments evaluationEnrollmentReader, modules evaluationModuleReader, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{repo: repo, enrollments: enrollments, modules: modules, validator: validate, logger: logger}
}

// List returns evaluations matching a filter.
func (s *EvaluationService) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	evaluations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	return evaluations, nil
}

// Get returns one evaluation by id.
func (s *EvaluationService) Get(ctx context.Context, id string) (*models.Evaluation, error) {
	evaluation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	return evaluation, nil
}

// Record grades a trainee's enrollment on a module, overwriting any
// existing score for the same pair.
func (s *EvaluationService) Record(ctx context.Context, req RecordEvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}

	if _, err := s.enrollments.FindEnrollmentByID(ctx, req.EnrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if _, err := s.modules.FindModuleByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	now := time.Now().UTC()
	existing, err := s.repo.FindByEnrollmentAndModule(ctx, req.EnrollmentID, req.ModuleID)
	switch {
	case err == nil:
		existing.Score = req.Score
		existing.EvaluatedAt = now
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update evaluation")
		}
		return existing, nil
	case errors.Is(err, sql.ErrNoRows):
		evaluation := &models.Evaluation{
			ID:           uuid.NewString(),
			EnrollmentID: req.EnrollmentID,
			ModuleID:     req.ModuleID,
			Score:        req.Score,
			EvaluatedAt:  now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.Create(ctx, evaluation); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create evaluation")
		}
		return evaluation, nil
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing evaluation")
	}
}
