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

type traineeRepository interface {
	List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, int, error)
	FindByID(ctx context.Context, id string) (*models.Trainee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, trainee *models.Trainee) error
	Update(ctx context.Context, trainee *models.Trainee) error
	Deactivate(ctx context.Context, id string) error
}

// CreateTraineeRequest is the payload for registering a trainee.
type CreateTraineeRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FullName  string  `json:"full_name" validate:"required,min=2,max=120"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	BirthDate *string `json:"birth_date,omitempty"`
	UserID    *string `json:"user_id,omitempty" validate:"omitempty,uuid4"`
}

// UpdateTraineeRequest is the payload for editing a trainee.
type UpdateTraineeRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Active   *bool   `json:"active,omitempty"`
}

// TraineeService manages the trainee roster.
type TraineeService struct {
	repo      traineeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTraineeService constructs a TraineeService.
func NewTraineeService(repo traineeRepository, validate *validator.Validate, logger *zap.Logger) *TraineeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TraineeService{repo: repo, validator: validate, logger: logger}
}

// List returns trainees with pagination.
func (s *TraineeService) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, *models.Pagination, error) {
	trainees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainees")
	}
	return trainees, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one trainee by id.
func (s *TraineeService) Get(ctx context.Context, id string) (*models.Trainee, error) {
	trainee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee")
	}
	return trainee, nil
}

// Create registers a new trainee.
func (s *TraineeService) Create(ctx context.Context, req CreateTraineeRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trainee email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a trainee with this email already exists")
	}

	var birthDate *time.Time
	if req.BirthDate != nil && *req.BirthDate != "" {
		parsed, err := time.Parse(dateLayout, *req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "birth_date must use YYYY-MM-DD")
		}
		birthDate = &parsed
	}

	now := time.Now().UTC()
	trainee := &models.Trainee{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		BirthDate: birthDate,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainee")
	}
	return trainee, nil
}

// Update applies a partial edit to a trainee.
func (s *TraineeService) Update(ctx context.Context, id string, req UpdateTraineeRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}

	trainee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != trainee.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trainee email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a trainee with this email already exists")
		}
		trainee.Email = *req.Email
	}
	if req.FullName != nil {
		trainee.FullName = *req.FullName
	}
	if req.Phone != nil {
		trainee.Phone = req.Phone
	}
	if req.Active != nil {
		trainee.Active = *req.Active
	}
	trainee.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainee")
	}
	return trainee, nil
}

// Deactivate soft-deletes a trainee. Enrollments and evaluations stay
// in place for historical reporting.
func (s *TraineeService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate trainee")
	}
	return nil
}
