package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type trainerRepository interface {
	List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error)
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, trainer *models.Trainer) error
	Update(ctx context.Context, trainer *models.Trainer) error
	Deactivate(ctx context.Context, id string) error
}

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateTrainerRequest is the payload for registering a trainer.
type CreateTrainerRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FullName  string  `json:"full_name" validate:"required,min=2,max=120"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Expertise *string `json:"expertise,omitempty" validate:"omitempty,max=200"`
	UserID    *string `json:"user_id,omitempty" validate:"omitempty,uuid4"`
}

// UpdateTrainerRequest is the payload for editing a trainer.
type UpdateTrainerRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Expertise *string `json:"expertise,omitempty" validate:"omitempty,max=200"`
	Active    *bool   `json:"active,omitempty"`
}

const trainerCacheTTL = 5 * time.Minute

// TrainerService manages the trainer roster.
type TrainerService struct {
	repo      trainerRepository
	cache     cacheRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTrainerService constructs a TrainerService. cache may be nil when
// redis is not configured.
func NewTrainerService(repo trainerRepository, cache cacheRepository, validate *validator.Validate, logger *zap.Logger) *TrainerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns trainers with pagination, consulting the cache first.
func (s *TrainerService) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, *models.Pagination, error) {
	type cached struct {
		Trainers   []models.Trainer   `json:"trainers"`
		Pagination *models.Pagination `json:"pagination"`
	}

	key := trainerListCacheKey(filter)
	if s.cache != nil {
		var entry cached
		if err := s.cache.Get(ctx, key, &entry); err == nil {
			return entry.Trainers, entry.Pagination, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("trainer cache read failed", zap.Error(err))
		}
	}

	trainers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainers")
	}
	pagination := paginationFor(filter.Page, filter.PageSize, total)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cached{Trainers: trainers, Pagination: pagination}, trainerCacheTTL); err != nil {
			s.logger.Warn("trainer cache write failed", zap.Error(err))
		}
	}
	return trainers, pagination, nil
}

// Get returns one trainer by id.
func (s *TrainerService) Get(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// Create registers a new trainer. Emails are unique across the roster.
func (s *TrainerService) Create(ctx context.Context, req CreateTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trainer email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a trainer with this email already exists")
	}

	now := time.Now().UTC()
	trainer := &models.Trainer{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Expertise: req.Expertise,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainer")
	}

	s.invalidateListCache(ctx)
	return trainer, nil
}

// Update applies a partial edit to a trainer.
func (s *TrainerService) Update(ctx context.Context, id string, req UpdateTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	trainer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != trainer.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trainer email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a trainer with this email already exists")
		}
		trainer.Email = *req.Email
	}
	if req.FullName != nil {
		trainer.FullName = *req.FullName
	}
	if req.Phone != nil {
		trainer.Phone = req.Phone
	}
	if req.Expertise != nil {
		trainer.Expertise = req.Expertise
	}
	if req.Active != nil {
		trainer.Active = *req.Active
	}
	trainer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainer")
	}

	s.invalidateListCache(ctx)
	return trainer, nil
}

// Deactivate soft-deletes a trainer. Historical schedule blocks and
// availability windows remain untouched.
func (s *TrainerService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate trainer")
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *TrainerService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "trainers:list:*"); err != nil {
		s.logger.Warn("trainer cache invalidation failed", zap.Error(err))
	}
}

func trainerListCacheKey(filter models.TrainerFilter) string {
	active := "any"
	if filter.Active != nil {
		active = fmt.Sprintf("%t", *filter.Active)
	}
	return fmt.Sprintf("trainers:list:%s:%s:%d:%d:%s:%s",
		filter.Search, active, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
