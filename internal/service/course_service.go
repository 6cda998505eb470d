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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Deactivate(ctx context.Context, id string) error
	ListModules(ctx context.Context, courseID string) ([]models.Module, error)
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
	CreateModule(ctx context.Context, module *models.Module) error
	UpdateModule(ctx context.Context, module *models.Module) error
	DeleteModule(ctx context.Context, id string) error
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// UpdateCourseRequest is the payload for editing a course.
type UpdateCourseRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Active      *bool   `json:"active,omitempty"`
}

// CreateModuleRequest is the payload for adding a module to a course.
type CreateModuleRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=160"`
	TotalHours float64 `json:"total_hours" validate:"required,gt=0"`
}

// UpdateModuleRequest is the payload for editing a module.
type UpdateModuleRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=2,max=160"`
	TotalHours *float64 `json:"total_hours,omitempty" validate:"omitempty,gt=0"`
}

// CourseService manages courses and their modules.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns courses with pagination.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	now := time.Now().UTC()
	course := &models.Course{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update applies a partial edit to a course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Active != nil {
		course.Active = *req.Active
	}
	course.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Deactivate soft-deletes a course.
func (s *CourseService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate course")
	}
	return nil
}

// ListModules returns the modules of a course.
func (s *CourseService) ListModules(ctx context.Context, courseID string) ([]models.Module, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	modules, err := s.repo.ListModules(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	return modules, nil
}

// GetModule returns one module by id.
func (s *CourseService) GetModule(ctx context.Context, id string) (*models.Module, error) {
	module, err := s.repo.FindModuleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	return module, nil
}

// CreateModule adds a module to a course.
func (s *CourseService) CreateModule(ctx context.Context, courseID string, req CreateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	module := &models.Module{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		Name:       req.Name,
		TotalHours: req.TotalHours,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	return module, nil
}

// UpdateModule applies a partial edit to a module.
func (s *CourseService) UpdateModule(ctx context.Context, id string, req UpdateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	module, err := s.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.TotalHours != nil {
		module.TotalHours = *req.TotalHours
	}
	module.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update module")
	}
	return module, nil
}

// DeleteModule removes a module.
func (s *CourseService) DeleteModule(ctx context.Context, id string) error {
	if _, err := s.GetModule(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteModule(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete module")
	}
	return nil
}
