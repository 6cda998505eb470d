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

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Deactivate(ctx context.Context, id string) error
	ListEnrollments(ctx context.Context, classID string) ([]models.EnrollmentDetail, error)
	FindEnrollment(ctx context.Context, classID, traineeID string) (*models.Enrollment, error)
	FindEnrollmentByID(ctx context.Context, id string) (*models.Enrollment, error)
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	DeleteEnrollment(ctx context.Context, id string) error
}

type classCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type classTraineeReader interface {
	FindByID(ctx context.Context, id string) (*models.Trainee, error)
}

// CreateClassRequest is the payload for opening a class.
type CreateClassRequest struct {
	CourseID  string `json:"course_id" validate:"required,uuid4"`
	Name      string `json:"name" validate:"required,min=2,max=160"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// UpdateClassRequest is the payload for editing a class.
type UpdateClassRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=160"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// EnrollRequest is the payload for enrolling a trainee into a class.
type EnrollRequest struct {
	TraineeID string `json:"trainee_id" validate:"required,uuid4"`
}

// ClassService manages classes and their enrollments.
type ClassService struct {
	repo      classRepository
	courses   classCourseReader
	trainees  classTraineeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, courses classCourseReader, trainees classTraineeReader, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, courses: courses, trainees: trainees, validator: validate, logger: logger}
}

// List returns classes with pagination.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create opens a class for an existing course.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must use YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must use YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	now := time.Now().UTC()
	class := &models.Class{
		ID:        uuid.NewString(),
		CourseID:  req.CourseID,
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update applies a partial edit to a class.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must use YYYY-MM-DD")
		}
		class.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must use YYYY-MM-DD")
		}
		class.EndDate = end
	}
	if class.EndDate.Before(class.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if req.Active != nil {
		class.Active = *req.Active
	}
	class.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Deactivate soft-deletes a class.
func (s *ClassService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate class")
	}
	return nil
}

// ListEnrollments returns the trainees enrolled in a class.
func (s *ClassService) ListEnrollments(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.ListEnrollments(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// Enroll registers a trainee into a class. Double enrollment of the
// same trainee is rejected.
func (s *ClassService) Enroll(ctx context.Context, classID string, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	if _, err := s.trainees.FindByID(ctx, req.TraineeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee")
	}

	if _, err := s.repo.FindEnrollment(ctx, classID, req.TraineeID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "trainee is already enrolled in this class")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	enrollment := &models.Enrollment{
		ID:         uuid.NewString(),
		ClassID:    classID,
		TraineeID:  req.TraineeID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := s.repo.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// Unenroll removes an enrollment from a class.
func (s *ClassService) Unenroll(ctx context.Context, classID, enrollmentID string) error {
	enrollment, err := s.repo.FindEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.ClassID != classID {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if err := s.repo.DeleteEnrollment(ctx, enrollmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}
