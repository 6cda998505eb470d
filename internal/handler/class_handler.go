package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// ClassHandler exposes class and enrollment endpoints.
type ClassHandler struct {
	classes *service.ClassService
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(classes *service.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List godoc
// @Summary      List classes
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        course_id query string false "Filter by course"
// @Success      200 {array} models.Class
// @Router       /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	filter := models.ClassFilter{
		Search:    c.Query("search"),
		CourseID:  c.Query("course_id"),
		Active:    boolQuery(c, "active"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.DefaultQuery("sort_by", "start_date"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	classes, pagination, err := h.classes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// Get godoc
// @Summary      Get a class
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        class_id path string true "Class id"
// @Success      200 {object} models.Class
// @Router       /classes/{class_id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classes.Get(c.Request.Context(), c.Param("class_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Create godoc
// @Summary      Open a class
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateClassRequest true "Class"
// @Success      201 {object} models.Class
// @Router       /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary      Update a class
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        class_id path string true "Class id"
// @Param        payload body service.UpdateClassRequest true "Changes"
// @Success      200 {object} models.Class
// @Router       /classes/{class_id} [patch]
func (h *ClassHandler) Update(c *gin.Context) {
	var req service.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	class, err := h.classes.Update(c.Request.Context(), c.Param("class_id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Deactivate godoc
// @Summary      Deactivate a class
// @Tags         classes
// @Security     BearerAuth
// @Param        class_id path string true "Class id"
// @Success      204
// @Router       /classes/{class_id} [delete]
func (h *ClassHandler) Deactivate(c *gin.Context) {
	if err := h.classes.Deactivate(c.Request.Context(), c.Param("class_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEnrollments godoc
// @Summary      List enrollments of a class
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        class_id path string true "Class id"
// @Success      200 {array} models.EnrollmentDetail
// @Router       /classes/{class_id}/enrollments [get]
func (h *ClassHandler) ListEnrollments(c *gin.Context) {
	enrollments, err := h.classes.ListEnrollments(c.Request.Context(), c.Param("class_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Enroll godoc
// @Summary      Enroll a trainee into a class
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        class_id path string true "Class id"
// @Param        payload body service.EnrollRequest true "Trainee"
// @Success      201 {object} models.Enrollment
// @Failure      409 {object} response.Envelope
// @Router       /classes/{class_id}/enrollments [post]
func (h *ClassHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	enrollment, err := h.classes.Enroll(c.Request.Context(), c.Param("class_id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll godoc
// @Summary      Remove an enrollment
// @Tags         classes
// @Security     BearerAuth
// @Param        class_id path string true "Class id"
// @Param        enrollment_id path string true "Enrollment id"
// @Success      204
// @Router       /classes/{class_id}/enrollments/{enrollment_id} [delete]
func (h *ClassHandler) Unenroll(c *gin.Context) {
	if err := h.classes.Unenroll(c.Request.Context(), c.Param("class_id"), c.Param("enrollment_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
