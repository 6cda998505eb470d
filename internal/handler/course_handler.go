package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// CourseHandler exposes course and module endpoints.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary      List courses
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} models.Course
// @Router       /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	filter := models.CourseFilter{
		Search:    c.Query("search"),
		Active:    boolQuery(c, "active"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.DefaultQuery("sort_by", "name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	courses, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary      Get a course
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Course id"
// @Success      200 {object} models.Course
// @Router       /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary      Create a course
// @Tags         courses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateCourseRequest true "Course"
// @Success      201 {object} models.Course
// @Router       /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary      Update a course
// @Tags         courses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Course id"
// @Param        payload body service.UpdateCourseRequest true "Changes"
// @Success      200 {object} models.Course
// @Router       /courses/{id} [patch]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Deactivate godoc
// @Summary      Deactivate a course
// @Tags         courses
// @Security     BearerAuth
// @Param        id path string true "Course id"
// @Success      204
// @Router       /courses/{id} [delete]
func (h *CourseHandler) Deactivate(c *gin.Context) {
	if err := h.courses.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListModules godoc
// @Summary      List modules of a course
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Course id"
// @Success      200 {array} models.Module
// @Router       /courses/{id}/modules [get]
func (h *CourseHandler) ListModules(c *gin.Context) {
	modules, err := h.courses.ListModules(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// CreateModule godoc
// @Summary      Add a module to a course
// @Tags         courses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Course id"
// @Param        payload body service.CreateModuleRequest true "Module"
// @Success      201 {object} models.Module
// @Router       /courses/{id}/modules [post]
func (h *CourseHandler) CreateModule(c *gin.Context) {
	var req service.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	module, err := h.courses.CreateModule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// GetModule godoc
// @Summary      Get a module
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Param        module_id path string true "Module id"
// @Success      200 {object} models.Module
// @Router       /modules/{module_id} [get]
func (h *CourseHandler) GetModule(c *gin.Context) {
	module, err := h.courses.GetModule(c.Request.Context(), c.Param("module_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// UpdateModule godoc
// @Summary      Update a module
// @Tags         courses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        module_id path string true "Module id"
// @Param        payload body service.UpdateModuleRequest true "Changes"
// @Success      200 {object} models.Module
// @Router       /modules/{module_id} [patch]
func (h *CourseHandler) UpdateModule(c *gin.Context) {
	var req service.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	module, err := h.courses.UpdateModule(c.Request.Context(), c.Param("module_id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// DeleteModule godoc
// @Summary      Delete a module
// @Tags         courses
// @Security     BearerAuth
// @Param        module_id path string true "Module id"
// @Success      204
// @Router       /modules/{module_id} [delete]
func (h *CourseHandler) DeleteModule(c *gin.Context) {
	if err := h.courses.DeleteModule(c.Request.Context(), c.Param("module_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
