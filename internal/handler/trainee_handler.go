package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// TraineeHandler exposes trainee roster endpoints.
type TraineeHandler struct {
	trainees *service.TraineeService
}

// NewTraineeHandler constructs a TraineeHandler.
func NewTraineeHandler(trainees *service.TraineeService) *TraineeHandler {
	return &TraineeHandler{trainees: trainees}
}

// List godoc
// @Summary      List trainees
// @Tags         trainees
// @Security     BearerAuth
// @Produce      json
// @Param        search query string false "Name or email fragment"
// @Param        class_id query string false "Filter by class"
// @Success      200 {array} models.Trainee
// @Router       /trainees [get]
func (h *TraineeHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	filter := models.TraineeFilter{
		Search:    c.Query("search"),
		Active:    boolQuery(c, "active"),
		ClassID:   c.Query("class_id"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.DefaultQuery("sort_by", "full_name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	trainees, pagination, err := h.trainees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainees, pagination)
}

// Get godoc
// @Summary      Get a trainee
// @Tags         trainees
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Trainee id"
// @Success      200 {object} models.Trainee
// @Router       /trainees/{id} [get]
func (h *TraineeHandler) Get(c *gin.Context) {
	trainee, err := h.trainees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainee, nil)
}

// Create godoc
// @Summary      Register a trainee
// @Tags         trainees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateTraineeRequest true "Trainee"
// @Success      201 {object} models.Trainee
// @Router       /trainees [post]
func (h *TraineeHandler) Create(c *gin.Context) {
	var req service.CreateTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	trainee, err := h.trainees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainee)
}

// Update godoc
// @Summary      Update a trainee
// @Tags         trainees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Trainee id"
// @Param        payload body service.UpdateTraineeRequest true "Changes"
// @Success      200 {object} models.Trainee
// @Router       /trainees/{id} [patch]
func (h *TraineeHandler) Update(c *gin.Context) {
	var req service.UpdateTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	trainee, err := h.trainees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainee, nil)
}

// Deactivate godoc
// @Summary      Deactivate a trainee
// @Tags         trainees
// @Security     BearerAuth
// @Param        id path string true "Trainee id"
// @Success      204
// @Router       /trainees/{id} [delete]
func (h *TraineeHandler) Deactivate(c *gin.Context) {
	if err := h.trainees.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
