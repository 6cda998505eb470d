package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// TrainerHandler exposes trainer roster endpoints.
type TrainerHandler struct {
	trainers *service.TrainerService
}

// NewTrainerHandler constructs a TrainerHandler.
func NewTrainerHandler(trainers *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainers: trainers}
}

// List godoc
// @Summary      List trainers
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Param        search query string false "Name or email fragment"
// @Param        active query bool false "Active filter"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {array} models.Trainer
// @Router       /trainers [get]
func (h *TrainerHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	filter := models.TrainerFilter{
		Search:    c.Query("search"),
		Active:    boolQuery(c, "active"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.DefaultQuery("sort_by", "full_name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	trainers, pagination, err := h.trainers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, pagination)
}

// Get godoc
// @Summary      Get a trainer
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Param        trainer_id path string true "Trainer id"
// @Success      200 {object} models.Trainer
// @Failure      404 {object} response.Envelope
// @Router       /trainers/{trainer_id} [get]
func (h *TrainerHandler) Get(c *gin.Context) {
	trainer, err := h.trainers.Get(c.Request.Context(), c.Param("trainer_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// Create godoc
// @Summary      Register a trainer
// @Tags         trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateTrainerRequest true "Trainer"
// @Success      201 {object} models.Trainer
// @Failure      409 {object} response.Envelope
// @Router       /trainers [post]
func (h *TrainerHandler) Create(c *gin.Context) {
	var req service.CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	trainer, err := h.trainers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainer)
}

// Update godoc
// @Summary      Update a trainer
// @Tags         trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        trainer_id path string true "Trainer id"
// @Param        payload body service.UpdateTrainerRequest true "Changes"
// @Success      200 {object} models.Trainer
// @Router       /trainers/{trainer_id} [patch]
func (h *TrainerHandler) Update(c *gin.Context) {
	var req service.UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	trainer, err := h.trainers.Update(c.Request.Context(), c.Param("trainer_id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// Deactivate godoc
// @Summary      Deactivate a trainer
// @Tags         trainers
// @Security     BearerAuth
// @Param        trainer_id path string true "Trainer id"
// @Success      204
// @Router       /trainers/{trainer_id} [delete]
func (h *TrainerHandler) Deactivate(c *gin.Context) {
	if err := h.trainers.Deactivate(c.Request.Context(), c.Param("trainer_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
