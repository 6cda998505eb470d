package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// ScheduleHandler exposes lesson scheduling endpoints.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// List godoc
// @Summary      List schedule blocks
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        trainer_id query string false "Filter by trainer"
// @Param        class_id query string false "Filter by class"
// @Param        room_id query string false "Filter by room"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to query string false "YYYY-MM-DD"
// @Success      200 {array} models.ScheduleBlock
// @Router       /schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	dateFrom, err := dateQuery(c, "date_from")
	if err != nil {
		response.Error(c, err)
		return
	}
	dateTo, err := dateQuery(c, "date_to")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size := pageParams(c)
	filter := models.ScheduleFilter{
		TrainerID: c.Query("trainer_id"),
		ClassID:   c.Query("class_id"),
		ModuleID:  c.Query("module_id"),
		RoomID:    c.Query("room_id"),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Page:      page,
		PageSize:  size,
		SortBy:    c.DefaultQuery("sort_by", "date"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	blocks, pagination, err := h.schedule.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, pagination)
}

// Get godoc
// @Summary      Get a schedule block
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Block id"
// @Success      200 {object} models.ScheduleBlock
// @Router       /schedule/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	block, err := h.schedule.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Create godoc
// @Summary      Commit a lesson block
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateScheduleBlockRequest true "Block"
// @Success      201 {object} models.ScheduleBlock
// @Failure      409 {object} response.Envelope
// @Router       /schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	block, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, block)
}

// Delete godoc
// @Summary      Delete a schedule block
// @Tags         schedule
// @Security     BearerAuth
// @Param        id path string true "Block id"
// @Success      204
// @Router       /schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedule.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
