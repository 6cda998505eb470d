package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// AvailabilityHandler exposes availability window endpoints.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Reconcile godoc
// @Summary      Reconciled availability of a trainer
// @Description  Partitions each declared window into available and
// @Description  occupied segments against the trainer's lessons.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        trainer_id path string true "Trainer id"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to query string false "YYYY-MM-DD"
// @Success      200 {array} models.ReconciledSegment
// @Failure      403 {object} response.Envelope
// @Router       /trainers/{trainer_id}/availability [get]
func (h *AvailabilityHandler) Reconcile(c *gin.Context) {
	actor, aerr := actorFromContext(c)
	if aerr != nil {
		response.Error(c, aerr)
		return
	}
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
	segments, err := h.availability.Reconcile(c.Request.Context(), actor, c.Param("trainer_id"), dateFrom, dateTo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, segments, nil)
}

// CreateWindow godoc
// @Summary      Declare an availability window
// @Tags         availability
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateWindowRequest true "Window"
// @Success      201 {object} models.AvailabilityWindow
// @Failure      409 {object} response.Envelope
// @Router       /availability [post]
func (h *AvailabilityHandler) CreateWindow(c *gin.Context) {
	actor, aerr := actorFromContext(c)
	if aerr != nil {
		response.Error(c, aerr)
		return
	}
	var req service.CreateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	window, err := h.availability.CreateWindow(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// CreateWindowRange godoc
// @Summary      Declare windows across a date range
// @Description  Creates one window per weekday of the range with the
// @Description  same daily band. All-or-nothing.
// @Tags         availability
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.CreateWindowRangeRequest true "Range"
// @Success      201 {object} service.RangeResult
// @Failure      409 {object} response.Envelope
// @Router       /availability/range [post]
func (h *AvailabilityHandler) CreateWindowRange(c *gin.Context) {
	actor, aerr := actorFromContext(c)
	if aerr != nil {
		response.Error(c, aerr)
		return
	}
	var req service.CreateWindowRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	result, err := h.availability.CreateWindowRange(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DeleteWindow godoc
// @Summary      Delete an availability window
// @Tags         availability
// @Security     BearerAuth
// @Param        id path string true "Window id"
// @Success      204
// @Failure      409 {object} response.Envelope
// @Router       /availability/{id} [delete]
func (h *AvailabilityHandler) DeleteWindow(c *gin.Context) {
	actor, aerr := actorFromContext(c)
	if aerr != nil {
		response.Error(c, aerr)
		return
	}
	if err := h.availability.DeleteWindow(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteWindowRange godoc
// @Summary      Delete windows matching a band across a date range
// @Tags         availability
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.DeleteWindowRangeRequest true "Range"
// @Success      200 {object} service.RangeResult
// @Failure      409 {object} response.Envelope
// @Router       /availability/range [delete]
func (h *AvailabilityHandler) DeleteWindowRange(c *gin.Context) {
	actor, aerr := actorFromContext(c)
	if aerr != nil {
		response.Error(c, aerr)
		return
	}
	var req service.DeleteWindowRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	result, err := h.availability.DeleteWindowRange(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
