package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// ProgressHandler exposes taught-hours and module progress endpoints.
type ProgressHandler struct {
	progress *service.ProgressService
}

// NewProgressHandler constructs a ProgressHandler.
func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// TaughtHours godoc
// @Summary      Taught hours of a trainer in a date range
// @Tags         progress
// @Security     BearerAuth
// @Produce      json
// @Param        trainer_id path string true "Trainer id"
// @Param        date_from query string true "YYYY-MM-DD"
// @Param        date_to query string true "YYYY-MM-DD"
// @Success      200 {object} map[string]float64
// @Router       /trainers/{trainer_id}/hours [get]
func (h *ProgressHandler) TaughtHours(c *gin.Context) {
	from, err := dateQuery(c, "date_from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := dateQuery(c, "date_to")
	if err != nil {
		response.Error(c, err)
		return
	}
	if from == nil || to == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date_from and date_to are required"))
		return
	}
	hours, err := h.progress.TaughtHours(c.Request.Context(), c.Param("trainer_id"), *from, *to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"taught_hours": hours}, nil)
}

// TaughtHoursMonth godoc
// @Summary      Taught hours of a trainer for a calendar month
// @Tags         progress
// @Security     BearerAuth
// @Produce      json
// @Param        trainer_id path string true "Trainer id"
// @Param        previous query bool false "Previous month instead of current"
// @Success      200 {object} map[string]float64
// @Router       /trainers/{trainer_id}/hours/month [get]
func (h *ProgressHandler) TaughtHoursMonth(c *gin.Context) {
	previous, _ := strconv.ParseBool(c.DefaultQuery("previous", "false"))
	hours, err := h.progress.TaughtHoursMonth(c.Request.Context(), c.Param("trainer_id"), previous)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"taught_hours": hours}, nil)
}

// ModuleProgress godoc
// @Summary      Teaching status of a module within a class
// @Tags         progress
// @Security     BearerAuth
// @Produce      json
// @Param        class_id path string true "Class id"
// @Param        module_id path string true "Module id"
// @Param        trainer_id query string true "Trainer id"
// @Success      200 {object} models.ModuleProgress
// @Router       /classes/{class_id}/modules/{module_id}/progress [get]
func (h *ProgressHandler) ModuleProgress(c *gin.Context) {
	trainerID := c.Query("trainer_id")
	if trainerID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "trainer_id is required"))
		return
	}
	progress, err := h.progress.ModuleProgress(c.Request.Context(), trainerID, c.Param("class_id"), c.Param("module_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}
