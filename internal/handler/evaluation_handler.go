package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/models"
	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// EvaluationHandler exposes grading endpoints.
type EvaluationHandler struct {
	evaluations *service.EvaluationService
}

// NewEvaluationHandler constructs an EvaluationHandler.
func NewEvaluationHandler(evaluations *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

// List godoc
// @Summary      List evaluations
// @Tags         evaluations
// @Security     BearerAuth
// @Produce      json
// @Param        enrollment_id query string false "Filter by enrollment"
// @Param        module_id query string false "Filter by module"
// @Param        class_id query string false "Filter by class"
// @Param        trainee_id query string false "Filter by trainee"
// @Success      200 {array} models.Evaluation
// @Router       /evaluations [get]
func (h *EvaluationHandler) List(c *gin.Context) {
	filter := models.EvaluationFilter{
		EnrollmentID: c.Query("enrollment_id"),
		ModuleID:     c.Query("module_id"),
		ClassID:      c.Query("class_id"),
		TraineeID:    c.Query("trainee_id"),
	}
	evaluations, err := h.evaluations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluations, nil)
}

// Get godoc
// @Summary      Get an evaluation
// @Tags         evaluations
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Evaluation id"
// @Success      200 {object} models.Evaluation
// @Router       /evaluations/{id} [get]
func (h *EvaluationHandler) Get(c *gin.Context) {
	evaluation, err := h.evaluations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation, nil)
}

// Record godoc
// @Summary      Grade a trainee on a module
// @Description  Upserts the score for the (enrollment, module) pair.
// @Tags         evaluations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body service.RecordEvaluationRequest true "Score"
// @Success      201 {object} models.Evaluation
// @Router       /evaluations [post]
func (h *EvaluationHandler) Record(c *gin.Context) {
	var req service.RecordEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	evaluation, err := h.evaluations.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, evaluation)
}
