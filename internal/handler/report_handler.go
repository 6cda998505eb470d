package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/response"
)

// ReportHandler exposes export endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Timetable godoc
// @Summary      Export a trainer's timetable
// @Tags         reports
// @Security     BearerAuth
// @Produce      text/csv
// @Produce      application/pdf
// @Param        trainer_id path string true "Trainer id"
// @Param        date_from query string true "YYYY-MM-DD"
// @Param        date_to query string true "YYYY-MM-DD"
// @Param        format query string false "csv or pdf" default(csv)
// @Success      200 {file} binary
// @Router       /reports/trainers/{trainer_id}/timetable [get]
func (h *ReportHandler) Timetable(c *gin.Context) {
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
	report, err := h.reports.TrainerTimetable(c.Request.Context(), c.Param("trainer_id"), *from, *to,
		service.ReportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, report)
}

// ClassTimetable godoc
// @Summary      Export a class's timetable
// @Tags         reports
// @Security     BearerAuth
// @Produce      text/csv
// @Produce      application/pdf
// @Param        class_id path string true "Class id"
// @Param        date_from query string true "YYYY-MM-DD"
// @Param        date_to query string true "YYYY-MM-DD"
// @Param        format query string false "csv or pdf" default(csv)
// @Success      200 {file} binary
// @Router       /reports/classes/{class_id}/timetable [get]
func (h *ReportHandler) ClassTimetable(c *gin.Context) {
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
	report, err := h.reports.ClassTimetable(c.Request.Context(), c.Param("class_id"), *from, *to,
		service.ReportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, report)
}

// Hours godoc
// @Summary      Export a trainer's monthly taught hours
// @Tags         reports
// @Security     BearerAuth
// @Produce      text/csv
// @Produce      application/pdf
// @Param        trainer_id path string true "Trainer id"
// @Param        format query string false "csv or pdf" default(csv)
// @Success      200 {file} binary
// @Router       /reports/trainers/{trainer_id}/hours [get]
func (h *ReportHandler) Hours(c *gin.Context) {
	report, err := h.reports.TrainerHours(c.Request.Context(), c.Param("trainer_id"),
		service.ReportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, report)
}

// ModuleProgress godoc
// @Summary      Export the teaching status of a class module
// @Tags         reports
// @Security     BearerAuth
// @Produce      text/csv
// @Produce      application/pdf
// @Param        class_id path string true "Class id"
// @Param        module_id path string true "Module id"
// @Param        trainer_id query string true "Trainer id"
// @Param        format query string false "csv or pdf" default(csv)
// @Success      200 {file} binary
// @Router       /reports/classes/{class_id}/modules/{module_id} [get]
func (h *ReportHandler) ModuleProgress(c *gin.Context) {
	trainerID := c.Query("trainer_id")
	if trainerID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "trainer_id is required"))
		return
	}
	report, err := h.reports.ModuleProgressReport(c.Request.Context(), trainerID, c.Param("class_id"), c.Param("module_id"),
		service.ReportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, report)
}

func serveReport(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", "attachment; filename="+report.Filename)
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
