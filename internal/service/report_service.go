package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
	"github.com/centroforma/forma-api/pkg/export"
)

type reportScheduleReader interface {
	ListByTrainerBetween(ctx context.Context, trainerID string, from, to time.Time) ([]models.ScheduleBlock, error)
	ListByClassBetween(ctx context.Context, classID string, from, to time.Time) ([]models.ScheduleBlock, error)
}

type reportTrainerReader interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
}

type reportClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type progressReader interface {
	ModuleProgress(ctx context.Context, trainerID, classID, moduleID string) (*models.ModuleProgress, error)
	TaughtHoursMonth(ctx context.Context, trainerID string, previous bool) (float64, error)
}

// ReportFormat selects the rendering of an export.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

// Report is a rendered export with its MIME type and suggested filename.
type Report struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Display strings follow the report conventions used by the centre's
// secretariat, which works in Portuguese.
var teachingStatusLabels = map[models.TeachingStatus]string{
	models.TeachingNotStarted: "Não iniciado",
	models.TeachingInProgress: "Em curso",
	models.TeachingFinished:   "Concluído",
}

// ReportService renders timetable and progress exports.
type ReportService struct {
	blocks   reportScheduleReader
	trainers reportTrainerReader
	classes  reportClassReader
	progress progressReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(blocks reportScheduleReader, trainers reportTrainerReader, classes reportClassReader, progress progressReader, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		blocks:   blocks,
		trainers: trainers,
		classes:  classes,
		progress: progress,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// TrainerTimetable exports a trainer's schedule blocks between two
// dates, ordered as stored.
func (s *ReportService) TrainerTimetable(ctx context.Context, trainerID string, from, to time.Time, format ReportFormat) (*Report, error) {
	trainer, err := s.trainers.FindByID(ctx, trainerID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
	}

	blocks, err := s.blocks.ListByTrainerBetween(ctx, trainerID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
	}

	data := export.Dataset{
		Headers: []string{"Data", "Início", "Fim", "Turma", "Módulo", "Sala"},
	}
	for _, b := range blocks {
		data.Rows = append(data.Rows, []string{
			dateKey(b.Date), b.StartTime, b.EndTime, b.ClassID, b.ModuleID, b.RoomID,
		})
	}

	title := fmt.Sprintf("Horário de %s (%s a %s)", trainer.FullName, dateKey(from), dateKey(to))
	base := fmt.Sprintf("horario_%s_%s", dateKey(from), dateKey(to))
	return s.render(data, title, base, format)
}

// ClassTimetable exports a class's schedule blocks between two dates.
func (s *ReportService) ClassTimetable(ctx context.Context, classID string, from, to time.Time, format ReportFormat) (*Report, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	blocks, err := s.blocks.ListByClassBetween(ctx, classID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule blocks")
	}

	data := export.Dataset{
		Headers: []string{"Data", "Início", "Fim", "Formador", "Módulo", "Sala"},
	}
	for _, b := range blocks {
		data.Rows = append(data.Rows, []string{
			dateKey(b.Date), b.StartTime, b.EndTime, b.TrainerID, b.ModuleID, b.RoomID,
		})
	}

	title := fmt.Sprintf("Horário da turma %s (%s a %s)", class.Name, dateKey(from), dateKey(to))
	base := fmt.Sprintf("horario_turma_%s_%s", dateKey(from), dateKey(to))
	return s.render(data, title, base, format)
}

// TrainerHours exports a trainer's taught hours for the current and
// previous calendar month.
func (s *ReportService) TrainerHours(ctx context.Context, trainerID string, format ReportFormat) (*Report, error) {
	trainer, err := s.trainers.FindByID(ctx, trainerID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
	}

	current, err := s.progress.TaughtHoursMonth(ctx, trainerID, false)
	if err != nil {
		return nil, err
	}
	previous, err := s.progress.TaughtHoursMonth(ctx, trainerID, true)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Formador", "Mês anterior (h)", "Mês corrente (h)"},
		Rows: [][]string{
			{trainer.FullName, formatHours(previous), formatHours(current)},
		},
	}
	title := fmt.Sprintf("Horas lecionadas de %s", trainer.FullName)
	return s.render(data, title, "horas_lecionadas", format)
}

// ModuleProgressReport exports the teaching status of one (class,
// module, trainer) tuple.
func (s *ReportService) ModuleProgressReport(ctx context.Context, trainerID, classID, moduleID string, format ReportFormat) (*Report, error) {
	progress, err := s.progress.ModuleProgress(ctx, trainerID, classID, moduleID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Turma", "Módulo", "Horas dadas", "Horas previstas", "Estado"},
		Rows: [][]string{
			{
				progress.ClassID,
				progress.ModuleID,
				formatHours(progress.TaughtHours),
				formatHours(progress.TotalHours),
				teachingStatusLabels[progress.Status],
			},
		},
	}
	return s.render(data, "Progresso do módulo", "progresso_modulo", format)
}

func (s *ReportService) render(data export.Dataset, title, base string, format ReportFormat) (*Report, error) {
	switch format {
	case FormatCSV, "":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &Report{Content: content, ContentType: "text/csv", Filename: base + ".csv"}, nil
	case FormatPDF:
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &Report{Content: content, ContentType: "application/pdf", Filename: base + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}
