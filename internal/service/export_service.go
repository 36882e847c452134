package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/grading"
	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/export"
)

// Export formats accepted by the export endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type exportHistoryRepository interface {
	List(ctx context.Context, userID string, filter models.HistoryFilter) ([]models.HistoryRecord, int, error)
}

type exportSubjectService interface {
	Overview(ctx context.Context, userID, id string) (*grading.SubjectContext, error)
}

// ExportService renders transcripts and subject reports as CSV or PDF.
type ExportService struct {
	history  exportHistoryRepository
	subjects exportSubjectService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	enabled  bool
}

// NewExportService constructs an ExportService.
func NewExportService(history exportHistoryRepository, subjects exportSubjectService, logger *zap.Logger, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		history:  history,
		subjects: subjects,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		enabled:  enabled,
	}
}

// Enabled reports whether export endpoints are switched on.
func (s *ExportService) Enabled() bool {
	return s != nil && s.enabled
}

// Transcript renders the user's full archival history.
func (s *ExportService) Transcript(ctx context.Context, userID, format string) (*ExportFile, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled")
	}

	records, _, err := s.history.List(ctx, userID, models.HistoryFilter{Limit: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}

	data := export.Dataset{
		Title:   "Transcript",
		Headers: []string{"Course", "Target Grade", "Final Grade", "Status", "Units", "Finished At"},
	}
	for _, record := range records {
		data.Rows = append(data.Rows, []string{
			record.CourseName,
			record.TargetGrade,
			record.FinalGrade,
			string(record.Status),
			strconv.FormatFloat(record.Units, 'f', -1, 64),
			record.FinishedAt.Format("2006-01-02"),
		})
	}
	return s.render("transcript", format, data)
}

// SubjectReport renders the status snapshot of one active subject.
func (s *ExportService) SubjectReport(ctx context.Context, userID, subjectID, format string) (*ExportFile, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled")
	}

	snapshot, err := s.subjects.Overview(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   fmt.Sprintf("Subject Report: %s", snapshot.SubjectName),
		Headers: []string{"Component", "Weight %", "Grade %", "Grade Point", "Status"},
	}
	for _, comp := range snapshot.Components {
		data.Rows = append(data.Rows, []string{
			comp.Name,
			strconv.FormatFloat(comp.Weight, 'f', -1, 64),
			fmt.Sprintf("%.2f", comp.Grade),
			fmt.Sprintf("%.2f", comp.GradePoint),
			comp.Status,
		})
	}
	data.Rows = append(data.Rows, []string{
		"OVERALL",
		"",
		fmt.Sprintf("%.2f", snapshot.CurrentPercent),
		fmt.Sprintf("%.2f", snapshot.CurrentGrade),
		string(snapshot.SafetyZone),
	})
	return s.render("subject-report", format, data)
}

func (s *ExportService) render(name, format string, data export.Dataset) (*ExportFile, error) {
	switch format {
	case FormatCSV, "":
		raw, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: name + ".csv", ContentType: "text/csv", Data: raw}, nil
	case FormatPDF:
		raw, err := s.pdf.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: name + ".pdf", ContentType: "application/pdf", Data: raw}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
