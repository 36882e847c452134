package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/grading"
	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

type mockExportHistoryRepo struct {
	records []models.HistoryRecord
}

func (m *mockExportHistoryRepo) List(ctx context.Context, userID string, filter models.HistoryFilter) ([]models.HistoryRecord, int, error) {
	return m.records, len(m.records), nil
}

func exportHistoryFixture() []models.HistoryRecord {
	return []models.HistoryRecord{
		{
			ID:          "h1",
			CourseName:  "Calculus",
			TargetGrade: "2.00",
			FinalGrade:  "1.75",
			Status:      models.HistoryReached,
			Units:       3,
			FinishedAt:  time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newExportTestService(enabled bool) *ExportService {
	history := &mockExportHistoryRepo{records: exportHistoryFixture()}
	subjects := &mockOverviewProvider{snapshot: &grading.SubjectContext{
		SubjectID:      testSubjectID,
		SubjectName:    "Calculus",
		CurrentPercent: 88,
		CurrentGrade:   2.0,
		SafetyZone:     grading.ZoneGreen,
		Components: []grading.ComponentStatus{
			{Name: "Quizzes", Weight: 40, Grade: 92.5, GradePoint: 1.5, Status: grading.StatusAboveTarget},
		},
	}}
	return NewExportService(history, subjects, zap.NewNop(), enabled)
}

func TestTranscriptCSV(t *testing.T) {
	svc := newExportTestService(true)

	file, err := svc.Transcript(context.Background(), "u1", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "transcript.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Data)
	assert.Contains(t, body, "Course")
	assert.Contains(t, body, "Calculus")
	assert.Contains(t, body, "1.75")
	assert.Contains(t, body, "2026-05-20")
}

func TestTranscriptPDF(t *testing.T) {
	svc := newExportTestService(true)

	file, err := svc.Transcript(context.Background(), "u1", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	require.True(t, len(file.Data) > 4)
	assert.Equal(t, "%PDF", string(file.Data[:4]))
}

func TestTranscriptDefaultsToCSV(t *testing.T) {
	svc := newExportTestService(true)

	file, err := svc.Transcript(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "transcript.csv", file.Filename)
}

func TestTranscriptUnsupportedFormat(t *testing.T) {
	svc := newExportTestService(true)

	_, err := svc.Transcript(context.Background(), "u1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportsDisabled(t *testing.T) {
	svc := newExportTestService(false)

	_, err := svc.Transcript(context.Background(), "u1", FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectReportCSV(t *testing.T) {
	svc := newExportTestService(true)

	file, err := svc.SubjectReport(context.Background(), "u1", testSubjectID, FormatCSV)
	require.NoError(t, err)

	body := string(file.Data)
	assert.Contains(t, body, "Quizzes")
	assert.Contains(t, body, "OVERALL")
	assert.Contains(t, body, "88.00")
}
