package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

func sptr(s string) *string { return &s }

func sampleTree(target *float64) models.SubjectTree {
	return models.SubjectTree{
		Subject: models.Subject{
			ID:          "sub-1",
			Name:        "Calculus",
			TargetGrade: target,
			Units:       3,
		},
		Components: []models.ComponentTree{
			{
				Component: models.Component{ID: "c-1", Name: "Exams", Percentage: "40"},
				Items: []models.Item{
					{ID: "i-1", Name: "Midterm Exam", Score: fptr(12), Max: fptr(100)},
					{ID: "i-2", Name: "Final Exam", Score: nil, Max: fptr(100), Date: sptr("2026-09-15")},
				},
			},
			{
				Component: models.Component{ID: "c-2", Name: "Quizzes", Percentage: "40"},
				Items: []models.Item{
					{ID: "i-3", Name: "Quiz 1", Score: fptr(100), Max: fptr(100)},
				},
			},
		},
	}
}

func TestAssembleContextGradeFamily(t *testing.T) {
	ctx := AssembleContext(sampleTree(nil))

	// Zero-fill: exams 6.00, quizzes 100.00 -> 53.00 percent.
	assert.Equal(t, 53.00, ctx.CurrentPercent)
	assert.Equal(t, 5.00, ctx.CurrentGrade)
	// Projected (75-fill): exams 43.50, quizzes 100 -> 71.75 -> 3.25.
	assert.Equal(t, 3.25, ctx.ProjectedGrade)
	// Best case (100-fill): exams 56.00, quizzes 100 -> 78.00 -> 2.75.
	assert.Equal(t, 2.75, ctx.BestCase)
	// Worst case matches zero-fill here.
	assert.Equal(t, 5.00, ctx.WorstCase)
}

func TestAssembleContextCompletionAndPartitions(t *testing.T) {
	ctx := AssembleContext(sampleTree(nil))

	assert.Equal(t, 3, ctx.ItemsTotal)
	assert.Equal(t, 2, ctx.ItemsCompleted)
	assert.Equal(t, 67.0, ctx.PercentComplete)

	require.Len(t, ctx.CompletedAssessments, 2)
	assert.Equal(t, "Midterm Exam", ctx.CompletedAssessments[0].Name)
	assert.Equal(t, "Exams", ctx.CompletedAssessments[0].Component)
	assert.Equal(t, 12.00, ctx.CompletedAssessments[0].Percentage)

	require.Len(t, ctx.UpcomingAssessments, 1)
	assert.Equal(t, "Final Exam", ctx.UpcomingAssessments[0].Name)
	assert.Equal(t, "2026-09-15", ctx.UpcomingAssessments[0].DueDate)
	assert.Equal(t, 40.0, ctx.UpcomingAssessments[0].Weight)
}

func TestAssembleContextTargetAndZone(t *testing.T) {
	// Target 3.0, current grade 5.00 on the archival scale: gap 2.00.
	tree := models.SubjectTree{
		Subject: models.Subject{ID: "s", Name: "Physics", TargetGrade: fptr(3.0)},
		Components: []models.ComponentTree{
			{
				Component: models.Component{ID: "c", Name: "Exams", Percentage: "100"},
				Items:     []models.Item{{ID: "i", Name: "Exam 1", Score: fptr(56), Max: fptr(100)}},
			},
		},
	}
	ctx := AssembleContext(tree)
	assert.Equal(t, 5.00, ctx.CurrentGrade)
	assert.Equal(t, 2.00, ctx.GapToTarget)
	// 5.00 > 3.0 target and 56% < 71 -> red.
	assert.Equal(t, ZoneRed, ctx.SafetyZone)
	require.Len(t, ctx.Components, 1)
	assert.Equal(t, StatusBelowTarget, ctx.Components[0].Status)
}

func TestAssembleContextZoneGreenWhenTargetMet(t *testing.T) {
	tree := models.SubjectTree{
		Subject: models.Subject{ID: "s", Name: "History", TargetGrade: fptr(2.0)},
		Components: []models.ComponentTree{
			{
				Component: models.Component{ID: "c", Name: "Papers", Percentage: "100"},
				Items:     []models.Item{{ID: "i", Name: "Paper 1", Score: fptr(90), Max: fptr(100)}},
			},
		},
	}
	ctx := AssembleContext(tree)
	// 90% -> 1.75 on the archival scale, under the 2.0 target.
	assert.Equal(t, 1.75, ctx.CurrentGrade)
	assert.Equal(t, ZoneGreen, ctx.SafetyZone)
	assert.Equal(t, StatusAboveTarget, ctx.Components[0].Status)
}

func TestAssembleContextZoneWithoutTarget(t *testing.T) {
	mk := func(score float64) models.SubjectTree {
		return models.SubjectTree{
			Subject: models.Subject{ID: "s", Name: "Arts"},
			Components: []models.ComponentTree{
				{
					Component: models.Component{ID: "c", Name: "Work", Percentage: "100"},
					Items:     []models.Item{{ID: "i", Name: "Piece", Score: fptr(score), Max: fptr(100)}},
				},
			},
		}
	}
	assert.Equal(t, ZoneGreen, AssembleContext(mk(80)).SafetyZone)
	assert.Equal(t, ZoneYellow, AssembleContext(mk(70)).SafetyZone)
	assert.Equal(t, ZoneRed, AssembleContext(mk(50)).SafetyZone)
}

func TestAssembleContextInsights(t *testing.T) {
	ctx := AssembleContext(sampleTree(nil))

	assert.Equal(t, 100.00, ctx.Insights.QuizAverage)
	assert.Equal(t, 12.00, ctx.Insights.ExamAverage)
	// Unscored work remains, so the 75-fill projection beats zero-fill.
	assert.Equal(t, TrendImproving, ctx.Insights.Trend)
	assert.Equal(t, "Quizzes", ctx.Insights.StrongestComponent)
	assert.Equal(t, "Exams", ctx.Insights.WeakestComponent)
}

func TestAssembleContextEmptyTree(t *testing.T) {
	ctx := AssembleContext(models.SubjectTree{
		Subject: models.Subject{ID: "s", Name: "Empty"},
	})
	assert.Equal(t, 0.0, ctx.CurrentPercent)
	assert.Equal(t, 5.00, ctx.CurrentGrade)
	assert.Equal(t, 0.0, ctx.PercentComplete)
	assert.Empty(t, ctx.Components)
	assert.Empty(t, ctx.CompletedAssessments)
	assert.Empty(t, ctx.UpcomingAssessments)
	assert.Equal(t, ZoneRed, ctx.SafetyZone)
}
