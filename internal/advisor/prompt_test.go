package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gradeseer/gradeseer-api/internal/dto"
	"github.com/gradeseer/gradeseer-api/internal/grading"
)

func fptr(v float64) *float64 { return &v }

func TestSubjectPromptRendersContext(t *testing.T) {
	builder := NewPromptBuilder()
	ctx := &grading.SubjectContext{
		SubjectName:    "Calculus",
		CurrentPercent: 53.00,
		CurrentGrade:   5.00,
		ProjectedGrade: 3.25,
		BestCase:       2.75,
		WorstCase:      5.00,
		TargetGrade:    fptr(2.0),
		GapToTarget:    3.00,
		SafetyZone:     grading.ZoneRed,
		Components: []grading.ComponentStatus{
			{Name: "Exams", Weight: 40, Grade: 6.00, GradePoint: 5.00, Status: grading.StatusBelowTarget},
			{Name: "Quizzes", Weight: 40, Grade: 100.00, GradePoint: 1.00, Status: grading.StatusAboveTarget},
		},
		CompletedAssessments: []grading.CompletedAssessment{
			{Name: "Quiz 1", Component: "Quizzes", Weight: 40, Score: 100, Max: 100, Percentage: 100},
		},
		UpcomingAssessments: []grading.UpcomingAssessment{
			{Name: "Final Exam", Component: "Exams", Weight: 40, DueDate: "2026-09-15"},
		},
		Insights: grading.PerformanceInsights{Trend: grading.TrendImproving},
	}

	prompt := builder.SubjectPrompt(ctx)
	assert.Contains(t, prompt, "SUBJECT: Calculus")
	assert.Contains(t, prompt, "Target grade: 2.00 (gap: 3.00)")
	assert.Contains(t, prompt, "Safety zone: red")
	assert.Contains(t, prompt, "- Exams (weight 40%): 6.00% -> 5.00 grade points [below_target]")
	assert.Contains(t, prompt, "RISK COMPONENTS:\n- Exams")
	assert.Contains(t, prompt, "Final Exam (Exams, weight 40%), due 2026-09-15")
}

func TestSubjectPromptEmptyData(t *testing.T) {
	builder := NewPromptBuilder()
	prompt := builder.SubjectPrompt(&grading.SubjectContext{SubjectName: "Empty"})
	assert.Contains(t, prompt, "None logged")
	assert.Contains(t, prompt, "No risk components detected")
	assert.Contains(t, prompt, "Target grade: not set")

	assert.NotEmpty(t, builder.SubjectPrompt(nil))
}

func TestDashboardPrompt(t *testing.T) {
	builder := NewPromptBuilder()
	overview := dto.DashboardOverview{
		GPA: grading.GPAResult{GPA: 2.44, TotalUnits: 8},
		Subjects: []dto.SubjectCard{
			{Name: "Calculus", CurrentPercent: 56, GradePoint: 5.00, Completion: 50, TargetGrade: fptr(3.0), SafetyZone: grading.ZoneRed},
		},
		NeedsAttention: []dto.SubjectCard{
			{Name: "Calculus", GradePoint: 5.00, TargetGrade: fptr(3.0)},
		},
		Upcoming: []dto.UpcomingItem{
			{SubjectName: "Calculus", Component: "Exams", Name: "Final Exam", Weight: 40, DueDate: "2026-09-15"},
		},
	}

	prompt := builder.DashboardPrompt(overview)
	assert.Contains(t, prompt, "GPA: 2.44 across 8 units")
	assert.Contains(t, prompt, "NEEDS ATTENTION:\n- Calculus (currently 5.00, target 3.00)")
	assert.Contains(t, prompt, "Calculus: Final Exam (Exams, weight 40%), due 2026-09-15")
}

func TestDashboardPromptEmpty(t *testing.T) {
	prompt := NewPromptBuilder().DashboardPrompt(dto.DashboardOverview{})
	assert.Contains(t, prompt, "None logged")
	assert.Contains(t, prompt, "No risk components detected")
}

func TestAppHelpPromptIsStatic(t *testing.T) {
	prompt := NewPromptBuilder().AppHelpPrompt()
	assert.True(t, strings.Contains(prompt, "GradeSeer"))
	assert.NotEmpty(t, prompt)
}
