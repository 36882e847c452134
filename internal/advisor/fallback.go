package advisor

import (
	"fmt"
	"strings"

	"github.com/gradeseer/gradeseer-api/internal/dto"
	"github.com/gradeseer/gradeseer-api/internal/grading"
)

// Fallback renders advisory text locally from the structured context
// when the model is unreachable. The user always gets a response.
type Fallback struct{}

// NewFallback constructs a Fallback renderer.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Subject renders a local summary for one subject.
func (f *Fallback) Subject(ctx *grading.SubjectContext) string {
	if ctx == nil {
		return "I couldn't reach the advisor right now and no subject data is available. Please try again later."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's a quick summary of %s while the advisor is unavailable.\n\n", ctx.SubjectName)
	fmt.Fprintf(&sb, "Your current standing is %.2f (%.2f%%). Projected: %.2f, best case: %.2f, worst case: %.2f.\n",
		ctx.CurrentGrade, ctx.CurrentPercent, ctx.ProjectedGrade, ctx.BestCase, ctx.WorstCase)
	if ctx.TargetGrade != nil {
		if ctx.CurrentGrade <= *ctx.TargetGrade {
			fmt.Fprintf(&sb, "You're meeting your target of %.2f.\n", *ctx.TargetGrade)
		} else {
			fmt.Fprintf(&sb, "You're %.2f grade points away from your target of %.2f.\n", ctx.GapToTarget, *ctx.TargetGrade)
		}
	}
	fmt.Fprintf(&sb, "You've completed %.0f%% of logged assessments.\n", ctx.PercentComplete)

	if risk := riskComponents(ctx); len(risk) > 0 {
		fmt.Fprintf(&sb, "Focus on: %s.\n", strings.Join(risk, ", "))
	}
	if n := len(ctx.UpcomingAssessments); n > 0 {
		next := ctx.UpcomingAssessments[0]
		fmt.Fprintf(&sb, "You have %d upcoming assessment(s); the next is %s (%s).\n", n, next.Name, next.Component)
	}
	return sb.String()
}

// Dashboard renders a local summary across all subjects.
func (f *Fallback) Dashboard(overview dto.DashboardOverview) string {
	var sb strings.Builder
	sb.WriteString("Here's your semester at a glance while the advisor is unavailable.\n\n")
	fmt.Fprintf(&sb, "GPA: %.2f across %.0f units and %d subject(s).\n",
		overview.GPA.GPA, overview.GPA.TotalUnits, len(overview.Subjects))
	if len(overview.NeedsAttention) > 0 {
		names := make([]string, 0, len(overview.NeedsAttention))
		for _, s := range overview.NeedsAttention {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&sb, "Subjects needing attention: %s.\n", strings.Join(names, ", "))
	} else {
		sb.WriteString("All subjects are on track.\n")
	}
	fmt.Fprintf(&sb, "Upcoming assessments: %d.\n", len(overview.Upcoming))
	return sb.String()
}

// Help renders static usage guidance.
func (f *Fallback) Help() string {
	return "GradeSeer tracks your courses: create a subject with a target grade, add " +
		"weighted components like Exams or Quizzes, then log each assessment with its " +
		"score and max points. The dashboard shows your current and projected grades, " +
		"GPA, and upcoming work. Finish a subject to archive its final grade into history."
}
