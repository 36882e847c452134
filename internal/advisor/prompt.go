package advisor

import (
	"fmt"
	"strings"

	"github.com/gradeseer/gradeseer-api/internal/dto"
	"github.com/gradeseer/gradeseer-api/internal/grading"
)

// SystemInstruction frames every advisor conversation.
const SystemInstruction = "You are GradeSeer's academic advisor. You help a student " +
	"understand their standing using the academic context provided. Grade points use " +
	"a 1.00 (best) to 5.00 (worst) scale. Be concrete, encouraging, and honest about risk. " +
	"Keep answers short and actionable. Never invent grades that are not in the context."

// PromptBuilder renders academic context into natural-language blocks
// for the model. Pure string formatting; it never fails and performs
// no I/O.
type PromptBuilder struct{}

// NewPromptBuilder constructs a PromptBuilder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// SubjectPrompt renders a single subject's status snapshot.
func (b *PromptBuilder) SubjectPrompt(ctx *grading.SubjectContext) string {
	if ctx == nil {
		return "No subject data is available."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "SUBJECT: %s\n", ctx.SubjectName)
	fmt.Fprintf(&sb, "Current grade: %.2f (%.2f%%), projected: %.2f, best case: %.2f, worst case: %.2f\n",
		ctx.CurrentGrade, ctx.CurrentPercent, ctx.ProjectedGrade, ctx.BestCase, ctx.WorstCase)
	if ctx.TargetGrade != nil {
		fmt.Fprintf(&sb, "Target grade: %.2f (gap: %.2f)\n", *ctx.TargetGrade, ctx.GapToTarget)
	} else {
		sb.WriteString("Target grade: not set\n")
	}
	fmt.Fprintf(&sb, "Completion: %.0f%% (%d of %d assessments scored)\n",
		ctx.PercentComplete, ctx.ItemsCompleted, ctx.ItemsTotal)
	fmt.Fprintf(&sb, "Safety zone: %s\n", ctx.SafetyZone)

	sb.WriteString("\nCOMPONENTS:\n")
	if len(ctx.Components) == 0 {
		sb.WriteString("None logged\n")
	}
	for _, c := range ctx.Components {
		fmt.Fprintf(&sb, "- %s (weight %.0f%%): %.2f%% -> %.2f grade points [%s]\n",
			c.Name, c.Weight, c.Grade, c.GradePoint, c.Status)
	}

	risk := riskComponents(ctx)
	sb.WriteString("\nRISK COMPONENTS:\n")
	if len(risk) == 0 {
		sb.WriteString("No risk components detected\n")
	}
	for _, name := range risk {
		fmt.Fprintf(&sb, "- %s\n", name)
	}

	sb.WriteString("\nCOMPLETED ASSESSMENTS:\n")
	if len(ctx.CompletedAssessments) == 0 {
		sb.WriteString("None logged\n")
	}
	for _, a := range ctx.CompletedAssessments {
		fmt.Fprintf(&sb, "- %s (%s, weight %.0f%%): %.2f/%.2f = %.2f%%\n",
			a.Name, a.Component, a.Weight, a.Score, a.Max, a.Percentage)
	}

	sb.WriteString("\nUPCOMING ASSESSMENTS:\n")
	if len(ctx.UpcomingAssessments) == 0 {
		sb.WriteString("None logged\n")
	}
	for _, a := range ctx.UpcomingAssessments {
		due := a.DueDate
		if due == "" {
			due = "no date"
		}
		fmt.Fprintf(&sb, "- %s (%s, weight %.0f%%), due %s\n", a.Name, a.Component, a.Weight, due)
	}

	fmt.Fprintf(&sb, "\nINSIGHTS: quiz average %.2f%%, exam average %.2f%%, trend %s",
		ctx.Insights.QuizAverage, ctx.Insights.ExamAverage, ctx.Insights.Trend)
	if ctx.Insights.StrongestComponent != "" {
		fmt.Fprintf(&sb, ", strongest component %s, weakest component %s",
			ctx.Insights.StrongestComponent, ctx.Insights.WeakestComponent)
	}
	sb.WriteString("\n")
	return sb.String()
}

// DashboardPrompt renders the cross-subject overview.
func (b *PromptBuilder) DashboardPrompt(overview dto.DashboardOverview) string {
	var sb strings.Builder
	sb.WriteString("SEMESTER OVERVIEW\n")
	fmt.Fprintf(&sb, "GPA: %.2f across %.0f units\n", overview.GPA.GPA, overview.GPA.TotalUnits)

	sb.WriteString("\nSUBJECTS:\n")
	if len(overview.Subjects) == 0 {
		sb.WriteString("None logged\n")
	}
	for _, s := range overview.Subjects {
		target := "no target"
		if s.TargetGrade != nil {
			target = fmt.Sprintf("target %.2f", *s.TargetGrade)
		}
		fmt.Fprintf(&sb, "- %s: %.2f%% -> %.2f grade points, %.0f%% complete, %s [%s]\n",
			s.Name, s.CurrentPercent, s.GradePoint, s.Completion, target, s.SafetyZone)
	}

	sb.WriteString("\nNEEDS ATTENTION:\n")
	if len(overview.NeedsAttention) == 0 {
		sb.WriteString("No risk components detected\n")
	}
	for _, s := range overview.NeedsAttention {
		fmt.Fprintf(&sb, "- %s (currently %.2f, target %.2f)\n", s.Name, s.GradePoint, coerceTarget(s.TargetGrade))
	}

	sb.WriteString("\nUPCOMING ASSESSMENTS:\n")
	if len(overview.Upcoming) == 0 {
		sb.WriteString("None logged\n")
	}
	for _, u := range overview.Upcoming {
		due := u.DueDate
		if due == "" {
			due = "no date"
		}
		fmt.Fprintf(&sb, "- %s: %s (%s, weight %.0f%%), due %s\n", u.SubjectName, u.Name, u.Component, u.Weight, due)
	}
	return sb.String()
}

// AppHelpPrompt carries static usage guidance only; no user data.
func (b *PromptBuilder) AppHelpPrompt() string {
	return "The student is asking how to use GradeSeer. Features: create subjects with " +
		"a target grade and credit units; add weighted grading components (weights sum " +
		"to at most 100%); log assessment items with scores and max points; view current, " +
		"projected, best-case, and worst-case grades; finish a subject to archive its " +
		"final grade into history; check the dashboard for GPA and upcoming work; export " +
		"the transcript as CSV or PDF. Answer their question about the app itself."
}

func riskComponents(ctx *grading.SubjectContext) []string {
	var names []string
	for _, c := range ctx.Components {
		if c.Status == grading.StatusBelowTarget {
			names = append(names, c.Name)
		}
	}
	return names
}

func coerceTarget(t *float64) float64 {
	if t == nil {
		return 0
	}
	return *t
}
