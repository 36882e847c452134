package grading

import (
	"math"
	"strings"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

// SafetyZone is the three-level risk classification for a subject.
type SafetyZone string

const (
	ZoneGreen  SafetyZone = "green"
	ZoneYellow SafetyZone = "yellow"
	ZoneRed    SafetyZone = "red"
)

// Component target statuses.
const (
	StatusAboveTarget = "above_target"
	StatusBelowTarget = "below_target"
	StatusUnknown     = "unknown"
)

// Trend flags for performance insights.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
)

// ComponentStatus summarizes one grading bucket inside the snapshot.
type ComponentStatus struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Grade      float64 `json:"grade"`
	GradePoint float64 `json:"grade_point"`
	Status     string  `json:"status"`
}

// CompletedAssessment is a scored item annotated with its component.
type CompletedAssessment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Component  string  `json:"component"`
	Weight     float64 `json:"weight"`
	Score      float64 `json:"score"`
	Max        float64 `json:"max"`
	Percentage float64 `json:"percentage"`
}

// UpcomingAssessment is a pending item annotated with its component
// and due date.
type UpcomingAssessment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Component string  `json:"component"`
	Weight    float64 `json:"weight"`
	DueDate   string  `json:"due_date,omitempty"`
}

// PerformanceInsights carries derived study signals.
type PerformanceInsights struct {
	QuizAverage        float64 `json:"quiz_average"`
	ExamAverage        float64 `json:"exam_average"`
	Trend              string  `json:"trend"`
	StrongestComponent string  `json:"strongest_component,omitempty"`
	WeakestComponent   string  `json:"weakest_component,omitempty"`
}

// SubjectContext is the structured academic-status snapshot for one
// subject. It is derived in full on every request and never persisted.
type SubjectContext struct {
	SubjectID            string                `json:"subject_id"`
	SubjectName          string                `json:"subject_name"`
	CurrentPercent       float64               `json:"current_percent"`
	CurrentGrade         float64               `json:"current_grade"`
	ProjectedGrade       float64               `json:"projected_grade"`
	BestCase             float64               `json:"best_case"`
	WorstCase            float64               `json:"worst_case"`
	PercentComplete      float64               `json:"percent_complete"`
	ItemsCompleted       int                   `json:"items_completed"`
	ItemsTotal           int                   `json:"items_total"`
	TargetGrade          *float64              `json:"target_grade,omitempty"`
	GapToTarget          float64               `json:"gap_to_target"`
	SafetyZone           SafetyZone            `json:"safety_zone"`
	Components           []ComponentStatus     `json:"components"`
	CompletedAssessments []CompletedAssessment `json:"completed_assessments"`
	UpcomingAssessments  []UpcomingAssessment  `json:"upcoming_assessments"`
	Insights             PerformanceInsights   `json:"insights"`
}

// AssembleContext derives the full status snapshot from an assembled
// subject tree. It is a pure function of the tree: no I/O, no shared
// state, and no panic path. Every zero-denominator case yields 0.
func AssembleContext(tree models.SubjectTree) *SubjectContext {
	currentPercent := SubjectPercent(tree, nil)
	projectedPercent := SubjectPercent(tree, Fill(FillProjected))
	bestPercent := SubjectPercent(tree, Fill(FillBest))
	worstPercent := SubjectPercent(tree, Fill(FillWorst))

	ctx := &SubjectContext{
		SubjectID:            tree.ID,
		SubjectName:          tree.Name,
		CurrentPercent:       currentPercent,
		CurrentGrade:         GradePoint(currentPercent, ScaleArchival),
		ProjectedGrade:       GradePoint(projectedPercent, ScaleArchival),
		BestCase:             GradePoint(bestPercent, ScaleArchival),
		WorstCase:            GradePoint(worstPercent, ScaleArchival),
		TargetGrade:          tree.TargetGrade,
		Components:           make([]ComponentStatus, 0, len(tree.Components)),
		CompletedAssessments: []CompletedAssessment{},
		UpcomingAssessments:  []UpcomingAssessment{},
	}

	var validTotal, validCompleted int
	for _, comp := range tree.Components {
		weight := Weight(comp.Component)
		grade := ComponentGrade(comp.Items, nil)
		point := GradePoint(grade, ScaleArchival)

		status := StatusUnknown
		if tree.TargetGrade != nil {
			if point <= *tree.TargetGrade {
				status = StatusAboveTarget
			} else {
				status = StatusBelowTarget
			}
		}
		ctx.Components = append(ctx.Components, ComponentStatus{
			ID:         comp.ID,
			Name:       comp.Name,
			Weight:     weight,
			Grade:      grade,
			GradePoint: point,
			Status:     status,
		})

		for _, item := range comp.Items {
			max := Coerce(item.Max, 0)
			if max > 0 {
				validTotal++
				if item.Score != nil {
					validCompleted++
				}
			}
			if item.Score != nil && max > 0 {
				score := Coerce(item.Score, 0)
				ctx.CompletedAssessments = append(ctx.CompletedAssessments, CompletedAssessment{
					ID:         item.ID,
					Name:       item.Name,
					Component:  comp.Name,
					Weight:     weight,
					Score:      score,
					Max:        max,
					Percentage: Round2(100 * score / max),
				})
			}
			if item.Score == nil {
				due := ""
				if item.Date != nil {
					due = *item.Date
				}
				ctx.UpcomingAssessments = append(ctx.UpcomingAssessments, UpcomingAssessment{
					ID:        item.ID,
					Name:      item.Name,
					Component: comp.Name,
					Weight:    weight,
					DueDate:   due,
				})
			}
		}
	}

	ctx.ItemsTotal = validTotal
	ctx.ItemsCompleted = validCompleted
	if validTotal > 0 {
		ctx.PercentComplete = math.Round(100 * float64(validCompleted) / float64(validTotal))
	}

	if tree.TargetGrade != nil {
		ctx.GapToTarget = Round2(ctx.CurrentGrade - *tree.TargetGrade)
	}
	ctx.SafetyZone = classifyZone(ctx.CurrentGrade, currentPercent, tree.TargetGrade)
	ctx.Insights = deriveInsights(ctx, currentPercent, projectedPercent)
	return ctx
}

// classifyZone applies the target-aware thresholds. Grade points are
// lower-is-better, so meeting the target means currentGrade <= target.
func classifyZone(currentGrade, currentPercent float64, target *float64) SafetyZone {
	if target != nil {
		switch {
		case currentGrade <= *target:
			return ZoneGreen
		case currentPercent >= 71:
			return ZoneYellow
		default:
			return ZoneRed
		}
	}
	switch {
	case currentPercent >= 75:
		return ZoneGreen
	case currentPercent >= 65:
		return ZoneYellow
	default:
		return ZoneRed
	}
}

func deriveInsights(ctx *SubjectContext, currentPercent, projectedPercent float64) PerformanceInsights {
	insights := PerformanceInsights{Trend: TrendDeclining}
	if projectedPercent >= currentPercent {
		insights.Trend = TrendImproving
	}

	var quizSum, examSum float64
	var quizCount, examCount int
	for _, a := range ctx.CompletedAssessments {
		name := strings.ToLower(a.Name)
		if strings.Contains(name, "quiz") {
			quizSum += a.Percentage
			quizCount++
		}
		if strings.Contains(name, "midterm") || strings.Contains(name, "final") || strings.Contains(name, "exam") {
			examSum += a.Percentage
			examCount++
		}
	}
	if quizCount > 0 {
		insights.QuizAverage = Round2(quizSum / float64(quizCount))
	}
	if examCount > 0 {
		insights.ExamAverage = Round2(examSum / float64(examCount))
	}

	bestPoint := math.Inf(1)
	worstPoint := math.Inf(-1)
	for _, comp := range ctx.Components {
		if comp.GradePoint < bestPoint {
			bestPoint = comp.GradePoint
			insights.StrongestComponent = comp.Name
		}
		if comp.GradePoint > worstPoint {
			worstPoint = comp.GradePoint
			insights.WeakestComponent = comp.Name
		}
	}
	return insights
}
