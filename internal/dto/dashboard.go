package dto

import (
	"github.com/gradeseer/gradeseer-api/internal/grading"
)

// SubjectCard is the dashboard summary for one active subject. The
// grade uses the raw-excluding percentage and the display scale.
type SubjectCard struct {
	SubjectID      string             `json:"subject_id"`
	Name           string             `json:"name"`
	IsMajor        bool               `json:"is_major"`
	Units          float64            `json:"units"`
	CurrentPercent float64            `json:"current_percent"`
	GradePoint     float64            `json:"grade_point"`
	Completion     float64            `json:"completion"`
	TargetGrade    *float64           `json:"target_grade,omitempty"`
	SafetyZone     grading.SafetyZone `json:"safety_zone"`
}

// UpcomingItem is a pending assessment surfaced on the dashboard.
type UpcomingItem struct {
	SubjectName string  `json:"subject_name"`
	Component   string  `json:"component"`
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	DueDate     string  `json:"due_date,omitempty"`
}

// DashboardOverview is the per-user aggregation across all active
// subjects.
type DashboardOverview struct {
	Subjects       []SubjectCard     `json:"subjects"`
	GPA            grading.GPAResult `json:"gpa"`
	NeedsAttention []SubjectCard     `json:"needs_attention"`
	Upcoming       []UpcomingItem    `json:"upcoming"`
}
