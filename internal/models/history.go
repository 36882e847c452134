package models

import "time"

// HistoryStatus records whether the target grade was met when a
// subject was finished.
type HistoryStatus string

const (
	HistoryReached HistoryStatus = "reached"
	HistoryMissed  HistoryStatus = "missed"
)

// HistoryRecord is the immutable snapshot written when a subject is
// finished. Grades are stored as 2-decimal strings.
type HistoryRecord struct {
	ID          string        `db:"id" json:"id"`
	SubjectID   string        `db:"subject_id" json:"subject_id"`
	UserID      string        `db:"user_id" json:"user_id"`
	CourseName  string        `db:"course_name" json:"course_name"`
	TargetGrade string        `db:"target_grade" json:"target_grade"`
	FinalGrade  string        `db:"final_grade" json:"final_grade"`
	Status      HistoryStatus `db:"status" json:"status"`
	Units       float64       `db:"units" json:"units"`
	FinishedAt  time.Time     `db:"finished_at" json:"finished_at"`
}

// HistoryFilter narrows history list queries.
type HistoryFilter struct {
	Status HistoryStatus
	Page   int
	Limit  int
}
