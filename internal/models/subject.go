package models

import "time"

// Subject is one tracked course owned by a user.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	IsMajor     bool      `db:"is_major" json:"is_major"`
	TargetGrade *float64  `db:"target_grade" json:"target_grade,omitempty"`
	Color       *string   `db:"color" json:"color,omitempty"`
	Units       float64   `db:"units" json:"units"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Component is one weighted grading bucket within a subject.
// Percentage is stored as text to avoid float drift on the wire.
type Component struct {
	ID         string    `db:"id" json:"id"`
	SubjectID  string    `db:"subject_id" json:"subject_id"`
	Name       string    `db:"name" json:"name"`
	Percentage string    `db:"percentage" json:"percentage"`
	Priority   int       `db:"priority" json:"priority"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Item is one scored or pending assessment under a component.
type Item struct {
	ID          string    `db:"id" json:"id"`
	ComponentID string    `db:"component_id" json:"component_id"`
	Name        string    `db:"name" json:"name"`
	Score       *float64  `db:"score" json:"score,omitempty"`
	Max         *float64  `db:"max" json:"max,omitempty"`
	Date        *string   `db:"date" json:"date,omitempty"`
	Target      *float64  `db:"target" json:"target,omitempty"`
	Topic       *string   `db:"topic" json:"topic,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ComponentTree is a component with its items loaded.
type ComponentTree struct {
	Component
	Items []Item `json:"items"`
}

// SubjectTree is a fully assembled subject with nested components and items.
type SubjectTree struct {
	Subject
	Components []ComponentTree `json:"components"`
}

// CreateSubjectRequest payload for registering a new subject.
type CreateSubjectRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=120"`
	IsMajor     bool     `json:"is_major"`
	TargetGrade *float64 `json:"target_grade" validate:"omitempty,gte=1,lte=5"`
	Color       *string  `json:"color"`
	Units       float64  `json:"units" validate:"omitempty,gte=0,lte=12"`
}

// UpdateSubjectRequest payload for partial subject updates.
type UpdateSubjectRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=120"`
	IsMajor     *bool    `json:"is_major"`
	TargetGrade *float64 `json:"target_grade" validate:"omitempty,gte=1,lte=5"`
	Color       *string  `json:"color"`
	Units       *float64 `json:"units" validate:"omitempty,gte=0,lte=12"`
}

// CreateComponentRequest payload for adding a grading bucket.
type CreateComponentRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=120"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
	Priority   int     `json:"priority" validate:"gte=0"`
}

// UpdateComponentRequest payload for partial component updates.
type UpdateComponentRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Percentage *float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	Priority   *int     `json:"priority" validate:"omitempty,gte=0"`
}

// CreateItemRequest payload for logging an assessment.
// Score, max, and target arrive as loose JSON values and are sanitized
// before persistence; see the grading coercion helpers.
type CreateItemRequest struct {
	Name   string      `json:"name" validate:"required,min=1,max=160"`
	Score  interface{} `json:"score"`
	Max    interface{} `json:"max"`
	Date   *string     `json:"date"`
	Target interface{} `json:"target"`
	Topic  *string     `json:"topic"`
}

// UpdateItemRequest payload for partial item updates.
type UpdateItemRequest struct {
	Name   *string     `json:"name" validate:"omitempty,min=1,max=160"`
	Score  interface{} `json:"score"`
	Max    interface{} `json:"max"`
	Date   *string     `json:"date"`
	Target interface{} `json:"target"`
	Topic  *string     `json:"topic"`
}

// SubjectFilter narrows subject list queries.
type SubjectFilter struct {
	Search  string
	IsMajor *bool
	Page    int
	Limit   int
}
