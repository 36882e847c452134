package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

// ComponentRepository handles persistence for grading components.
type ComponentRepository struct {
	db *sqlx.DB
}

// NewComponentRepository creates a new repository instance.
func NewComponentRepository(db *sqlx.DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

const componentColumns = `id, subject_id, name, percentage, priority, created_at, updated_at`

// ListBySubject returns all components of a subject ordered by priority.
func (r *ComponentRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Component, error) {
	query := fmt.Sprintf("SELECT %s FROM components WHERE subject_id = $1 ORDER BY priority ASC", componentColumns)
	var components []models.Component
	if err := r.db.SelectContext(ctx, &components, query, subjectID); err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return components, nil
}

// FindByID returns a component by id.
func (r *ComponentRepository) FindByID(ctx context.Context, id string) (*models.Component, error) {
	query := fmt.Sprintf("SELECT %s FROM components WHERE id = $1 LIMIT 1", componentColumns)
	var component models.Component
	if err := r.db.GetContext(ctx, &component, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find component: %w", err)
	}
	return &component, nil
}

// Create persists a new component.
func (r *ComponentRepository) Create(ctx context.Context, component *models.Component) error {
	if component.ID == "" {
		component.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if component.CreatedAt.IsZero() {
		component.CreatedAt = now
	}
	component.UpdatedAt = now

	const query = `INSERT INTO components (id, subject_id, name, percentage, priority, created_at, updated_at) VALUES (:id, :subject_id, :name, :percentage, :priority, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, component); err != nil {
		return fmt.Errorf("create component: %w", err)
	}
	return nil
}

// Update modifies a component.
func (r *ComponentRepository) Update(ctx context.Context, component *models.Component) error {
	component.UpdatedAt = time.Now().UTC()
	const query = `UPDATE components SET name = :name, percentage = :percentage, priority = :priority, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, component); err != nil {
		return fmt.Errorf("update component: %w", err)
	}
	return nil
}

// Delete removes a component; its items cascade.
func (r *ComponentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM components WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete component: %w", err)
	}
	return nil
}
