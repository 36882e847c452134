package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

// SubjectRepository handles persistence for subjects and assembles the
// nested subject/component/item tree the grading core consumes.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectColumns = `id, user_id, name, is_major, target_grade, color, units, created_at, updated_at`

// List returns a user's subjects matching the filter with a total count.
func (r *SubjectRepository) List(ctx context.Context, userID string, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := "FROM subjects WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.IsMajor != nil {
		base += fmt.Sprintf(" AND is_major = $%d", len(args)+1)
		args = append(args, *filter.IsMajor)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", subjectColumns, base, limit, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID returns a subject owned by the user.
func (r *SubjectRepository) FindByID(ctx context.Context, userID, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1 AND user_id = $2 LIMIT 1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return &subject, nil
}

// FindTree returns a subject with all components and items loaded, the
// fully assembled input the grading core requires.
func (r *SubjectRepository) FindTree(ctx context.Context, userID, id string) (*models.SubjectTree, error) {
	subject, err := r.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var components []models.Component
	const componentQuery = `SELECT id, subject_id, name, percentage, priority, created_at, updated_at FROM components WHERE subject_id = $1 ORDER BY priority ASC`
	if err := r.db.SelectContext(ctx, &components, componentQuery, id); err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}

	var items []models.Item
	const itemQuery = `SELECT i.id, i.component_id, i.name, i.score, i.max, i.date, i.target, i.topic, i.created_at, i.updated_at FROM items i JOIN components c ON c.id = i.component_id WHERE c.subject_id = $1 ORDER BY i.created_at ASC`
	if err := r.db.SelectContext(ctx, &items, itemQuery, id); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	byComponent := make(map[string][]models.Item, len(components))
	for _, item := range items {
		byComponent[item.ComponentID] = append(byComponent[item.ComponentID], item)
	}

	tree := &models.SubjectTree{Subject: *subject, Components: make([]models.ComponentTree, 0, len(components))}
	for _, comp := range components {
		tree.Components = append(tree.Components, models.ComponentTree{
			Component: comp,
			Items:     byComponent[comp.ID],
		})
	}
	return tree, nil
}

// ListTrees returns fully assembled trees for all of a user's subjects.
func (r *SubjectRepository) ListTrees(ctx context.Context, userID string) ([]models.SubjectTree, error) {
	var subjects []models.Subject
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE user_id = $1 ORDER BY created_at ASC", subjectColumns)
	if err := r.db.SelectContext(ctx, &subjects, query, userID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	trees := make([]models.SubjectTree, 0, len(subjects))
	for _, subject := range subjects {
		tree, err := r.FindTree(ctx, userID, subject.ID)
		if err != nil {
			return nil, err
		}
		trees = append(trees, *tree)
	}
	return trees, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, user_id, name, is_major, target_grade, color, units, created_at, updated_at) VALUES (:id, :user_id, :name, :is_major, :target_grade, :color, :units, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject's mutable fields.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, is_major = :is_major, target_grade = :target_grade, color = :color, units = :units, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject; components and items cascade.
func (r *SubjectRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

// Finish archives the subject into history and deletes the live rows
// in one transaction. The history insert and the subject delete either
// both happen or neither does.
func (r *SubjectRepository) Finish(ctx context.Context, record *models.HistoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finish tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertQuery = `INSERT INTO history (id, subject_id, user_id, course_name, target_grade, final_grade, status, units, finished_at) VALUES (:id, :subject_id, :user_id, :course_name, :target_grade, :final_grade, :status, :units, :finished_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, record); err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1 AND user_id = $2`, record.SubjectID, record.UserID); err != nil {
		return fmt.Errorf("delete finished subject: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finish tx: %w", err)
	}
	return nil
}
