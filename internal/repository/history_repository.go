package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

// HistoryRepository reads and deletes archival history records. Rows
// are written only by the finish-subject transaction and never updated.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new repository instance.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const historyColumns = `id, subject_id, user_id, course_name, target_grade, final_grade, status, units, finished_at`

// List returns a user's history records with a total count.
func (r *HistoryRepository) List(ctx context.Context, userID string, filter models.HistoryFilter) ([]models.HistoryRecord, int, error) {
	base := "FROM history WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY finished_at DESC LIMIT %d OFFSET %d", historyColumns, base, limit, offset)
	var records []models.HistoryRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}
	return records, total, nil
}

// FindByID returns a history record owned by the user.
func (r *HistoryRepository) FindByID(ctx context.Context, userID, id string) (*models.HistoryRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM history WHERE id = $1 AND user_id = $2 LIMIT 1", historyColumns)
	var record models.HistoryRecord
	if err := r.db.GetContext(ctx, &record, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find history record: %w", err)
	}
	return &record, nil
}

// Delete removes a history record.
func (r *HistoryRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}
	return nil
}
