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

// ItemRepository handles persistence for assessment items.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new repository instance.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, component_id, name, score, max, date, target, topic, created_at, updated_at`

// ListByComponent returns all items under a component.
func (r *ItemRepository) ListByComponent(ctx context.Context, componentID string) ([]models.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE component_id = $1 ORDER BY created_at ASC", itemColumns)
	var items []models.Item
	if err := r.db.SelectContext(ctx, &items, query, componentID); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// FindByID returns an item by id.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*models.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE id = $1 LIMIT 1", itemColumns)
	var item models.Item
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return &item, nil
}

// Create persists a new item.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO items (id, component_id, name, score, max, date, target, topic, created_at, updated_at) VALUES (:id, :component_id, :name, :score, :max, :date, :target, :topic, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// Update modifies an item in place.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE items SET name = :name, score = :score, max = :max, date = :date, target = :target, topic = :topic, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes an item.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
