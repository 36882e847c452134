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

// NotificationRepository handles persistence for in-app notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new repository instance.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, title, body, read, created_at`

// List returns a user's notifications with a total count.
func (r *NotificationRepository) List(ctx context.Context, userID string, filter models.NotificationFilter) ([]models.Notification, int, error) {
	base := "FROM notifications WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.UnreadOnly {
		base += " AND read = FALSE"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", notificationColumns, base, limit, offset)
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return notifications, total, nil
}

// FindByID returns a notification owned by the user.
func (r *NotificationRepository) FindByID(ctx context.Context, userID, id string) (*models.Notification, error) {
	query := fmt.Sprintf("SELECT %s FROM notifications WHERE id = $1 AND user_id = $2 LIMIT 1", notificationColumns)
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return &notification, nil
}

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO notifications (id, user_id, type, title, body, read, created_at) VALUES (:id, :user_id, :type, :title, :body, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// Delete removes a notification.
func (r *NotificationRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
