package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Create stores a notification.
func (r *NotificationRepository) Create(ctx context.Context, d notification.Draft) (*notification.Notification, error) {
	typ := d.Type
	if typ == "" {
		typ = notification.TypeInfo
	}

	query := `
		INSERT INTO user_notifications (user_id, title, message, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, message, type, is_read, created_at
	`

	var n notification.Notification
	var t string
	err := r.conn.QueryRow(ctx, query, d.UserID, d.Title, d.Message, string(typ)).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &t, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	n.Type = notification.Type(t)

	return &n, nil
}

// ListUnread returns unread notifications, newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM user_notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	out := []notification.Notification{}
	for rows.Next() {
		var n notification.Notification
		var t string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &t, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = notification.Type(t)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead marks the user's notifications as read; other users' IDs are ignored.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.conn.Exec(ctx,
		`UPDATE user_notifications SET is_read = TRUE WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.RowsAffected(), nil
}
