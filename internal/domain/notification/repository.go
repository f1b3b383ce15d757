package notification

//go:generate mockgen -source=repository.go -destination=../../mocks/notification/mock_repository.go -package=mock_notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository определяет операции с уведомлениями.
type Repository interface {
	// Create сохраняет уведомление.
	Create(ctx context.Context, d Draft) (*Notification, error)

	// ListUnread возвращает непрочитанные уведомления, сначала новые.
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)

	// MarkRead помечает уведомления прочитанными. Чужие ID игнорируются.
	// Возвращает количество обновлённых записей.
	MarkRead(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
}
