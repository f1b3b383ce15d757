package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// MaxNotificationIDs bounds one mark-read request.
const MaxNotificationIDs = 100

// MarkNotificationsReadCommand lists notifications to mark read.
type MarkNotificationsReadCommand struct {
	UserID uuid.UUID
	IDs    []int64
}

// Validate validates the command.
func (c MarkNotificationsReadCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrInvalidID, "user id is required")
	}
	if len(c.IDs) == 0 {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrEmptyValue, "notification ids are required")
	}
	if len(c.IDs) > MaxNotificationIDs {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrValueOutOfRange,
			fmt.Sprintf("at most %d notification ids per request", MaxNotificationIDs))
	}
	for _, id := range c.IDs {
		if id <= 0 {
			return shared.NewDomainError("notification", "MarkRead", shared.ErrInvalidID, "notification ids must be positive")
		}
	}
	return nil
}

// MarkNotificationsReadHandler handles the MarkNotificationsReadCommand.
type MarkNotificationsReadHandler struct {
	notifications notification.Repository
}

// NewMarkNotificationsReadHandler creates a new MarkNotificationsReadHandler.
func NewMarkNotificationsReadHandler(notifications notification.Repository) *MarkNotificationsReadHandler {
	return &MarkNotificationsReadHandler{notifications: notifications}
}

// Handle marks the caller's notifications read and returns how many changed.
// Ids owned by other users are ignored.
func (h *MarkNotificationsReadHandler) Handle(ctx context.Context, cmd MarkNotificationsReadCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	n, err := h.notifications.MarkRead(ctx, cmd.UserID, cmd.IDs)
	if err != nil {
		return 0, fmt.Errorf("mark_notifications_read: %w", err)
	}
	return n, nil
}
