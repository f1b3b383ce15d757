package eventhandler

import (
	"context"
	"fmt"

	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// OnLevelUpHandler уведомляет пользователя о новом уровне.
type OnLevelUpHandler struct {
	notifications notification.Repository
	notify        Gate
	logger        *logger.Logger
}

// NewOnLevelUpHandler создаёт обработчик события повышения уровня.
func NewOnLevelUpHandler(notifications notification.Repository, notify Gate, log *logger.Logger) *OnLevelUpHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnLevelUpHandler{
		notifications: notifications,
		notify:        notify,
		logger:        log.With(logger.String("handler", "on_level_up")),
	}
}

// Handle реализует shared.EventHandler.
func (h *OnLevelUpHandler) Handle(ctx context.Context, event shared.Event) error {
	var e shared.LevelUpEvent
	switch v := event.(type) {
	case shared.LevelUpEvent:
		e = v
	case *shared.LevelUpEvent:
		e = *v
	default:
		return nil
	}

	userID, err := shared.ParseUserID(e.AggregateID())
	if err != nil {
		return err
	}
	if !h.notify.allows(userID) {
		return nil
	}

	if _, err := h.notifications.Create(ctx, notification.LevelUp(userID, e.NewLevel)); err != nil {
		return fmt.Errorf("create level up notification: %w", err)
	}

	h.logger.Info("level up",
		logger.UserID(userID.String()),
		logger.Int("old_level", e.OldLevel),
		logger.Int("new_level", e.NewLevel),
	)
	return nil
}
