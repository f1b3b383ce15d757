package eventhandler

import (
	"context"
	"errors"
	"fmt"

	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON ACHIEVEMENT UNLOCKED HANDLER
// Уведомляет пользователя и сбрасывает кеш лидерборда
// (в строках рейтинга есть счётчик достижений).
// ═══════════════════════════════════════════════════════════════════════════

// OnAchievementUnlockedHandler обрабатывает событие получения достижения.
type OnAchievementUnlockedHandler struct {
	notifications notification.Repository
	cache         leaderboard.Cache
	notify        Gate
	logger        *logger.Logger
}

// NewOnAchievementUnlockedHandler создаёт обработчик. cache может быть nil.
func NewOnAchievementUnlockedHandler(
	notifications notification.Repository,
	cache leaderboard.Cache,
	notify Gate,
	log *logger.Logger,
) *OnAchievementUnlockedHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnAchievementUnlockedHandler{
		notifications: notifications,
		cache:         cache,
		notify:        notify,
		logger:        log.With(logger.String("handler", "on_achievement_unlocked")),
	}
}

// Handle реализует shared.EventHandler.
func (h *OnAchievementUnlockedHandler) Handle(ctx context.Context, event shared.Event) error {
	var e shared.AchievementUnlockedEvent
	switch v := event.(type) {
	case shared.AchievementUnlockedEvent:
		e = v
	case *shared.AchievementUnlockedEvent:
		e = *v
	default:
		h.logger.Warn("unexpected event", logger.String("event_type", string(event.EventType())))
		return nil
	}

	userID, err := shared.ParseUserID(e.AggregateID())
	if err != nil {
		return err
	}

	var errs []error
	if h.notify.allows(userID) {
		if _, err := h.notifications.Create(ctx, notification.AchievementUnlocked(userID, e.Title, e.Points)); err != nil {
			errs = append(errs, fmt.Errorf("create achievement notification: %w", err))
		}
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("invalidate leaderboard cache: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	h.logger.Debug("achievement processed",
		logger.UserID(userID.String()),
		logger.AchievementType(e.AchievementType),
	)
	return nil
}
