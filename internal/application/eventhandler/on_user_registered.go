// Package eventhandler содержит обработчики доменных событий.
// Обработчики реагируют на изменения и запускают побочные эффекты:
// уведомления, учёт активности, сброс кешей.
package eventhandler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// Gate решает, включена ли функция для пользователя.
// nil означает "всегда включена".
type Gate func(userID uuid.UUID) bool

func (g Gate) allows(userID uuid.UUID) bool {
	return g == nil || g(userID)
}

// ═══════════════════════════════════════════════════════════════════════════
// ON USER REGISTERED HANDLER
// Первая запись активности с приветственными очками и приветственное
// уведомление.
// ═══════════════════════════════════════════════════════════════════════════

// OnUserRegisteredHandler обрабатывает событие регистрации.
type OnUserRegisteredHandler struct {
	activity      activity.Repository
	notifications notification.Repository
	clock         timeutil.Clock
	welcome       Gate
	logger        *logger.Logger
}

// NewOnUserRegisteredHandler создаёт обработчик события регистрации.
func NewOnUserRegisteredHandler(
	activityRepo activity.Repository,
	notifications notification.Repository,
	clock timeutil.Clock,
	welcome Gate,
	log *logger.Logger,
) *OnUserRegisteredHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &OnUserRegisteredHandler{
		activity:      activityRepo,
		notifications: notifications,
		clock:         clock,
		welcome:       welcome,
		logger:        log.With(logger.String("handler", "on_user_registered")),
	}
}

// Handle реализует shared.EventHandler.
// Оба побочных эффекта выполняются независимо; ошибки объединяются.
func (h *OnUserRegisteredHandler) Handle(ctx context.Context, event shared.Event) error {
	e, ok := asUserRegistered(event)
	if !ok {
		h.logger.Warn("unexpected event", logger.String("event_type", string(event.EventType())))
		return nil
	}

	userID, err := shared.ParseUserID(e.AggregateID())
	if err != nil {
		return err
	}

	var errs []error

	delta := activity.Delta{PointsEarned: activity.WelcomePoints}
	if err := h.activity.Record(ctx, userID, h.clock.Now(), delta); err != nil {
		errs = append(errs, fmt.Errorf("record welcome activity: %w", err))
	}

	if h.welcome.allows(userID) {
		if _, err := h.notifications.Create(ctx, notification.Welcome(userID, e.Name)); err != nil {
			errs = append(errs, fmt.Errorf("create welcome notification: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	h.logger.Debug("welcome processed", logger.UserID(userID.String()))
	return nil
}

func asUserRegistered(event shared.Event) (shared.UserRegisteredEvent, bool) {
	switch e := event.(type) {
	case shared.UserRegisteredEvent:
		return e, true
	case *shared.UserRegisteredEvent:
		return *e, e != nil
	default:
		return shared.UserRegisteredEvent{}, false
	}
}
