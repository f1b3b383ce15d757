package eventhandler

import (
	"context"
	"fmt"

	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// OnProgressRecordedHandler сбрасывает кеш лидерборда после записи прогресса.
type OnProgressRecordedHandler struct {
	cache  leaderboard.Cache
	logger *logger.Logger
}

// NewOnProgressRecordedHandler создаёт обработчик.
func NewOnProgressRecordedHandler(cache leaderboard.Cache, log *logger.Logger) *OnProgressRecordedHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnProgressRecordedHandler{
		cache:  cache,
		logger: log.With(logger.String("handler", "on_progress_recorded")),
	}
}

// Handle реализует shared.EventHandler.
// Кеш сбрасывается при любой записи: флаг completed не снимается, поэтому
// попытка с completed=false может поднять балл уже завершённого урока.
func (h *OnProgressRecordedHandler) Handle(ctx context.Context, event shared.Event) error {
	var e shared.ProgressRecordedEvent
	switch v := event.(type) {
	case shared.ProgressRecordedEvent:
		e = v
	case *shared.ProgressRecordedEvent:
		e = *v
	default:
		return nil
	}

	if h.cache == nil {
		return nil
	}

	if err := h.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate leaderboard cache: %w", err)
	}
	h.logger.Debug("leaderboard cache invalidated",
		logger.UserID(e.AggregateID()),
		logger.LessonID(e.LessonID),
	)
	return nil
}
