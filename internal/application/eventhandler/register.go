package eventhandler

import (
	"fmt"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// Handlers набор обработчиков, подписываемых на шину событий.
// Nil-поля пропускаются.
type Handlers struct {
	UserRegistered      *OnUserRegisteredHandler
	AchievementUnlocked *OnAchievementUnlockedHandler
	LevelUp             *OnLevelUpHandler
	ProgressRecorded    *OnProgressRecordedHandler
}

type subscription struct {
	eventType shared.EventType
	handler   shared.EventHandler
}

// Register подписывает обработчики на соответствующие типы событий.
func Register(bus shared.EventSubscriber, h Handlers) error {
	var subs []subscription
	if h.UserRegistered != nil {
		subs = append(subs, subscription{shared.EventUserRegistered, h.UserRegistered.Handle})
	}
	if h.AchievementUnlocked != nil {
		subs = append(subs, subscription{shared.EventAchievementUnlocked, h.AchievementUnlocked.Handle})
	}
	if h.LevelUp != nil {
		subs = append(subs, subscription{shared.EventLevelUp, h.LevelUp.Handle})
	}
	if h.ProgressRecorded != nil {
		subs = append(subs, subscription{shared.EventProgressRecorded, h.ProgressRecorded.Handle})
	}

	for _, s := range subs {
		if err := bus.Subscribe(s.eventType, s.handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.eventType, err)
		}
	}
	return nil
}
