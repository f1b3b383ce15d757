package notification

import (
	"fmt"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRIGGERS
// Фабрики уведомлений для доменных событий.
// ══════════════════════════════════════════════════════════════════════════════

// Welcome - приветствие нового пользователя.
func Welcome(userID uuid.UUID, name string) Draft {
	return Draft{
		UserID:  userID,
		Title:   "Welcome to SignLearn!",
		Message: fmt.Sprintf("Hi %s! Start your first lesson to begin learning sign language.", name),
		Type:    TypeWelcome,
	}
}

// AchievementUnlocked - уведомление о новом достижении.
func AchievementUnlocked(userID uuid.UUID, title string, points int) Draft {
	msg := fmt.Sprintf("You unlocked \"%s\".", title)
	if points > 0 {
		msg = fmt.Sprintf("You unlocked \"%s\" and earned %d points.", title, points)
	}
	return Draft{
		UserID:  userID,
		Title:   "New achievement!",
		Message: msg,
		Type:    TypeAchievement,
	}
}

// LevelUp - уведомление о новом уровне.
func LevelUp(userID uuid.UUID, newLevel int) Draft {
	return Draft{
		UserID:  userID,
		Title:   "Level up!",
		Message: fmt.Sprintf("Congratulations, you reached level %d.", newLevel),
		Type:    TypeLevelUp,
	}
}
