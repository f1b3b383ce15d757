package user

import (
	"time"

	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// StreakUpdate - результат пересчёта серии при входе.
type StreakUpdate struct {
	Current    int
	LastActive time.Time
	Continued  bool // серия продолжена (вход на следующий день)
	Broken     bool // серия прервана (пропущен хотя бы один день)
}

// NextStreak вычисляет серию ежедневных входов при входе в момент now.
//
// Правила:
//   - первый вход: 1
//   - тот же день: без изменений (минимум 1)
//   - следующий день: +1
//   - пропуск больше одного дня: серия начинается заново с 1
func NextStreak(current int, lastActive *time.Time, now time.Time) StreakUpdate {
	today := timeutil.StartOfDay(now)
	if lastActive == nil {
		return StreakUpdate{Current: 1, LastActive: today}
	}

	diff := timeutil.DaysBetween(*lastActive, now)
	switch {
	case diff <= 0:
		// Повторный вход в тот же день (или часы сервера ушли назад).
		if current < 1 {
			current = 1
		}
		return StreakUpdate{Current: current, LastActive: today}
	case diff == 1:
		return StreakUpdate{Current: current + 1, LastActive: today, Continued: true}
	default:
		return StreakUpdate{Current: 1, LastActive: today, Broken: current > 0}
	}
}

// MaxStreak возвращает обновлённый рекорд серии.
func MaxStreak(previousMax, current int) int {
	if current > previousMax {
		return current
	}
	return previousMax
}
