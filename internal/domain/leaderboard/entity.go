// Package leaderboard содержит доменную модель лидерборда SignLearn.
// Рейтинг строится по сумме лучших баллов за завершённые уроки в выбранном
// окне времени; при равной сумме выше тот, кто прошёл больше уроков.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD
// ══════════════════════════════════════════════════════════════════════════════

// Period - окно времени, за которое считается рейтинг.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAll     Period = "all"
)

// Periods - все поддерживаемые окна.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll}

// ParsePeriod разбирает строку. Пустая строка означает PeriodAll.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return PeriodAll, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll:
		return p, nil
	default:
		return "", shared.ErrInvalidPeriod
	}
}

// Since возвращает начало окна для момента now; nil означает "без ограничения".
//
//   - daily: начало сегодняшнего дня
//   - weekly: начало дня 7 дней назад
//   - monthly: начало дня 30 дней назад
func (p Period) Since(now time.Time) *time.Time {
	var since time.Time
	switch p {
	case PeriodDaily:
		since = timeutil.StartOfDay(now)
	case PeriodWeekly:
		since = timeutil.DaysAgo(now, 7)
	case PeriodMonthly:
		since = timeutil.DaysAgo(now, 30)
	default:
		return nil
	}
	return &since
}

// String возвращает строковое представление окна.
func (p Period) String() string {
	return string(p)
}

// ══════════════════════════════════════════════════════════════════════════════
// LIMIT
// ══════════════════════════════════════════════════════════════════════════════

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ValidateLimit проверяет размер выборки; nil означает значение по умолчанию.
// Явно переданный 0 недопустим.
func ValidateLimit(limit *int) (int, error) {
	if limit == nil {
		return DefaultLimit, nil
	}
	if *limit < 1 || *limit > MaxLimit {
		return 0, shared.ErrInvalidLimit
	}
	return *limit, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STANDING & ORDERING
// ══════════════════════════════════════════════════════════════════════════════

// Standing - показатели пользователя, по которым он ранжируется.
type Standing struct {
	TotalScore       float64
	LessonsCompleted int
}

// Outranks возвращает true, если a строго выше b:
// больше сумма баллов, либо сумма равна и уроков пройдено больше.
func Outranks(a, b Standing) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	return a.LessonsCompleted > b.LessonsCompleted
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry - строка лидерборда.
type Entry struct {
	Rank              int       `json:"rank"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	AvatarURL         *string   `json:"avatar_url"`
	Level             int       `json:"level"`
	LessonsCompleted  int       `json:"lessons_completed"`
	TotalScore        float64   `json:"total_score"`
	AverageScore      float64   `json:"average_score"`
	AchievementsCount int       `json:"achievements_count"`
}

// Standing возвращает показатели записи.
func (e Entry) Standing() Standing {
	return Standing{TotalScore: e.TotalScore, LessonsCompleted: e.LessonsCompleted}
}

// String возвращает строковое представление для логирования.
func (e Entry) String() string {
	return fmt.Sprintf("Entry{Rank: %d, Name: %s, Score: %.2f, Lessons: %d}",
		e.Rank, e.Name, e.TotalScore, e.LessonsCompleted)
}

// AssignRanks сортирует записи и проставляет ранги.
// Ранг = 1 + количество записей, строго опережающих данную, поэтому
// при равных показателях ранг общий (1, 1, 3). Внутри равных записей
// порядок стабилен: по имени, затем по ID.
func AssignRanks(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Standing(), entries[j].Standing()
		if Outranks(a, b) {
			return true
		}
		if Outranks(b, a) {
			return false
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].UserID.String() < entries[j].UserID.String()
	})

	for i := range entries {
		if i > 0 && !Outranks(entries[i-1].Standing(), entries[i].Standing()) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// RankOf возвращает позицию показателей s среди standings:
// 1 + число строго опережающих.
func RankOf(standings []Standing, s Standing) int {
	rank := 1
	for _, other := range standings {
		if Outranks(other, s) {
			rank++
		}
	}
	return rank
}

// ══════════════════════════════════════════════════════════════════════════════
// BOARD
// ══════════════════════════════════════════════════════════════════════════════

// Board - готовый лидерборд для ответа клиенту.
type Board struct {
	Period       Period    `json:"period"`
	Entries      []Entry   `json:"leaderboard"`
	UserPosition *int      `json:"user_position"`
	GeneratedAt  time.Time `json:"generated_at"`
}
