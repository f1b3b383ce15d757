// Package achievement содержит каталог достижений и правила их выдачи.
package achievement

import (
	"time"

	"github.com/signlearn/signlearn-hub/internal/domain/progress"
)

// Type - стабильный идентификатор достижения в каталоге.
type Type string

const (
	FirstLesson       Type = "first_lesson"
	FiveLessons       Type = "five_lessons"
	TenLessons        Type = "ten_lessons"
	TwentyFiveLessons Type = "twenty_five_lessons"
	HighScore         Type = "high_score"
)

// HighScoreThreshold - минимальный средний балл для high_score.
const HighScoreThreshold = 80.0

// ══════════════════════════════════════════════════════════════════════════════
// RULES
// ══════════════════════════════════════════════════════════════════════════════

// Rule связывает тип достижения с условием выдачи.
type Rule struct {
	Type      Type
	Satisfied func(progress.Stats) bool
}

func completedAtLeast(n int) func(progress.Stats) bool {
	return func(s progress.Stats) bool { return s.CompletedLessons >= n }
}

// Rules - упорядоченный список правил. Порядок определяет порядок выдачи.
var Rules = []Rule{
	{Type: FirstLesson, Satisfied: completedAtLeast(1)},
	{Type: FiveLessons, Satisfied: completedAtLeast(5)},
	{Type: TenLessons, Satisfied: completedAtLeast(10)},
	{Type: TwentyFiveLessons, Satisfied: completedAtLeast(25)},
	{Type: HighScore, Satisfied: func(s progress.Stats) bool {
		return s.TotalLessons > 0 && s.AverageScore >= HighScoreThreshold
	}},
}

// Qualified возвращает типы всех достижений, условия которых выполнены,
// в порядке Rules. Уже выданные достижения не исключаются: выдача идемпотентна
// на уровне хранилища.
func Qualified(stats progress.Stats) []Type {
	var out []Type
	for _, r := range Rules {
		if r.Satisfied(stats) {
			out = append(out, r.Type)
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Achievement - запись каталога.
type Achievement struct {
	ID          int64  `json:"id"`
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
}

// Earned - достижение, полученное пользователем.
type Earned struct {
	Achievement
	EarnedAt time.Time `json:"earned_at"`
}

// Status - достижение каталога с признаком получения.
type Status struct {
	Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at"`
}

// Overview - достижения пользователя, разделённые на полученные и нет.
type Overview struct {
	Earned      []Status `json:"earned"`
	NotEarned   []Status `json:"not_earned"`
	TotalEarned int      `json:"total_earned"`
	Total       int      `json:"total"`
	TotalPoints int      `json:"total_points"`
}

// Split строит Overview по списку статусов.
func Split(all []Status) Overview {
	ov := Overview{Earned: []Status{}, NotEarned: []Status{}, Total: len(all)}
	for _, s := range all {
		if s.Earned {
			ov.Earned = append(ov.Earned, s)
			ov.TotalPoints += s.Points
		} else {
			ov.NotEarned = append(ov.NotEarned, s)
		}
	}
	ov.TotalEarned = len(ov.Earned)
	return ov
}
