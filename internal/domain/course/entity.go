// Package course содержит каталог обучения: курсы и уроки.
package course

import (
	"strings"
	"time"

	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// Level - уровень сложности курса.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// IsValid проверяет, что уровень корректен.
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Course - курс, упорядоченный набор уроков.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       Level     `json:"level"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`

	// Progress заполняется, только если запрос сделан авторизованным пользователем.
	Progress *Progress `json:"progress,omitempty"`

	// Lessons заполняется при запросе одного курса.
	Lessons []Lesson `json:"lessons,omitempty"`
}

// Progress - прогресс пользователя по курсу.
type Progress struct {
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
}

// Percent возвращает долю пройденных уроков (0..100).
func (p Progress) Percent() int {
	if p.TotalLessons == 0 {
		return 0
	}
	return p.CompletedLessons * 100 / p.TotalLessons
}

// Summary - курс с прогрессом для страницы "мой прогресс".
type Summary struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Level            Level  `json:"level"`
	TotalLessons     int    `json:"total_lessons"`
	CompletedLessons int    `json:"completed_lessons"`
	Percent          int    `json:"percent"`
}

// Lesson - урок внутри курса.
type Lesson struct {
	ID              int64     `json:"id"`
	CourseID        int64     `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Content         string    `json:"content"`
	VideoURL        *string   `json:"video_url"`
	OrderIndex      int       `json:"order_index"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	CourseTitle     string    `json:"course_title,omitempty"`

	// Progress - запись прогресса текущего пользователя, если она есть.
	Progress *progress.Record `json:"progress,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// FILTERS
// ══════════════════════════════════════════════════════════════════════════════

// Filter - параметры выборки курсов.
type Filter struct {
	Level    Level
	Category string
}

// NewFilter создаёт фильтр и проверяет уровень.
func NewFilter(levelValue, category string) (Filter, error) {
	f := Filter{
		Level:    Level(strings.ToLower(strings.TrimSpace(levelValue))),
		Category: strings.TrimSpace(category),
	}
	if f.Level != "" && !f.Level.IsValid() {
		return Filter{}, shared.NewDomainError("course", "Filter", shared.ErrInvalidInput, "level must be beginner, intermediate or advanced")
	}
	return f, nil
}
