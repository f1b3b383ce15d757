// Package user содержит доменную модель пользователя платформы SignLearn:
// профиль, уровень подготовки, очки и серию ежедневных входов.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/level"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// SkillLevel определяет уровень владения жестовым языком.
type SkillLevel string

const (
	// SkillBeginner - только начинает изучение.
	SkillBeginner SkillLevel = "beginner"
	// SkillIntermediate - знает базовый словарь.
	SkillIntermediate SkillLevel = "intermediate"
	// SkillAdvanced - свободно общается.
	SkillAdvanced SkillLevel = "advanced"
)

// IsValid проверяет, что уровень корректен.
func (s SkillLevel) IsValid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	default:
		return false
	}
}

// ParseSkillLevel разбирает строку; пустая строка означает beginner.
func ParseSkillLevel(s string) (SkillLevel, error) {
	lvl := SkillLevel(strings.ToLower(strings.TrimSpace(s)))
	if lvl == "" {
		return SkillBeginner, nil
	}
	if !lvl.IsValid() {
		return "", shared.ErrInvalidSkillLevel
	}
	return lvl, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// USER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// User - агрегат пользователя.
type User struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"-"`
	Name           string         `json:"name"`
	Phone          *string        `json:"phone"`
	BirthDate      *time.Time     `json:"birth_date"`
	SkillLevel     SkillLevel     `json:"skill_level"`
	AvatarURL      *string        `json:"avatar_url"`
	About          *string        `json:"about"`
	Preferences    map[string]any `json:"preferences"`
	TotalPoints    int            `json:"total_points"`
	CurrentStreak  int            `json:"current_streak"`
	MaxStreak      int            `json:"max_streak"`
	LastActiveDate *time.Time     `json:"last_active_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Level возвращает текущий уровень пользователя по накопленным очкам.
func (u *User) Level() int {
	return level.For(u.TotalPoints)
}

// LevelProgress возвращает прогресс внутри текущего уровня.
func (u *User) LevelProgress() level.Progress {
	return level.ProgressFor(u.TotalPoints)
}

// NewUser - данные для создания пользователя.
// Пароль уже должен быть захеширован.
type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	BirthDate    *time.Time
	SkillLevel   SkillLevel
	Preferences  map[string]any
}

// NormalizeEmail приводит email к каноническому виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE UPDATE
// ══════════════════════════════════════════════════════════════════════════════

// ProfileUpdate - частичное обновление профиля.
// nil-поле означает "не менять".
type ProfileUpdate struct {
	Name        *string
	Phone       *string
	BirthDate   *time.Time
	SkillLevel  *SkillLevel
	About       *string
	Preferences map[string]any
}

// IsEmpty возвращает true, если не передано ни одного поля.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil &&
		p.Phone == nil &&
		p.BirthDate == nil &&
		p.SkillLevel == nil &&
		p.About == nil &&
		p.Preferences == nil
}

// Validate проверяет значения переданных полей.
func (p ProfileUpdate) Validate() error {
	if p.IsEmpty() {
		return shared.ErrNoProfileChanges
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return shared.NewDomainError("user", "UpdateProfile", shared.ErrEmptyValue, "name cannot be empty")
	}
	if p.SkillLevel != nil && !p.SkillLevel.IsValid() {
		return shared.ErrInvalidSkillLevel
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS
// ══════════════════════════════════════════════════════════════════════════════

// Stats - агрегированная статистика обучения пользователя.
type Stats struct {
	TotalLessons        int     `json:"total_lessons"`
	CompletedLessons    int     `json:"completed_lessons"`
	AchievementsCount   int     `json:"achievements_count"`
	RecognitionAttempts int     `json:"recognition_attempts"`
	AverageScore        float64 `json:"average_score"`
}
