// Package notification содержит доменную модель уведомлений SignLearn.
// Уведомления создаются обработчиками событий и показываются в профиле.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет тип уведомления.
type Type string

const (
	// TypeInfo - информационное сообщение.
	TypeInfo Type = "info"
	// TypeWelcome - приветствие после регистрации.
	TypeWelcome Type = "welcome"
	// TypeAchievement - получено достижение.
	TypeAchievement Type = "achievement"
	// TypeLevelUp - повышение уровня.
	TypeLevelUp Type = "level_up"
)

// UnreadLimit - сколько непрочитанных уведомлений показывать в профиле.
const UnreadLimit = 10

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Notification - уведомление пользователя.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft - уведомление до сохранения.
type Draft struct {
	UserID  uuid.UUID
	Title   string
	Message string
	Type    Type
}
