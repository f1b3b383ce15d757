package shared

//go:generate mockgen -source=events.go -destination=../../mocks/shared/mock_events.go -package=mock_shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

const (
	// User events
	EventUserRegistered EventType = "user.registered"
	EventUserLoggedIn   EventType = "user.logged_in"

	// Progress events
	EventProgressRecorded EventType = "progress.recorded"
	EventLevelUp          EventType = "progress.level_up"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// User Events
// ═══════════════════════════════════════════════════════════════════════════

// UserRegisteredEvent is emitted after a successful registration.
type UserRegisteredEvent struct {
	BaseEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Payload implements Event interface.
func (e UserRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email": e.Email,
		"name":  e.Name,
	}
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent.
func NewUserRegisteredEvent(userID, email, name string) UserRegisteredEvent {
	return UserRegisteredEvent{
		BaseEvent: NewBaseEvent(EventUserRegistered, userID),
		Email:     email,
		Name:      name,
	}
}

// UserLoggedInEvent is emitted after a successful login.
type UserLoggedInEvent struct {
	BaseEvent
	Streak int `json:"streak"`
}

// Payload implements Event interface.
func (e UserLoggedInEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"streak": e.Streak,
	}
}

// NewUserLoggedInEvent creates a new UserLoggedInEvent.
func NewUserLoggedInEvent(userID string, streak int) UserLoggedInEvent {
	return UserLoggedInEvent{
		BaseEvent: NewBaseEvent(EventUserLoggedIn, userID),
		Streak:    streak,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// ProgressRecordedEvent is emitted after every successful progress write.
type ProgressRecordedEvent struct {
	BaseEvent
	LessonID        int64   `json:"lesson_id"`
	Score           float64 `json:"score"`
	Completed       bool    `json:"completed"`
	FirstCompletion bool    `json:"first_completion"`
}

// Payload implements Event interface.
func (e ProgressRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"lesson_id":        e.LessonID,
		"score":            e.Score,
		"completed":        e.Completed,
		"first_completion": e.FirstCompletion,
	}
}

// NewProgressRecordedEvent creates a new ProgressRecordedEvent.
func NewProgressRecordedEvent(userID string, lessonID int64, score float64, completed, firstCompletion bool) ProgressRecordedEvent {
	return ProgressRecordedEvent{
		BaseEvent:       NewBaseEvent(EventProgressRecorded, userID),
		LessonID:        lessonID,
		Score:           score,
		Completed:       completed,
		FirstCompletion: firstCompletion,
	}
}

// LevelUpEvent is emitted when awarded points move a user into a higher level.
type LevelUpEvent struct {
	BaseEvent
	OldLevel    int `json:"old_level"`
	NewLevel    int `json:"new_level"`
	TotalPoints int `json:"total_points"`
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"old_level":    e.OldLevel,
		"new_level":    e.NewLevel,
		"total_points": e.TotalPoints,
	}
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(userID string, oldLevel, newLevel, totalPoints int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent:   NewBaseEvent(EventLevelUp, userID),
		OldLevel:    oldLevel,
		NewLevel:    newLevel,
		TotalPoints: totalPoints,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Events
// ═══════════════════════════════════════════════════════════════════════════

// AchievementUnlockedEvent is emitted once per newly granted achievement.
type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementID   int64  `json:"achievement_id"`
	AchievementType string `json:"achievement_type"`
	Title           string `json:"title"`
	Icon            string `json:"icon"`
	Points          int    `json:"points"`
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"achievement_id":   e.AchievementID,
		"achievement_type": e.AchievementType,
		"title":            e.Title,
		"icon":             e.Icon,
		"points":           e.Points,
	}
}

// NewAchievementUnlockedEvent creates a new AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(userID string, achievementID int64, achievementType, title, icon string, points int) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:       NewBaseEvent(EventAchievementUnlocked, userID),
		AchievementID:   achievementID,
		AchievementType: achievementType,
		Title:           title,
		Icon:            icon,
		Points:          points,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(ctx context.Context, event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(ctx context.Context, event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
