package user

//go:generate mockgen -source=repository.go -destination=../../mocks/user/mock_repository.go -package=mock_user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализация находится в infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции с пользователями.
type Repository interface {
	// Create создаёт пользователя.
	// Возвращает ErrEmailTaken, если email уже занят.
	Create(ctx context.Context, u NewUser) (*User, error)

	// GetByID возвращает пользователя по ID.
	// Возвращает ErrUserNotFound, если пользователь не найден.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail возвращает пользователя по email (без учёта регистра).
	// Возвращает ErrUserNotFound, если пользователь не найден.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateProfile применяет частичное обновление и возвращает актуальные данные.
	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*User, error)

	// UpdateAvatar сохраняет URL аватара.
	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error

	// UpdateStreak сохраняет серию входов; max_streak обновляется через GREATEST.
	UpdateStreak(ctx context.Context, id uuid.UUID, streak StreakUpdate) error

	// AddPoints атомарно начисляет очки и возвращает новую сумму.
	AddPoints(ctx context.Context, id uuid.UUID, points int) (int, error)

	// Stats возвращает агрегированную статистику пользователя.
	Stats(ctx context.Context, id uuid.UUID) (Stats, error)

	// ResetBrokenStreaks обнуляет серии у тех, кто не заходил с момента before.
	// Возвращает количество затронутых пользователей.
	ResetBrokenStreaks(ctx context.Context, before time.Time) (int64, error)
}
