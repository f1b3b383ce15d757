package leaderboard

//go:generate mockgen -source=repository.go -destination=../../mocks/leaderboard/mock_repository.go -package=mock_leaderboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository строит рейтинг поверх хранилища прогресса.
//
// Top и Position обязаны использовать одно и то же окно и одно и то же
// правило сравнения, чтобы позиция пользователя совпадала с его строкой
// в выдаче.
type Repository interface {
	// Top возвращает первые limit записей рейтинга.
	// since == nil означает рейтинг за всё время.
	Top(ctx context.Context, since *time.Time, limit int) ([]Entry, error)

	// Position возвращает 1-based позицию пользователя.
	// Возвращает nil, если у пользователя нет завершённых уроков в окне.
	Position(ctx context.Context, since *time.Time, userID uuid.UUID) (*int, error)
}

// Cache хранит готовые выборки Top по (period, limit).
type Cache interface {
	// GetTop возвращает закешированные записи; ok = false при промахе.
	GetTop(ctx context.Context, period Period, limit int) (entries []Entry, ok bool, err error)

	// SetTop сохраняет записи.
	SetTop(ctx context.Context, period Period, limit int, entries []Entry) error

	// Invalidate удаляет все закешированные выборки.
	Invalidate(ctx context.Context) error
}
