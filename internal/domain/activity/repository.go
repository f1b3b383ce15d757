package activity

//go:generate mockgen -source=repository.go -destination=../../mocks/activity/mock_repository.go -package=mock_activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for activity persistence.
type Repository interface {
	// Record adds delta to the user's row for the given day.
	Record(ctx context.Context, userID uuid.UUID, day time.Time, delta Delta) error

	// List returns daily rows since the given day, newest first.
	// limit <= 0 means no limit.
	List(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]DailyActivity, error)
}
