package recognition

//go:generate mockgen -source=repository.go -destination=../../mocks/recognition/mock_repository.go -package=mock_recognition

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores recognition attempts.
type Repository interface {
	// Save stores an attempt and returns it with id and timestamp.
	Save(ctx context.Context, a NewAttempt) (*Attempt, error)

	// History returns the user's latest attempts joined with the sign word.
	History(ctx context.Context, userID uuid.UUID, limit int) ([]Attempt, error)

	// CountByUser returns how many attempts the user has made.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
