package achievement

//go:generate mockgen -source=repository.go -destination=../../mocks/achievement/mock_repository.go -package=mock_achievement

import (
	"context"

	"github.com/google/uuid"
)

// Repository определяет операции с достижениями.
type Repository interface {
	// Grant выдаёт достижение типа t одним условным INSERT, опираясь на
	// UNIQUE (user_id, achievement_id). Возвращает запись каталога и
	// granted = true, только если достижение выдано этим вызовом.
	// Если типа нет в каталоге, возвращает (nil, false, nil).
	Grant(ctx context.Context, userID uuid.UUID, t Type) (a *Achievement, granted bool, err error)

	// ListEarned возвращает полученные достижения, сначала новые.
	ListEarned(ctx context.Context, userID uuid.UUID) ([]Earned, error)

	// ListWithStatus возвращает весь каталог с признаком получения.
	ListWithStatus(ctx context.Context, userID uuid.UUID) ([]Status, error)
}
