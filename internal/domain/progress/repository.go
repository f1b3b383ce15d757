package progress

//go:generate mockgen -source=repository.go -destination=../../mocks/progress/mock_repository.go -package=mock_progress

import (
	"context"

	"github.com/google/uuid"
)

// Repository определяет операции с прогрессом.
type Repository interface {
	// Upsert атомарно вставляет или обновляет запись (user_id, lesson_id)
	// по правилу Merge. Возвращает ErrLessonNotFound, если урока нет.
	Upsert(ctx context.Context, s Submission) (*UpsertResult, error)

	// Get возвращает прогресс по уроку.
	// Возвращает ErrProgressNotFound, если записи нет.
	Get(ctx context.Context, userID uuid.UUID, lessonID int64) (*Record, error)

	// ListByUser возвращает весь прогресс пользователя с названиями уроков и курсов,
	// сначала недавно завершённые.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Record, error)

	// ListByCourse возвращает прогресс пользователя по урокам курса.
	ListByCourse(ctx context.Context, userID uuid.UUID, courseID int64) (map[int64]Record, error)

	// RecentCompleted возвращает последние завершённые уроки.
	RecentCompleted(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Record, error)

	// Stats возвращает агрегаты для проверки достижений.
	Stats(ctx context.Context, userID uuid.UUID) (Stats, error)
}
