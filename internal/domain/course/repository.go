package course

//go:generate mockgen -source=repository.go -destination=../../mocks/course/mock_repository.go -package=mock_course

import (
	"context"

	"github.com/google/uuid"
)

// Repository определяет операции чтения каталога.
type Repository interface {
	// ListCourses возвращает курсы по фильтру, упорядоченные по order_index.
	ListCourses(ctx context.Context, filter Filter) ([]Course, error)

	// GetCourse возвращает курс с упорядоченными уроками.
	// Возвращает ErrCourseNotFound, если курс не найден.
	GetCourse(ctx context.Context, id int64) (*Course, error)

	// ListLessons возвращает уроки; courseID == nil означает все курсы.
	ListLessons(ctx context.Context, courseID *int64) ([]Lesson, error)

	// GetLesson возвращает урок.
	// Возвращает ErrLessonNotFound, если урок не найден.
	GetLesson(ctx context.Context, id int64) (*Lesson, error)

	// LessonExists проверяет существование урока.
	LessonExists(ctx context.Context, id int64) (bool, error)

	// ProgressByCourse возвращает прогресс пользователя по каждому курсу.
	ProgressByCourse(ctx context.Context, userID uuid.UUID) (map[int64]Progress, error)

	// Summaries возвращает все курсы с прогрессом пользователя.
	Summaries(ctx context.Context, userID uuid.UUID) ([]Summary, error)
}
