package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/course"
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG QUERIES
// Курсы и уроки. Если запрос сделан пользователем, к каждой позиции
// добавляется его прогресс.
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesQuery - параметры списка курсов.
type ListCoursesQuery struct {
	Level    string
	Category string
	UserID   *uuid.UUID
}

// ListLessonsQuery - параметры списка уроков.
type ListLessonsQuery struct {
	// CourseID - nil означает уроки всех курсов.
	CourseID *int64
	UserID   *uuid.UUID
}

// CatalogHandler обслуживает чтение каталога.
type CatalogHandler struct {
	courses  course.Repository
	progress progress.Repository
	logger   *logger.Logger
}

// NewCatalogHandler создаёт обработчик каталога.
func NewCatalogHandler(courses course.Repository, progressRepo progress.Repository, log *logger.Logger) *CatalogHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CatalogHandler{
		courses:  courses,
		progress: progressRepo,
		logger:   log.With(logger.Component("catalog")),
	}
}

// ListCourses возвращает курсы по order_index с прогрессом пользователя.
func (h *CatalogHandler) ListCourses(ctx context.Context, q ListCoursesQuery) ([]course.Course, error) {
	filter, err := course.NewFilter(q.Level, q.Category)
	if err != nil {
		return nil, err
	}

	courses, err := h.courses.ListCourses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list_courses: %w", err)
	}
	if courses == nil {
		courses = []course.Course{}
	}
	if q.UserID == nil {
		return courses, nil
	}

	byCourse, err := h.courses.ProgressByCourse(ctx, *q.UserID)
	if err != nil {
		return nil, fmt.Errorf("list_courses: progress: %w", err)
	}
	for i := range courses {
		p := byCourse[courses[i].ID]
		courses[i].Progress = &p
	}
	return courses, nil
}

// GetCourse возвращает курс с уроками; у каждого урока - прогресс пользователя.
func (h *CatalogHandler) GetCourse(ctx context.Context, id int64, userID *uuid.UUID) (*course.Course, error) {
	c, err := h.courses.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Lessons == nil {
		c.Lessons = []course.Lesson{}
	}
	if userID == nil {
		return c, nil
	}

	records, err := h.progress.ListByCourse(ctx, *userID, id)
	if err != nil {
		return nil, fmt.Errorf("get_course: progress: %w", err)
	}

	completed := 0
	for i := range c.Lessons {
		if rec, ok := records[c.Lessons[i].ID]; ok {
			rec := rec
			c.Lessons[i].Progress = &rec
			if rec.Completed {
				completed++
			}
		}
	}
	c.Progress = &course.Progress{CompletedLessons: completed, TotalLessons: len(c.Lessons)}
	return c, nil
}

// ListLessons возвращает уроки курса (или все уроки) с прогрессом пользователя.
func (h *CatalogHandler) ListLessons(ctx context.Context, q ListLessonsQuery) ([]course.Lesson, error) {
	lessons, err := h.courses.ListLessons(ctx, q.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list_lessons: %w", err)
	}
	if lessons == nil {
		lessons = []course.Lesson{}
	}
	if q.UserID == nil || len(lessons) == 0 {
		return lessons, nil
	}

	records, err := h.progress.ListByUser(ctx, *q.UserID)
	if err != nil {
		return nil, fmt.Errorf("list_lessons: progress: %w", err)
	}
	byLesson := make(map[int64]progress.Record, len(records))
	for _, r := range records {
		byLesson[r.LessonID] = r
	}
	for i := range lessons {
		if rec, ok := byLesson[lessons[i].ID]; ok {
			rec := rec
			lessons[i].Progress = &rec
		}
	}
	return lessons, nil
}

// GetLesson возвращает урок с прогрессом пользователя.
func (h *CatalogHandler) GetLesson(ctx context.Context, id int64, userID *uuid.UUID) (*course.Lesson, error) {
	l, err := h.courses.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID == nil {
		return l, nil
	}

	rec, err := h.progress.Get(ctx, *userID, id)
	switch {
	case err == nil:
		l.Progress = rec
	case shared.IsNotFound(err):
	default:
		return nil, fmt.Errorf("get_lesson: progress: %w", err)
	}
	return l, nil
}
