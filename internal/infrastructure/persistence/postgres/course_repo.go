package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/signlearn/signlearn-hub/internal/domain/course"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

const courseColumns = `c.id, c.title, c.description, c.level, c.category, c.image_url, c.order_index, c.created_at`

const lessonColumns = `
	l.id, l.course_id, l.title, l.description, l.content, l.video_url,
	l.order_index, l.duration_minutes, l.created_at, c.title
`

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// ListCourses returns courses matching the filter, ordered by order_index.
func (r *CourseRepository) ListCourses(ctx context.Context, filter course.Filter) ([]course.Course, error) {
	var conditions []string
	var args []interface{}

	if filter.Level != "" {
		args = append(args, string(filter.Level))
		conditions = append(conditions, fmt.Sprintf("c.level = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("c.category = $%d", len(args)))
	}

	query := `SELECT ` + courseColumns + ` FROM courses c`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY c.order_index, c.id`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []course.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// GetCourse returns a course with its ordered lessons.
func (r *CourseRepository) GetCourse(ctx context.Context, id int64) (*course.Course, error) {
	c, err := scanCourse(r.conn.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := r.ListLessons(ctx, &id)
	if err != nil {
		return nil, err
	}
	c.Lessons = lessons
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lessons
// ─────────────────────────────────────────────────────────────────────────────

// ListLessons returns lessons of one course, or of all courses when courseID is nil.
func (r *CourseRepository) ListLessons(ctx context.Context, courseID *int64) ([]course.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l JOIN courses c ON c.id = l.course_id`
	var args []interface{}
	if courseID != nil {
		query += ` WHERE l.course_id = $1`
		args = append(args, *courseID)
	}
	query += ` ORDER BY c.order_index, l.course_id, l.order_index, l.id`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	lessons := []course.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, *l)
	}
	return lessons, rows.Err()
}

// GetLesson returns a lesson with its course title.
func (r *CourseRepository) GetLesson(ctx context.Context, id int64) (*course.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l JOIN courses c ON c.id = l.course_id WHERE l.id = $1`
	l, err := scanLesson(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLessonNotFound
		}
		return nil, err
	}
	return l, nil
}

// LessonExists reports whether a lesson exists.
func (r *CourseRepository) LessonExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM lessons WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check lesson: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Progress Rollups
// ─────────────────────────────────────────────────────────────────────────────

const courseProgressQuery = `
	SELECT
		c.id, c.title, c.level,
		COUNT(l.id) AS total_lessons,
		COUNT(up.id) FILTER (WHERE up.completed) AS completed_lessons
	FROM courses c
	LEFT JOIN lessons l ON l.course_id = c.id
	LEFT JOIN user_progress up ON up.lesson_id = l.id AND up.user_id = $1
	GROUP BY c.id
	ORDER BY c.order_index, c.id
`

// ProgressByCourse returns completed/total lesson counts per course.
func (r *CourseRepository) ProgressByCourse(ctx context.Context, userID uuid.UUID) (map[int64]course.Progress, error) {
	summaries, err := r.Summaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]course.Progress, len(summaries))
	for _, s := range summaries {
		out[s.ID] = course.Progress{CompletedLessons: s.CompletedLessons, TotalLessons: s.TotalLessons}
	}
	return out, nil
}

// Summaries returns every course with the user's completion counts.
func (r *CourseRepository) Summaries(ctx context.Context, userID uuid.UUID) ([]course.Summary, error) {
	rows, err := r.conn.Query(ctx, courseProgressQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course progress: %w", err)
	}
	defer rows.Close()

	out := []course.Summary{}
	for rows.Next() {
		var s course.Summary
		var lvl string
		if err := rows.Scan(&s.ID, &s.Title, &lvl, &s.TotalLessons, &s.CompletedLessons); err != nil {
			return nil, fmt.Errorf("failed to scan course progress: %w", err)
		}
		s.Level = course.Level(lvl)
		s.Percent = course.Progress{CompletedLessons: s.CompletedLessons, TotalLessons: s.TotalLessons}.Percent()
		out = append(out, s)
	}
	return out, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

func scanCourse(row pgx.Row) (*course.Course, error) {
	var c course.Course
	var lvl string
	err := row.Scan(&c.ID, &c.Title, &c.Description, &lvl, &c.Category, &c.ImageURL, &c.OrderIndex, &c.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	c.Level = course.Level(lvl)
	return &c, nil
}

func scanLesson(row pgx.Row) (*course.Lesson, error) {
	var l course.Lesson
	err := row.Scan(
		&l.ID,
		&l.CourseID,
		&l.Title,
		&l.Description,
		&l.Content,
		&l.VideoURL,
		&l.OrderIndex,
		&l.DurationMinutes,
		&l.CreatedAt,
		&l.CourseTitle,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan lesson: %w", err)
	}
	return &l, nil
}
