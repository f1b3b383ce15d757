package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

const progressColumns = `
	up.id, up.user_id, up.lesson_id, up.score, up.completed, up.completed_at,
	up.recognition_data, up.created_at, up.updated_at
`

// upsertProgressQuery applies the best-score merge in one statement.
//
// $6 is a stamp unique to this call. first_completion_id keeps the first
// stamp ever written with completed = true; ON CONFLICT reads it from the
// locked, up-to-date row, so of two concurrent first completions only one
// sees its own stamp come back.
const upsertProgressQuery = `
	INSERT INTO user_progress AS up
		(user_id, lesson_id, score, completed, completed_at, recognition_data, first_completion_id)
	VALUES ($1, $2, $3, $4::boolean,
	        CASE WHEN $4::boolean THEN NOW() END,
	        $5::jsonb,
	        CASE WHEN $4::boolean THEN $6::uuid END)
	ON CONFLICT (user_id, lesson_id) DO UPDATE SET
		score = GREATEST(up.score, EXCLUDED.score),
		completed = up.completed OR EXCLUDED.completed,
		completed_at = CASE WHEN EXCLUDED.completed THEN NOW() ELSE up.completed_at END,
		recognition_data = COALESCE(EXCLUDED.recognition_data, up.recognition_data),
		first_completion_id = COALESCE(up.first_completion_id, EXCLUDED.first_completion_id),
		updated_at = NOW()
	RETURNING ` + progressColumns + `,
		COALESCE(up.first_completion_id = $6::uuid, FALSE) AS first_completion
`

// Upsert inserts or merges the (user, lesson) record.
func (r *ProgressRepository) Upsert(ctx context.Context, s progress.Submission) (*progress.UpsertResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(ctx, upsertProgressQuery,
		s.UserID,
		s.LessonID,
		s.Score,
		s.Completed,
		nullableJSON(s.RecognitionData),
		uuid.New(),
	)

	var res progress.UpsertResult
	var data []byte
	err := row.Scan(
		&res.Record.ID,
		&res.Record.UserID,
		&res.Record.LessonID,
		&res.Record.Score,
		&res.Record.Completed,
		&res.Record.CompletedAt,
		&data,
		&res.Record.CreatedAt,
		&res.Record.UpdatedAt,
		&res.FirstCompletion,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			if ConstraintName(err) == "user_progress_user_id_fkey" {
				return nil, shared.ErrUserNotFound
			}
			return nil, shared.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}
	res.Record.RecognitionData = rawJSON(data)

	return &res, nil
}

// Get returns the record for a single lesson.
func (r *ProgressRepository) Get(ctx context.Context, userID uuid.UUID, lessonID int64) (*progress.Record, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress up WHERE up.user_id = $1 AND up.lesson_id = $2`

	rec, err := scanProgress(r.conn.QueryRow(ctx, query, userID, lessonID))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return rec, nil
}

// ListByUser returns all of the user's records with lesson and course titles.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]progress.Record, error) {
	query := `
		SELECT ` + progressColumns + `, l.title, c.id, c.title
		FROM user_progress up
		JOIN lessons l ON l.id = up.lesson_id
		JOIN courses c ON c.id = l.course_id
		WHERE up.user_id = $1
		ORDER BY up.completed_at DESC NULLS LAST, up.updated_at DESC
	`
	return r.queryDetailed(ctx, query, userID)
}

// RecentCompleted returns the latest completed lessons.
func (r *ProgressRepository) RecentCompleted(ctx context.Context, userID uuid.UUID, limit, offset int) ([]progress.Record, error) {
	query := `
		SELECT ` + progressColumns + `, l.title, c.id, c.title
		FROM user_progress up
		JOIN lessons l ON l.id = up.lesson_id
		JOIN courses c ON c.id = l.course_id
		WHERE up.user_id = $1 AND up.completed = TRUE
		ORDER BY up.completed_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryDetailed(ctx, query, userID, limit, offset)
}

// ListByCourse returns the user's records for the lessons of one course keyed by lesson.
func (r *ProgressRepository) ListByCourse(ctx context.Context, userID uuid.UUID, courseID int64) (map[int64]progress.Record, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM user_progress up
		JOIN lessons l ON l.id = up.lesson_id
		WHERE up.user_id = $1 AND l.course_id = $2
	`
	rows, err := r.conn.Query(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course progress: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]progress.Record)
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out[rec.LessonID] = *rec
	}
	return out, rows.Err()
}

// Stats returns the aggregates used by achievement rules.
func (r *ProgressRepository) Stats(ctx context.Context, userID uuid.UUID) (progress.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE completed),
			COALESCE(AVG(score), 0)
		FROM user_progress
		WHERE user_id = $1
	`
	var st progress.Stats
	if err := r.conn.QueryRow(ctx, query, userID).Scan(&st.TotalLessons, &st.CompletedLessons, &st.AverageScore); err != nil {
		return progress.Stats{}, fmt.Errorf("failed to get progress stats: %w", err)
	}
	return st, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

func (r *ProgressRepository) queryDetailed(ctx context.Context, query string, args ...interface{}) ([]progress.Record, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	records := []progress.Record{}
	for rows.Next() {
		var rec progress.Record
		var data []byte
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.LessonID,
			&rec.Score,
			&rec.Completed,
			&rec.CompletedAt,
			&data,
			&rec.CreatedAt,
			&rec.UpdatedAt,
			&rec.LessonTitle,
			&rec.CourseID,
			&rec.CourseTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		rec.RecognitionData = rawJSON(data)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanProgress(row pgx.Row) (*progress.Record, error) {
	var rec progress.Record
	var data []byte
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.LessonID,
		&rec.Score,
		&rec.Completed,
		&rec.CompletedAt,
		&data,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.RecognitionData = rawJSON(data)
	return &rec, nil
}

// nullableJSON maps an empty document or a JSON null to SQL NULL, so
// COALESCE in the upsert keeps the stored snapshot.
func nullableJSON(data json.RawMessage) interface{} {
	if !(progress.Submission{RecognitionData: data}).HasRecognitionData() {
		return nil
	}
	return []byte(data)
}

func rawJSON(data []byte) json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	return json.RawMessage(data)
}
