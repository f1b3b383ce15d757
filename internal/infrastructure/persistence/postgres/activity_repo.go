package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ActivityRepository implements activity.Repository using PostgreSQL.
type ActivityRepository struct {
	conn *Connection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{
		conn: conn,
	}
}

// Record adds delta to the (user, day) row, creating it when missing.
func (r *ActivityRepository) Record(ctx context.Context, userID uuid.UUID, day time.Time, delta activity.Delta) error {
	if delta.IsZero() {
		return nil
	}

	query := `
		INSERT INTO daily_activity (user_id, activity_date, lessons_completed, signs_learned, practice_minutes, points_earned)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, activity_date) DO UPDATE SET
			lessons_completed = daily_activity.lessons_completed + EXCLUDED.lessons_completed,
			signs_learned = daily_activity.signs_learned + EXCLUDED.signs_learned,
			practice_minutes = daily_activity.practice_minutes + EXCLUDED.practice_minutes,
			points_earned = daily_activity.points_earned + EXCLUDED.points_earned
	`

	_, err := r.conn.Exec(ctx, query,
		userID,
		timeutil.FormatDate(day),
		delta.LessonsCompleted,
		delta.SignsLearned,
		delta.PracticeMinutes,
		delta.PointsEarned,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// List returns rows since the given day, newest first.
func (r *ActivityRepository) List(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]activity.DailyActivity, error) {
	query := `
		SELECT activity_date, lessons_completed, signs_learned, practice_minutes, points_earned
		FROM daily_activity
		WHERE user_id = $1 AND activity_date >= $2
		ORDER BY activity_date DESC
	`
	args := []interface{}{userID, timeutil.FormatDate(since)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	days := []activity.DailyActivity{}
	for rows.Next() {
		var d activity.DailyActivity
		if err := rows.Scan(&d.Date, &d.LessonsCompleted, &d.SignsLearned, &d.PracticeMinutes, &d.PointsEarned); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
