package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
	"github.com/signlearn/signlearn-hub/internal/domain/level"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardRepository implements leaderboard.Repository for PostgreSQL.
// The ranking is computed live from user_progress; there are no snapshots.
type LeaderboardRepository struct {
	conn *Connection
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(conn *Connection) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

// rankedStandingsCTE is shared by Top and Position so that a user's
// position always equals the rank of their row in the listing.
//
// $1 is the window start (NULL for all time). Only completed lessons count.
// RANK() gives ties the same rank and skips the following ones (1, 1, 3).
const rankedStandingsCTE = `
	WITH scoped AS (
		SELECT user_id, lesson_id, score
		FROM user_progress
		WHERE completed = TRUE
		  AND ($1::timestamptz IS NULL OR completed_at >= $1::timestamptz)
	),
	totals AS (
		SELECT user_id,
		       COUNT(DISTINCT lesson_id) AS lessons_completed,
		       COALESCE(SUM(score), 0)   AS total_score,
		       COALESCE(AVG(score), 0)   AS average_score
		FROM scoped
		GROUP BY user_id
	),
	ranked AS (
		SELECT t.*,
		       RANK() OVER (ORDER BY t.total_score DESC, t.lessons_completed DESC) AS rank
		FROM totals t
	)
`

// ─────────────────────────────────────────────────────────────────────────────
// RANKING QUERIES
// ─────────────────────────────────────────────────────────────────────────────

// Top returns the first limit rows of the ranking.
func (r *LeaderboardRepository) Top(ctx context.Context, since *time.Time, limit int) ([]leaderboard.Entry, error) {
	query := rankedStandingsCTE + `
		SELECT rk.rank, u.id, u.name, u.avatar_url, u.total_points,
		       rk.lessons_completed, rk.total_score, rk.average_score,
		       (SELECT COUNT(*) FROM user_achievements ua WHERE ua.user_id = u.id) AS achievements_count
		FROM ranked rk
		JOIN users u ON u.id = rk.user_id
		ORDER BY rk.rank, u.name, u.id
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	return scanLeaderboardEntries(rows)
}

// Position returns the user's 1-based rank, or nil when the user has no
// completed lessons in the window.
func (r *LeaderboardRepository) Position(ctx context.Context, since *time.Time, userID uuid.UUID) (*int, error) {
	query := rankedStandingsCTE + `
		SELECT rank FROM ranked WHERE user_id = $2
	`

	var rank int
	err := r.conn.QueryRow(ctx, query, since, userID).Scan(&rank)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leaderboard position: %w", err)
	}
	return &rank, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

func scanLeaderboardEntries(rows pgx.Rows) ([]leaderboard.Entry, error) {
	entries := []leaderboard.Entry{}

	for rows.Next() {
		var e leaderboard.Entry
		var points int

		err := rows.Scan(
			&e.Rank,
			&e.UserID,
			&e.Name,
			&e.AvatarURL,
			&points,
			&e.LessonsCompleted,
			&e.TotalScore,
			&e.AverageScore,
			&e.AchievementsCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Level = level.For(points)

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}
