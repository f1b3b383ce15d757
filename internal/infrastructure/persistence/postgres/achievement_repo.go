package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/achievement"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AchievementRepository implements achievement.Repository for PostgreSQL.
type AchievementRepository struct {
	conn *Connection
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(conn *Connection) *AchievementRepository {
	return &AchievementRepository{conn: conn}
}

// grantAchievementQuery inserts the (user, achievement) pair at most once.
// The unique constraint decides the race: the loser's insert returns
// nothing and granted comes back false.
const grantAchievementQuery = `
	WITH a AS (
		SELECT id, type, title, description, icon, points
		FROM achievements
		WHERE type = $2
	),
	ins AS (
		INSERT INTO user_achievements (user_id, achievement_id, earned_at)
		SELECT $1, a.id, NOW() FROM a
		ON CONFLICT (user_id, achievement_id) DO NOTHING
		RETURNING achievement_id
	)
	SELECT a.id, a.type, a.title, a.description, a.icon, a.points,
	       EXISTS (SELECT 1 FROM ins) AS granted
	FROM a
`

// Grant awards the achievement of type t if the user does not have it yet.
func (r *AchievementRepository) Grant(ctx context.Context, userID uuid.UUID, t achievement.Type) (*achievement.Achievement, bool, error) {
	var a achievement.Achievement
	var typ string
	var granted bool

	err := r.conn.QueryRow(ctx, grantAchievementQuery, userID, string(t)).Scan(
		&a.ID, &typ, &a.Title, &a.Description, &a.Icon, &a.Points, &granted,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, false, nil
		}
		if IsForeignKeyViolation(err) {
			return nil, false, shared.ErrUserNotFound
		}
		return nil, false, fmt.Errorf("failed to grant achievement %s: %w", t, err)
	}
	a.Type = achievement.Type(typ)

	return &a, granted, nil
}

// ListEarned returns the user's achievements, newest first.
func (r *AchievementRepository) ListEarned(ctx context.Context, userID uuid.UUID) ([]achievement.Earned, error) {
	query := `
		SELECT a.id, a.type, a.title, a.description, a.icon, a.points, ua.earned_at
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY ua.earned_at DESC, a.id
	`
	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	out := []achievement.Earned{}
	for rows.Next() {
		var e achievement.Earned
		var typ string
		if err := rows.Scan(&e.ID, &typ, &e.Title, &e.Description, &e.Icon, &e.Points, &e.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		e.Type = achievement.Type(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListWithStatus returns the full catalog with the user's earned flags.
func (r *AchievementRepository) ListWithStatus(ctx context.Context, userID uuid.UUID) ([]achievement.Status, error) {
	query := `
		SELECT a.id, a.type, a.title, a.description, a.icon, a.points,
		       ua.id IS NOT NULL AS earned, ua.earned_at
		FROM achievements a
		LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
		ORDER BY ua.earned_at DESC NULLS LAST, a.points, a.id
	`
	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement status: %w", err)
	}
	defer rows.Close()

	out := []achievement.Status{}
	for rows.Next() {
		var s achievement.Status
		var typ string
		if err := rows.Scan(&s.ID, &typ, &s.Title, &s.Description, &s.Icon, &s.Points, &s.Earned, &s.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement status: %w", err)
		}
		s.Type = achievement.Type(typ)
		out = append(out, s)
	}
	return out, rows.Err()
}
