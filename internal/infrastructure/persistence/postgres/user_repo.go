package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = `
	id, email, password_hash, name, phone, birth_date, skill_level,
	avatar_url, about, preferences, total_points, current_streak,
	max_streak, last_active_date, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a user. The email is stored normalized.
func (r *UserRepository) Create(ctx context.Context, u user.NewUser) (*user.User, error) {
	prefs := u.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preferences: %w", err)
	}

	skill := u.SkillLevel
	if skill == "" {
		skill = user.SkillBeginner
	}

	query := `
		INSERT INTO users (email, password_hash, name, phone, birth_date, skill_level, preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	row := r.conn.QueryRow(ctx, query,
		user.NormalizeEmail(u.Email),
		u.PasswordHash,
		strings.TrimSpace(u.Name),
		u.Phone,
		u.BirthDate,
		string(skill),
		prefsJSON,
	)

	created, err := scanUser(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, shared.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID returns a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail returns a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1`
	return r.getOne(ctx, query, user.NormalizeEmail(email))
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, query, arg))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies a partial update; only non-nil fields are written.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd user.ProfileUpdate) (*user.User, error) {
	if upd.IsEmpty() {
		return nil, shared.ErrNoProfileChanges
	}

	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", strings.TrimSpace(*upd.Name))
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.BirthDate != nil {
		add("birth_date", *upd.BirthDate)
	}
	if upd.SkillLevel != nil {
		add("skill_level", string(*upd.SkillLevel))
	}
	if upd.About != nil {
		add("about", *upd.About)
	}
	if upd.Preferences != nil {
		prefsJSON, err := json.Marshal(upd.Preferences)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal preferences: %w", err)
		}
		add("preferences", prefsJSON)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	u, err := scanUser(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// UpdateAvatar stores the avatar URL.
func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error {
	result, err := r.conn.Exec(ctx, `UPDATE users SET avatar_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Points & Streaks
// ─────────────────────────────────────────────────────────────────────────────

// UpdateStreak stores the login streak and raises max_streak when needed.
func (r *UserRepository) UpdateStreak(ctx context.Context, id uuid.UUID, streak user.StreakUpdate) error {
	query := `
		UPDATE users SET
			current_streak = $1,
			max_streak = GREATEST(max_streak, $1),
			last_active_date = $2
		WHERE id = $3
	`
	result, err := r.conn.Exec(ctx, query, streak.Current, streak.LastActive, id)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// AddPoints increments total_points atomically and returns the new total.
func (r *UserRepository) AddPoints(ctx context.Context, id uuid.UUID, points int) (int, error) {
	var total int
	err := r.conn.QueryRow(ctx,
		`UPDATE users SET total_points = total_points + $1 WHERE id = $2 RETURNING total_points`,
		points, id,
	).Scan(&total)
	if err != nil {
		if IsNoRows(err) {
			return 0, shared.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to add points: %w", err)
	}
	return total, nil
}

// ResetBrokenStreaks zeroes streaks of users inactive since before.
func (r *UserRepository) ResetBrokenStreaks(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.conn.Exec(ctx,
		`UPDATE users SET current_streak = 0 WHERE current_streak > 0 AND last_active_date < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset streaks: %w", err)
	}
	return result.RowsAffected(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Statistics
// ─────────────────────────────────────────────────────────────────────────────

// Stats aggregates the user's learning statistics.
func (r *UserRepository) Stats(ctx context.Context, id uuid.UUID) (user.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM user_progress WHERE user_id = $1),
			(SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND completed = TRUE),
			(SELECT COUNT(*) FROM user_achievements WHERE user_id = $1),
			(SELECT COUNT(*) FROM recognition_attempts WHERE user_id = $1),
			(SELECT COALESCE(AVG(score), 0) FROM user_progress WHERE user_id = $1)
	`

	var st user.Stats
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&st.TotalLessons,
		&st.CompletedLessons,
		&st.AchievementsCount,
		&st.RecognitionAttempts,
		&st.AverageScore,
	)
	if err != nil {
		return user.Stats{}, fmt.Errorf("failed to get user stats: %w", err)
	}
	return st, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var skill string
	var prefsJSON []byte

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Phone,
		&u.BirthDate,
		&skill,
		&u.AvatarURL,
		&u.About,
		&prefsJSON,
		&u.TotalPoints,
		&u.CurrentStreak,
		&u.MaxStreak,
		&u.LastActiveDate,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.SkillLevel = user.SkillLevel(skill)
	u.Preferences = map[string]any{}
	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &u.Preferences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
		}
	}

	return &u, nil
}
