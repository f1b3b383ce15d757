package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// RecognitionRepository implements recognition.Repository for PostgreSQL.
type RecognitionRepository struct {
	conn *Connection
}

// NewRecognitionRepository creates a new RecognitionRepository.
func NewRecognitionRepository(conn *Connection) *RecognitionRepository {
	return &RecognitionRepository{conn: conn}
}

// Save stores an attempt.
func (r *RecognitionRepository) Save(ctx context.Context, a recognition.NewAttempt) (*recognition.Attempt, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO recognition_attempts (user_id, sign_id, frame_data, predicted_sign, confidence)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		RETURNING id, user_id, sign_id, frame_data, predicted_sign, confidence, created_at
	`

	var out recognition.Attempt
	var data []byte
	err := r.conn.QueryRow(ctx, query,
		a.UserID,
		a.SignID,
		nullableJSON(a.FrameData),
		a.PredictedSign,
		a.Confidence,
	).Scan(&out.ID, &out.UserID, &out.SignID, &data, &out.PredictedSign, &out.Confidence, &out.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			if ConstraintName(err) == "recognition_attempts_user_id_fkey" {
				return nil, shared.ErrUserNotFound
			}
			return nil, shared.ErrSignNotFound
		}
		return nil, fmt.Errorf("failed to save recognition attempt: %w", err)
	}
	out.FrameData = rawJSON(data)

	return &out, nil
}

// History returns the user's latest attempts with the sign word.
func (r *RecognitionRepository) History(ctx context.Context, userID uuid.UUID, limit int) ([]recognition.Attempt, error) {
	query := `
		SELECT ra.id, ra.user_id, ra.sign_id, ra.frame_data, ra.predicted_sign,
		       ra.confidence, ra.created_at, s.word
		FROM recognition_attempts ra
		LEFT JOIN signs s ON s.id = ra.sign_id
		WHERE ra.user_id = $1
		ORDER BY ra.created_at DESC, ra.id DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recognition history: %w", err)
	}
	defer rows.Close()

	attempts := []recognition.Attempt{}
	for rows.Next() {
		var a recognition.Attempt
		var data []byte
		err := rows.Scan(&a.ID, &a.UserID, &a.SignID, &data, &a.PredictedSign, &a.Confidence, &a.CreatedAt, &a.SignWord)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recognition attempt: %w", err)
		}
		a.FrameData = rawJSON(data)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// CountByUser returns the number of attempts by the user.
func (r *RecognitionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM recognition_attempts WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recognition attempts: %w", err)
	}
	return n, nil
}
