// Package recognition models sign recognition attempts and the feedback
// returned for a captured gesture.
package recognition

//go:generate mockgen -source=entity.go -destination=../../mocks/recognition/mock_recognizer.go -package=mock_recognition

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// HistoryLimit is the number of attempts returned by the history listing.
const HistoryLimit = 50

// Attempt is a stored recognition attempt.
type Attempt struct {
	ID            int64           `json:"id"`
	UserID        *uuid.UUID      `json:"user_id"`
	SignID        *int64          `json:"sign_id"`
	FrameData     json.RawMessage `json:"frame_data"`
	PredictedSign *string         `json:"predicted_sign"`
	Confidence    *float64        `json:"confidence"`
	CreatedAt     time.Time       `json:"created_at"`
	SignWord      *string         `json:"sign_word,omitempty"`
}

// NewAttempt is the input for storing an attempt. Anonymous attempts have a nil UserID.
type NewAttempt struct {
	UserID        *uuid.UUID
	SignID        *int64
	FrameData     json.RawMessage
	PredictedSign *string
	Confidence    *float64
}

// Validate checks the confidence range.
func (a NewAttempt) Validate() error {
	if a.Confidence != nil && (*a.Confidence < 0 || *a.Confidence > 1) {
		return shared.ErrInvalidConfidence
	}
	if a.SignID != nil && *a.SignID <= 0 {
		return shared.NewDomainError("recognition", "Validate", shared.ErrInvalidID, "sign id must be positive")
	}
	return nil
}

// FeedbackRequest carries captured frames and the sign the learner tried to show.
type FeedbackRequest struct {
	FrameData    []json.RawMessage
	ExpectedSign string
}

// Feedback is the recognizer verdict.
type Feedback struct {
	Recognized    bool            `json:"recognized"`
	PredictedSign string          `json:"predicted_sign"`
	Confidence    float64         `json:"confidence"`
	Details       FeedbackDetails `json:"feedback"`
}

// FeedbackDetails holds coaching hints for the learner.
type FeedbackDetails struct {
	Accuracy    float64  `json:"accuracy"`
	Suggestions []string `json:"suggestions"`
	IsCorrect   *bool    `json:"is_correct"`
}

// Recognizer produces feedback for captured frames.
type Recognizer interface {
	Feedback(ctx context.Context, req FeedbackRequest) (*Feedback, error)
}
