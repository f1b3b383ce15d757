package recognition

import (
	"context"

	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
)

// DefaultSign is reported when the learner did not say which sign they tried.
const DefaultSign = "example_sign"

// StaticConfidence is the confidence reported by StaticRecognizer.
const StaticConfidence = 0.85

// StaticRecognizer returns fixed feedback without looking at the frames.
// It stands in for a real model and serves as the fallback of Client.
type StaticRecognizer struct{}

// NewStaticRecognizer creates a StaticRecognizer.
func NewStaticRecognizer() *StaticRecognizer {
	return &StaticRecognizer{}
}

// Feedback implements recognition.Recognizer.
func (StaticRecognizer) Feedback(_ context.Context, req recognition.FeedbackRequest) (*recognition.Feedback, error) {
	predicted := req.ExpectedSign
	var isCorrect *bool
	if predicted != "" {
		yes := true
		isCorrect = &yes
	} else {
		predicted = DefaultSign
	}

	return &recognition.Feedback{
		Recognized:    true,
		PredictedSign: predicted,
		Confidence:    StaticConfidence,
		Details: recognition.FeedbackDetails{
			Accuracy: StaticConfidence,
			Suggestions: []string{
				"Try to keep your hand more steady",
				"Make sure all fingers are visible",
			},
			IsCorrect: isCorrect,
		},
	}, nil
}
