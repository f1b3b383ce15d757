package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// RemoteGate decides whether a caller is served by the remote recognizer.
// A nil user id means an anonymous caller.
type RemoteGate func(userID *uuid.UUID) bool

// RecognitionHandler serves recognition feedback and attempt history.
type RecognitionHandler struct {
	attempts recognition.Repository
	remote   recognition.Recognizer
	local    recognition.Recognizer
	gate     RemoteGate
	logger   *logger.Logger
}

// NewRecognitionHandler creates a RecognitionHandler.
// remote may be nil; local is always required.
func NewRecognitionHandler(
	attempts recognition.Repository,
	remote recognition.Recognizer,
	local recognition.Recognizer,
	gate RemoteGate,
	log *logger.Logger,
) *RecognitionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecognitionHandler{
		attempts: attempts,
		remote:   remote,
		local:    local,
		gate:     gate,
		logger:   log.With(logger.Component("recognition")),
	}
}

// Feedback returns the recognizer verdict for captured frames.
// Remote failures fall back to the local recognizer.
func (h *RecognitionHandler) Feedback(ctx context.Context, req recognition.FeedbackRequest, userID *uuid.UUID) (*recognition.Feedback, error) {
	if h.remote != nil && (h.gate == nil || h.gate(userID)) {
		fb, err := h.remote.Feedback(ctx, req)
		if err == nil {
			return fb, nil
		}
		h.logger.Warn("remote recognizer failed, using local feedback", logger.Err(err))
	}

	fb, err := h.local.Feedback(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("recognition_feedback: %w", err)
	}
	return fb, nil
}

// History returns the user's latest attempts.
func (h *RecognitionHandler) History(ctx context.Context, userID uuid.UUID) ([]recognition.Attempt, error) {
	list, err := h.attempts.History(ctx, userID, recognition.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("recognition_history: %w", err)
	}
	if list == nil {
		list = []recognition.Attempt{}
	}
	return list, nil
}
