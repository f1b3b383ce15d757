package command

import (
	"context"
	"fmt"

	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD RECOGNITION ATTEMPT COMMAND
// Stores a captured gesture attempt. Anonymous callers are allowed.
// ══════════════════════════════════════════════════════════════════════════════

// RecordAttemptCommand wraps the attempt to store.
type RecordAttemptCommand struct {
	Attempt recognition.NewAttempt
}

// RecordAttemptHandler handles the RecordAttemptCommand.
type RecordAttemptHandler struct {
	attempts recognition.Repository
	logger   *logger.Logger
}

// NewRecordAttemptHandler creates a new RecordAttemptHandler.
func NewRecordAttemptHandler(attempts recognition.Repository, log *logger.Logger) *RecordAttemptHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordAttemptHandler{
		attempts: attempts,
		logger:   log.With(logger.Component("record_attempt")),
	}
}

// Handle validates and stores the attempt.
func (h *RecordAttemptHandler) Handle(ctx context.Context, cmd RecordAttemptCommand) (*recognition.Attempt, error) {
	if err := cmd.Attempt.Validate(); err != nil {
		return nil, err
	}

	saved, err := h.attempts.Save(ctx, cmd.Attempt)
	if err != nil {
		return nil, fmt.Errorf("record_attempt: %w", err)
	}

	if cmd.Attempt.UserID != nil {
		h.logger.Debug("recognition attempt stored",
			logger.UserID(cmd.Attempt.UserID.String()),
			logger.Int64("attempt_id", saved.ID),
		)
	}
	return saved, nil
}
