package jobs

import (
	"context"
	"fmt"

	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET STREAKS JOB
// ══════════════════════════════════════════════════════════════════════════════

// ResetStreaksJob zeroes the login streak of users who were not active
// yesterday or today. Login recomputes streaks on its own; this job keeps
// profiles and stats honest for users who stopped coming back.
type ResetStreaksJob struct {
	users  user.Repository
	clock  timeutil.Clock
	logger *logger.Logger
}

// NewResetStreaksJob creates the job.
func NewResetStreaksJob(users user.Repository, clock timeutil.Clock, log *logger.Logger) *ResetStreaksJob {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &ResetStreaksJob{
		users:  users,
		clock:  clock,
		logger: log.With(logger.String("job", "reset_streaks")),
	}
}

// Name returns the job name.
func (j *ResetStreaksJob) Name() string { return "reset_streaks" }

// Description returns a human-readable description.
func (j *ResetStreaksJob) Description() string {
	return "Resets login streaks of users inactive since before yesterday"
}

// Run resets every streak whose last active day is before yesterday.
func (j *ResetStreaksJob) Run(ctx context.Context) error {
	cutoff := timeutil.DaysAgo(j.clock.Now(), 1)

	n, err := j.users.ResetBrokenStreaks(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to reset streaks: %w", err)
	}

	if n > 0 {
		j.logger.Info("streaks reset", logger.Int64("users", n), logger.Time("cutoff", cutoff))
	}
	return nil
}
