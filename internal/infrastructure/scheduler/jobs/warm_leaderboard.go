// Package jobs contains the scheduled jobs run by the SignLearn worker.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WARM LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// WarmLeaderboardJob recomputes the default-size listing of every period and
// stores it in the cache, so the first reader after an invalidation is served
// from Redis.
type WarmLeaderboardJob struct {
	repo   leaderboard.Repository
	cache  leaderboard.Cache
	clock  timeutil.Clock
	limit  int
	logger *logger.Logger
}

// NewWarmLeaderboardJob creates the job. limit <= 0 uses leaderboard.DefaultLimit.
func NewWarmLeaderboardJob(repo leaderboard.Repository, cache leaderboard.Cache, clock timeutil.Clock, limit int, log *logger.Logger) *WarmLeaderboardJob {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if limit <= 0 || limit > leaderboard.MaxLimit {
		limit = leaderboard.DefaultLimit
	}
	if log == nil {
		log = logger.Default()
	}
	return &WarmLeaderboardJob{
		repo:   repo,
		cache:  cache,
		clock:  clock,
		limit:  limit,
		logger: log.With(logger.String("job", "warm_leaderboard")),
	}
}

// Name returns the job name.
func (j *WarmLeaderboardJob) Name() string { return "warm_leaderboard" }

// Description returns a human-readable description.
func (j *WarmLeaderboardJob) Description() string {
	return "Recomputes leaderboard listings for every period and refreshes the cache"
}

// Run warms every period. A failing period does not stop the others.
func (j *WarmLeaderboardJob) Run(ctx context.Context) error {
	now := j.clock.Now()
	var errs []error

	for _, period := range leaderboard.Periods {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		start := time.Now()
		entries, err := j.repo.Top(ctx, period.Since(now), j.limit)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", period, err))
			continue
		}
		if err := j.cache.SetTop(ctx, period, j.limit, entries); err != nil {
			errs = append(errs, fmt.Errorf("%s: cache: %w", period, err))
			continue
		}

		j.logger.Debug("leaderboard warmed",
			logger.Period(period.String()),
			logger.Int("entries", len(entries)),
			logger.Latency(time.Since(start)),
		)
	}

	return errors.Join(errs...)
}
