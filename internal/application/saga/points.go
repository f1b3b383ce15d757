package saga

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/level"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// POINTS LEDGER
// Credits points to the user's total and today's activity, and announces
// level changes. Shared by lesson completion and achievement unlocking.
// ══════════════════════════════════════════════════════════════════════════════

// PointsAward describes the outcome of one award.
type PointsAward struct {
	Points      int
	TotalPoints int
	LevelBefore int
	LevelAfter  int
}

// LeveledUp reports whether the award crossed a level threshold.
func (a PointsAward) LeveledUp() bool {
	return a.LevelAfter > a.LevelBefore
}

// PointsLedger awards points.
type PointsLedger struct {
	users    user.Repository
	activity activity.Repository
	events   shared.EventPublisher
	clock    timeutil.Clock
	logger   *logger.Logger
}

// NewPointsLedger creates a PointsLedger.
func NewPointsLedger(
	users user.Repository,
	activityRepo activity.Repository,
	events shared.EventPublisher,
	clock timeutil.Clock,
	log *logger.Logger,
) *PointsLedger {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &PointsLedger{
		users:    users,
		activity: activityRepo,
		events:   events,
		clock:    clock,
		logger:   log.With(logger.Component("points_ledger")),
	}
}

// Award adds points to the user and records delta (plus the points) on
// today's activity row. The total is authoritative; the activity row and
// the level-up event are best effort.
func (l *PointsLedger) Award(ctx context.Context, userID uuid.UUID, points int, delta activity.Delta) (*PointsAward, error) {
	award := &PointsAward{Points: points}

	if points > 0 {
		total, err := l.users.AddPoints(ctx, userID, points)
		if err != nil {
			return nil, fmt.Errorf("points_ledger: add points: %w", err)
		}
		award.TotalPoints = total
		award.LevelBefore = level.For(total - points)
		award.LevelAfter = level.For(total)
		delta.PointsEarned += points
	}

	if !delta.IsZero() {
		if err := l.activity.Record(ctx, userID, l.clock.Now(), delta); err != nil {
			l.logger.Warn("failed to record daily activity",
				logger.UserID(userID.String()),
				logger.Points(points),
				logger.Err(err),
			)
		}
	}

	if award.LeveledUp() && l.events != nil {
		event := shared.NewLevelUpEvent(userID.String(), award.LevelBefore, award.LevelAfter, award.TotalPoints)
		if err := l.events.Publish(ctx, event); err != nil {
			l.logger.Warn("failed to publish level up", logger.UserID(userID.String()), logger.Err(err))
		}
	}

	return award, nil
}
