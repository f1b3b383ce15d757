package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/application/saga"
	"github.com/signlearn/signlearn-hub/internal/domain/achievement"
	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/course"
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PROGRESS COMMAND
// Stores a lesson result with the best-score-wins rule, credits the first
// completion and runs the achievement check.
// Flow: Validate → Lesson Exists → Upsert → Award → Publish → Achievements
// ══════════════════════════════════════════════════════════════════════════════

// RecordProgressCommand contains one lesson result.
type RecordProgressCommand struct {
	Submission progress.Submission
}

// Validate validates the command.
func (c RecordProgressCommand) Validate() error {
	return c.Submission.Validate()
}

// RecordProgressResult contains the stored record and what it unlocked.
type RecordProgressResult struct {
	Record          progress.Record
	FirstCompletion bool
	NewAchievements []achievement.Achievement

	// Award is set on the first completion of a lesson.
	Award *saga.PointsAward
}

// PointsAwarder credits points to a user.
type PointsAwarder interface {
	Award(ctx context.Context, userID uuid.UUID, points int, delta activity.Delta) (*saga.PointsAward, error)
}

// AchievementEvaluator grants achievements after a progress write.
// It never fails; an empty list means nothing new was unlocked.
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, userID uuid.UUID, lessonID int64) []achievement.Achievement
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordProgressHandler handles the RecordProgressCommand.
type RecordProgressHandler struct {
	courses   course.Repository
	progress  progress.Repository
	points    PointsAwarder
	evaluator AchievementEvaluator
	eventBus  shared.EventPublisher
	logger    *logger.Logger
}

// NewRecordProgressHandler creates a new RecordProgressHandler.
func NewRecordProgressHandler(
	courses course.Repository,
	progressRepo progress.Repository,
	points PointsAwarder,
	evaluator AchievementEvaluator,
	eventBus shared.EventPublisher,
	log *logger.Logger,
) *RecordProgressHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordProgressHandler{
		courses:   courses,
		progress:  progressRepo,
		points:    points,
		evaluator: evaluator,
		eventBus:  eventBus,
		logger:    log.With(logger.Component("record_progress")),
	}
}

// Handle executes the record progress command.
func (h *RecordProgressHandler) Handle(ctx context.Context, cmd RecordProgressCommand) (*RecordProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	sub := cmd.Submission

	exists, err := h.courses.LessonExists(ctx, sub.LessonID)
	if err != nil {
		return nil, fmt.Errorf("record_progress: check lesson: %w", err)
	}
	if !exists {
		return nil, shared.ErrLessonNotFound
	}

	// The lesson may disappear between the check and the write; the upsert
	// reports that as ErrLessonNotFound too.
	upserted, err := h.progress.Upsert(ctx, sub)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("record_progress: upsert: %w", err)
	}

	result := &RecordProgressResult{
		Record:          upserted.Record,
		FirstCompletion: upserted.FirstCompletion,
	}

	log := h.logger.With(logger.UserID(sub.UserID.String()), logger.LessonID(sub.LessonID))

	if upserted.FirstCompletion && h.points != nil {
		award, err := h.points.Award(ctx, sub.UserID, progress.CompletionPoints, activity.Delta{LessonsCompleted: 1})
		if err != nil {
			log.Error("failed to award completion points", logger.Err(err))
		} else {
			result.Award = award
		}
	}

	if h.eventBus != nil {
		event := shared.NewProgressRecordedEvent(
			sub.UserID.String(),
			sub.LessonID,
			upserted.Record.Score,
			upserted.Record.Completed,
			upserted.FirstCompletion,
		)
		if err := h.eventBus.Publish(ctx, event); err != nil {
			log.Warn("failed to publish progress event", logger.Err(err))
		}
	}

	result.NewAchievements = []achievement.Achievement{}
	if h.evaluator != nil {
		result.NewAchievements = h.evaluator.Evaluate(ctx, sub.UserID, sub.LessonID)
	}

	log.Info("progress recorded",
		logger.Float64("score", upserted.Record.Score),
		logger.Bool("completed", upserted.Record.Completed),
		logger.Int("new_achievements", len(result.NewAchievements)),
	)

	return result, nil
}
