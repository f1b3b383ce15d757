// Package saga contains business processes that orchestrate
// multiple domain operations in a coordinated manner.
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/achievement"
	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT FLOW SAGA
// Flow: Load Stats → Evaluate Rules → Grant (conditional insert) →
//
//	Award Points → Publish Events
//
// Runs after every progress write. Grants are idempotent: the store's
// uniqueness constraint decides whether a grant is new, so concurrent runs
// for the same user cannot grant twice.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementCheckInput contains data needed to check for new achievements.
type AchievementCheckInput struct {
	// UserID - the user to check achievements for.
	UserID uuid.UUID

	// TriggerEvent - what triggered this check (e.g., "progress_recorded").
	TriggerEvent string

	// LessonID - the lesson whose progress triggered the check, if any.
	LessonID int64
}

// Validate checks if the input is valid.
func (i AchievementCheckInput) Validate() error {
	if i.UserID == uuid.Nil {
		return errors.New("achievement_flow: user ID is required")
	}
	return nil
}

// AchievementFlowResult contains the result of achievement processing.
type AchievementFlowResult struct {
	UserID uuid.UUID

	// Stats - the aggregate the rules were evaluated against.
	Stats progress.Stats

	// NewAchievements - achievements granted by this run.
	NewAchievements []achievement.Achievement

	// PointsAwarded - sum of the new achievements' points.
	PointsAwarded int

	// Award - ledger outcome; nil when nothing was awarded.
	Award *PointsAward

	ProcessedAt time.Time
}

// HasNewAchievements returns true if any achievements were unlocked.
func (r *AchievementFlowResult) HasNewAchievements() bool {
	return len(r.NewAchievements) > 0
}

// AchievementFlowStep represents a step in the achievement flow.
type AchievementFlowStep string

const (
	StepLoadStats           AchievementFlowStep = "load_stats"
	StepEvaluateRules       AchievementFlowStep = "evaluate_rules"
	StepGrantAchievements   AchievementFlowStep = "grant_achievements"
	StepAwardPoints         AchievementFlowStep = "award_points"
	StepPublishEvents       AchievementFlowStep = "publish_events"
	StepAchievementComplete AchievementFlowStep = "complete"
)

// AchievementFlowState tracks the current state of the achievement flow saga.
type AchievementFlowState struct {
	CurrentStep     AchievementFlowStep
	Input           AchievementCheckInput
	Stats           progress.Stats
	Candidates      []achievement.Type
	NewAchievements []achievement.Achievement
	Award           *PointsAward
	StartedAt       time.Time
	Error           error
	FailedStep      AchievementFlowStep
}

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT FLOW SAGA IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlowSaga orchestrates achievement checking and granting.
type AchievementFlowSaga struct {
	progressRepo    progress.Repository
	achievementRepo achievement.Repository
	ledger          *PointsLedger
	eventBus        shared.EventPublisher
	clock           timeutil.Clock
	logger          *logger.Logger

	awardPoints bool
}

// AchievementFlowConfig contains configuration for the achievement flow saga.
type AchievementFlowConfig struct {
	// AwardPoints credits achievement points to the user's total.
	AwardPoints bool
}

// DefaultAchievementFlowConfig returns default configuration.
func DefaultAchievementFlowConfig() AchievementFlowConfig {
	return AchievementFlowConfig{AwardPoints: true}
}

// NewAchievementFlowSaga creates a new achievement flow saga.
func NewAchievementFlowSaga(
	progressRepo progress.Repository,
	achievementRepo achievement.Repository,
	ledger *PointsLedger,
	eventBus shared.EventPublisher,
	clock timeutil.Clock,
	log *logger.Logger,
	config AchievementFlowConfig,
) *AchievementFlowSaga {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &AchievementFlowSaga{
		progressRepo:    progressRepo,
		achievementRepo: achievementRepo,
		ledger:          ledger,
		eventBus:        eventBus,
		clock:           clock,
		logger:          log.With(logger.Component("achievement_flow")),
		awardPoints:     config.AwardPoints && ledger != nil,
	}
}

// Execute runs the complete achievement checking and granting process.
func (s *AchievementFlowSaga) Execute(ctx context.Context, input AchievementCheckInput) (*AchievementFlowResult, error) {
	state := &AchievementFlowState{
		CurrentStep: StepLoadStats,
		Input:       input,
		StartedAt:   s.clock.Now(),
	}

	if err := input.Validate(); err != nil {
		state.FailedStep = StepLoadStats
		return nil, s.wrapError(state, err)
	}

	// Step 1: Load aggregate stats
	if err := s.stepLoadStats(ctx, state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 2: Evaluate the rule list
	state.CurrentStep = StepEvaluateRules
	state.Candidates = achievement.Qualified(state.Stats)

	// Step 3: Grant
	state.CurrentStep = StepGrantAchievements
	if len(state.Candidates) > 0 {
		if err := s.stepGrantAchievements(ctx, state); err != nil {
			return nil, s.wrapError(state, err)
		}
	}

	if len(state.NewAchievements) > 0 {
		// Step 4: Award points (non-critical)
		state.CurrentStep = StepAwardPoints
		if err := s.stepAwardPoints(ctx, state); err != nil {
			s.logger.Warn("failed to award achievement points",
				logger.UserID(input.UserID.String()),
				logger.Err(err),
			)
		}

		// Step 5: Publish domain events (non-critical)
		state.CurrentStep = StepPublishEvents
		s.stepPublishEvents(ctx, state)
	}

	state.CurrentStep = StepAchievementComplete

	result := &AchievementFlowResult{
		UserID:          input.UserID,
		Stats:           state.Stats,
		NewAchievements: state.NewAchievements,
		Award:           state.Award,
		ProcessedAt:     s.clock.Now(),
	}
	if result.NewAchievements == nil {
		result.NewAchievements = []achievement.Achievement{}
	}
	for _, a := range result.NewAchievements {
		result.PointsAwarded += a.Points
	}
	return result, nil
}

// Evaluate runs the flow after a progress write and never fails: errors are
// logged and an empty list is returned.
func (s *AchievementFlowSaga) Evaluate(ctx context.Context, userID uuid.UUID, lessonID int64) []achievement.Achievement {
	result, err := s.Execute(ctx, AchievementCheckInput{
		UserID:       userID,
		TriggerEvent: "progress_recorded",
		LessonID:     lessonID,
	})
	if err != nil {
		s.logger.Error("achievement evaluation failed",
			logger.UserID(userID.String()),
			logger.LessonID(lessonID),
			logger.Err(err),
		)
		return []achievement.Achievement{}
	}
	return result.NewAchievements
}

// ══════════════════════════════════════════════════════════════════════════════
// SAGA STEPS
// ══════════════════════════════════════════════════════════════════════════════

func (s *AchievementFlowSaga) stepLoadStats(ctx context.Context, state *AchievementFlowState) error {
	stats, err := s.progressRepo.Stats(ctx, state.Input.UserID)
	if err != nil {
		state.FailedStep = StepLoadStats
		state.Error = fmt.Errorf("failed to load progress stats: %w", err)
		return state.Error
	}
	state.Stats = stats
	return nil
}

// stepGrantAchievements writes each candidate with a conditional insert.
// Already-held achievements come back with granted=false and are skipped.
func (s *AchievementFlowSaga) stepGrantAchievements(ctx context.Context, state *AchievementFlowState) error {
	for _, t := range state.Candidates {
		a, granted, err := s.achievementRepo.Grant(ctx, state.Input.UserID, t)
		if err != nil {
			state.FailedStep = StepGrantAchievements
			state.Error = fmt.Errorf("failed to grant achievement %s: %w", t, err)
			return state.Error
		}
		if !granted || a == nil {
			continue
		}

		s.logger.Info("achievement unlocked",
			logger.UserID(state.Input.UserID.String()),
			logger.AchievementType(string(a.Type)),
			logger.Points(a.Points),
		)
		state.NewAchievements = append(state.NewAchievements, *a)
	}
	return nil
}

func (s *AchievementFlowSaga) stepAwardPoints(ctx context.Context, state *AchievementFlowState) error {
	if !s.awardPoints {
		return nil
	}

	total := 0
	for _, a := range state.NewAchievements {
		total += a.Points
	}
	if total <= 0 {
		return nil
	}

	award, err := s.ledger.Award(ctx, state.Input.UserID, total, activity.Delta{})
	if err != nil {
		return err
	}
	state.Award = award
	return nil
}

func (s *AchievementFlowSaga) stepPublishEvents(ctx context.Context, state *AchievementFlowState) {
	if s.eventBus == nil {
		return
	}

	userID := state.Input.UserID.String()
	for _, a := range state.NewAchievements {
		event := shared.NewAchievementUnlockedEvent(userID, a.ID, string(a.Type), a.Title, a.Icon, a.Points)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish achievement event",
				logger.UserID(userID),
				logger.AchievementType(string(a.Type)),
				logger.Err(err),
			)
		}
	}
}

func (s *AchievementFlowSaga) wrapError(state *AchievementFlowState, err error) error {
	return &AchievementFlowError{
		Step:    state.FailedStep,
		UserID:  state.Input.UserID,
		Cause:   err,
		Message: fmt.Sprintf("achievement flow failed at step '%s': %v", state.FailedStep, err),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlowError represents an error during the achievement flow.
type AchievementFlowError struct {
	Step    AchievementFlowStep
	UserID  uuid.UUID
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *AchievementFlowError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AchievementFlowError) Unwrap() error {
	return e.Cause
}
