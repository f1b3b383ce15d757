package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/sanitize"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ONBOARDING SAGA
// Registration of a new learner
// Flow: Validate → Check Existence → Hash Password → Create User →
//
//	Issue Token → Publish Event
//
// The welcome notification and the first daily activity are produced by the
// user.registered event handlers, so a slow notification store never blocks
// registration.
// ══════════════════════════════════════════════════════════════════════════════

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var inputValidator = validator.New(validator.WithRequiredStructEnabled())

// OnboardingInput contains all data required to register a learner.
type OnboardingInput struct {
	// Email - login email (required).
	Email string

	// Password - plain text password, at least 8 characters (required).
	Password string

	// Name - display name (required).
	Name string

	Phone       *string
	BirthDate   *time.Time
	SkillLevel  string
	Preferences map[string]any
}

// Validate checks if the input is valid for registration.
func (i OnboardingInput) Validate() error {
	if err := inputValidator.Var(strings.TrimSpace(i.Email), "required,email"); err != nil {
		return shared.NewDomainError("user", "Register", shared.ErrValidation, "a valid email is required")
	}
	if len(i.Password) < MinPasswordLength {
		return shared.NewDomainError("user", "Register", shared.ErrValidation,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if strings.TrimSpace(i.Name) == "" {
		return shared.NewDomainError("user", "Register", shared.ErrValidation, "name is required")
	}
	if _, err := user.ParseSkillLevel(i.SkillLevel); err != nil {
		return err
	}
	return nil
}

// OnboardingResult contains the result of a successful registration.
type OnboardingResult struct {
	User        *user.User
	Token       string
	ExpiresAt   time.Time
	OnboardedAt time.Time
}

// OnboardingStep represents a step in the onboarding process.
type OnboardingStep string

const (
	StepValidateInput  OnboardingStep = "validate_input"
	StepCheckExistence OnboardingStep = "check_existence"
	StepHashPassword   OnboardingStep = "hash_password"
	StepCreateUser     OnboardingStep = "create_user"
	StepIssueToken     OnboardingStep = "issue_token"
	StepPublishEvent   OnboardingStep = "publish_event"
	StepComplete       OnboardingStep = "complete"
)

// OnboardingState tracks the current state of the onboarding saga.
type OnboardingState struct {
	CurrentStep  OnboardingStep
	Input        OnboardingInput
	Email        string
	PasswordHash string
	User         *user.User
	Token        string
	ExpiresAt    time.Time
	StartedAt    time.Time
	CompletedAt  *time.Time
	Error        error
	FailedStep   OnboardingStep
}

// ══════════════════════════════════════════════════════════════════════════════
// ONBOARDING SAGA IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// OnboardingSaga orchestrates the complete registration process.
type OnboardingSaga struct {
	users    user.Repository
	hasher   user.PasswordHasher
	tokens   user.TokenIssuer
	eventBus shared.EventPublisher
	clock    timeutil.Clock
	logger   *logger.Logger
}

// NewOnboardingSaga creates a new onboarding saga with all dependencies.
func NewOnboardingSaga(
	users user.Repository,
	hasher user.PasswordHasher,
	tokens user.TokenIssuer,
	eventBus shared.EventPublisher,
	clock timeutil.Clock,
	log *logger.Logger,
) *OnboardingSaga {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &OnboardingSaga{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		eventBus: eventBus,
		clock:    clock,
		logger:   log.With(logger.Component("onboarding")),
	}
}

// Execute runs the complete registration process.
func (s *OnboardingSaga) Execute(ctx context.Context, input OnboardingInput) (*OnboardingResult, error) {
	state := &OnboardingState{
		CurrentStep: StepValidateInput,
		Input:       input,
		Email:       user.NormalizeEmail(input.Email),
		StartedAt:   s.clock.Now(),
	}

	// Step 1: Validate input
	if err := s.stepValidateInput(state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 2: Reject duplicate email early
	state.CurrentStep = StepCheckExistence
	if err := s.stepCheckExistence(ctx, state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 3: Hash password
	state.CurrentStep = StepHashPassword
	if err := s.stepHashPassword(state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 4: Persist user (the unique index still catches a concurrent duplicate)
	state.CurrentStep = StepCreateUser
	if err := s.stepCreateUser(ctx, state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 5: Issue access token
	state.CurrentStep = StepIssueToken
	if err := s.stepIssueToken(state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 6: Publish domain event (non-critical)
	state.CurrentStep = StepPublishEvent
	if err := s.stepPublishEvent(ctx, state); err != nil {
		s.logger.Warn("failed to publish user registered event",
			logger.UserID(state.User.ID.String()),
			logger.Err(err),
		)
	}

	state.CurrentStep = StepComplete
	now := s.clock.Now()
	state.CompletedAt = &now

	s.logger.Info("user registered",
		logger.UserID(state.User.ID.String()),
		logger.Email(state.User.Email),
	)

	return &OnboardingResult{
		User:        state.User,
		Token:       state.Token,
		ExpiresAt:   state.ExpiresAt,
		OnboardedAt: now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SAGA STEPS
// ══════════════════════════════════════════════════════════════════════════════

func (s *OnboardingSaga) stepValidateInput(state *OnboardingState) error {
	if err := state.Input.Validate(); err != nil {
		state.FailedStep = StepValidateInput
		state.Error = err
		return err
	}
	return nil
}

func (s *OnboardingSaga) stepCheckExistence(ctx context.Context, state *OnboardingState) error {
	existing, err := s.users.GetByEmail(ctx, state.Email)
	switch {
	case err == nil && existing != nil:
		state.FailedStep = StepCheckExistence
		state.Error = shared.ErrEmailTaken
		return state.Error
	case err != nil && !shared.IsNotFound(err):
		state.FailedStep = StepCheckExistence
		state.Error = fmt.Errorf("failed to check email existence: %w", err)
		return state.Error
	}
	return nil
}

func (s *OnboardingSaga) stepHashPassword(state *OnboardingState) error {
	hash, err := s.hasher.Hash(state.Input.Password)
	if err != nil {
		state.FailedStep = StepHashPassword
		state.Error = fmt.Errorf("failed to hash password: %w", err)
		return state.Error
	}
	state.PasswordHash = hash
	return nil
}

func (s *OnboardingSaga) stepCreateUser(ctx context.Context, state *OnboardingState) error {
	skill, _ := user.ParseSkillLevel(state.Input.SkillLevel)

	prefs := state.Input.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}

	created, err := s.users.Create(ctx, user.NewUser{
		Email:        state.Email,
		PasswordHash: state.PasswordHash,
		Name:         sanitize.Text(strings.TrimSpace(state.Input.Name)),
		Phone:        sanitize.TextPtr(state.Input.Phone),
		BirthDate:    state.Input.BirthDate,
		SkillLevel:   skill,
		Preferences:  prefs,
	})
	if err != nil {
		state.FailedStep = StepCreateUser
		if shared.IsAlreadyExists(err) {
			state.Error = shared.ErrEmailTaken
		} else {
			state.Error = fmt.Errorf("failed to persist user: %w", err)
		}
		return state.Error
	}

	state.User = created
	return nil
}

func (s *OnboardingSaga) stepIssueToken(state *OnboardingState) error {
	token, expiresAt, err := s.tokens.Issue(state.User.Identity())
	if err != nil {
		state.FailedStep = StepIssueToken
		state.Error = fmt.Errorf("failed to issue token: %w", err)
		return state.Error
	}
	state.Token = token
	state.ExpiresAt = expiresAt
	return nil
}

func (s *OnboardingSaga) stepPublishEvent(ctx context.Context, state *OnboardingState) error {
	if s.eventBus == nil {
		return nil
	}
	event := shared.NewUserRegisteredEvent(state.User.ID.String(), state.User.Email, state.User.Name)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish user registered event: %w", err)
	}
	return nil
}

// wrapError wraps an error with saga context.
func (s *OnboardingSaga) wrapError(state *OnboardingState, err error) error {
	return &OnboardingError{
		Step:    state.FailedStep,
		Email:   state.Email,
		Cause:   err,
		Message: fmt.Sprintf("onboarding failed at step '%s': %v", state.FailedStep, err),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// OnboardingError represents an error during the onboarding process.
type OnboardingError struct {
	Step    OnboardingStep
	Email   string
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *OnboardingError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *OnboardingError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether retrying the registration may succeed.
func (e *OnboardingError) IsRetryable() bool {
	switch e.Step {
	case StepValidateInput, StepCheckExistence, StepCreateUser:
		if shared.IsValidation(e.Cause) || errors.Is(e.Cause, shared.ErrEmailTaken) {
			return false
		}
	}
	return shared.IsRetryable(e.Cause)
}
