// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/signlearn/signlearn-hub/internal/domain/level"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN USER COMMAND
// Verifies credentials, advances the daily login streak and issues a token.
// ══════════════════════════════════════════════════════════════════════════════

// LoginUserCommand contains the credentials.
type LoginUserCommand struct {
	Email    string
	Password string
}

// Validate validates the command.
func (c LoginUserCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return shared.NewDomainError("user", "Login", shared.ErrValidation, "email and password are required")
	}
	return nil
}

// LoginUserResult contains the authenticated user and a fresh token.
type LoginUserResult struct {
	User      *user.User
	Level     level.Progress
	Token     string
	ExpiresAt time.Time

	// Streak describes how the login changed the streak.
	Streak user.StreakUpdate
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// LoginUserHandler handles the LoginUserCommand.
type LoginUserHandler struct {
	users    user.Repository
	hasher   user.PasswordHasher
	tokens   user.TokenIssuer
	eventBus shared.EventPublisher
	clock    timeutil.Clock
	logger   *logger.Logger
}

// NewLoginUserHandler creates a new LoginUserHandler.
func NewLoginUserHandler(
	users user.Repository,
	hasher user.PasswordHasher,
	tokens user.TokenIssuer,
	eventBus shared.EventPublisher,
	clock timeutil.Clock,
	log *logger.Logger,
) *LoginUserHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &LoginUserHandler{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		eventBus: eventBus,
		clock:    clock,
		logger:   log.With(logger.Component("login_user")),
	}
}

// Handle executes the login command.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByEmail(ctx, user.NormalizeEmail(cmd.Email))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login_user: load user: %w", err)
	}

	ok, err := h.hasher.Verify(u.PasswordHash, cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("login_user: verify password: %w", err)
	}
	if !ok {
		return nil, shared.ErrInvalidCredentials
	}

	// Streak failures never block a login.
	streak := user.NextStreak(u.CurrentStreak, u.LastActiveDate, h.clock.Now())
	if err := h.users.UpdateStreak(ctx, u.ID, streak); err != nil {
		h.logger.Warn("failed to update login streak",
			logger.UserID(u.ID.String()),
			logger.Err(err),
		)
	} else {
		u.CurrentStreak = streak.Current
		u.MaxStreak = user.MaxStreak(u.MaxStreak, streak.Current)
		last := streak.LastActive
		u.LastActiveDate = &last
	}

	token, expiresAt, err := h.tokens.Issue(u.Identity())
	if err != nil {
		return nil, fmt.Errorf("login_user: issue token: %w", err)
	}

	if h.eventBus != nil {
		if err := h.eventBus.Publish(ctx, shared.NewUserLoggedInEvent(u.ID.String(), u.CurrentStreak)); err != nil {
			h.logger.Warn("failed to publish login event", logger.UserID(u.ID.String()), logger.Err(err))
		}
	}

	return &LoginUserResult{
		User:      u,
		Level:     u.LevelProgress(),
		Token:     token,
		ExpiresAt: expiresAt,
		Streak:    streak,
	}, nil
}

// IsInvalidCredentials reports whether err is a credentials mismatch.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, shared.ErrInvalidCredentials)
}
