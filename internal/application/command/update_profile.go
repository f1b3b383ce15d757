package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/level"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/sanitize"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Partial profile update. nil fields are left unchanged.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains the data to update a profile.
type UpdateProfileCommand struct {
	UserID uuid.UUID
	Update user.ProfileUpdate
}

// Validate validates the command.
func (c UpdateProfileCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return shared.NewDomainError("user", "UpdateProfile", shared.ErrInvalidID, "user id is required")
	}
	return c.Update.Validate()
}

// UpdateProfileResult contains the stored profile.
type UpdateProfileResult struct {
	User  *user.User
	Level level.Progress
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	users  user.Repository
	logger *logger.Logger
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(users user.Repository, log *logger.Logger) *UpdateProfileHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UpdateProfileHandler{
		users:  users,
		logger: log.With(logger.Component("update_profile")),
	}
}

// Handle executes the update profile command.
// Free-text fields are stripped of markup before they are stored.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*UpdateProfileResult, error) {
	upd := cmd.Update
	upd.Name = sanitize.TextPtr(upd.Name)
	upd.Phone = sanitize.TextPtr(upd.Phone)
	upd.About = sanitize.TextPtr(upd.About)
	cmd.Update = upd

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.UpdateProfile(ctx, cmd.UserID, cmd.Update)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update_profile: %w", err)
	}

	h.logger.Info("profile updated", logger.UserID(cmd.UserID.String()))

	return &UpdateProfileResult{User: u, Level: u.LevelProgress()}, nil
}
