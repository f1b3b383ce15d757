package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPLOAD AVATAR COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UploadAvatarCommand carries the uploaded file.
type UploadAvatarCommand struct {
	UserID uuid.UUID
	Avatar user.Avatar
}

// UploadAvatarResult contains the stored avatar URL.
type UploadAvatarResult struct {
	AvatarURL string
}

// UploadAvatarHandler handles the UploadAvatarCommand.
type UploadAvatarHandler struct {
	users   user.Repository
	storage user.AvatarStorage
	logger  *logger.Logger
}

// NewUploadAvatarHandler creates a new UploadAvatarHandler.
func NewUploadAvatarHandler(users user.Repository, storage user.AvatarStorage, log *logger.Logger) *UploadAvatarHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UploadAvatarHandler{
		users:   users,
		storage: storage,
		logger:  log.With(logger.Component("upload_avatar")),
	}
}

// Handle validates the file, stores it and saves the resulting URL.
func (h *UploadAvatarHandler) Handle(ctx context.Context, cmd UploadAvatarCommand) (*UploadAvatarResult, error) {
	if cmd.UserID == uuid.Nil {
		return nil, shared.NewDomainError("user", "UploadAvatar", shared.ErrInvalidID, "user id is required")
	}
	if err := cmd.Avatar.Validate(); err != nil {
		return nil, err
	}

	// The placeholder storage needs the display name.
	if cmd.Avatar.DisplayName == "" {
		u, err := h.users.GetByID(ctx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		cmd.Avatar.DisplayName = u.Name
	}
	cmd.Avatar.UserID = cmd.UserID

	url, err := h.storage.Upload(ctx, cmd.Avatar)
	if err != nil {
		return nil, shared.WrapError("storage", "UploadAvatar", shared.ErrExternalService, "failed to upload avatar", err)
	}

	if err := h.users.UpdateAvatar(ctx, cmd.UserID, url); err != nil {
		return nil, fmt.Errorf("upload_avatar: save url: %w", err)
	}

	h.logger.Info("avatar updated",
		logger.UserID(cmd.UserID.String()),
		logger.Int64("size", cmd.Avatar.Size),
	)

	return &UploadAvatarResult{AvatarURL: url}, nil
}
