// Package storage stores user avatars. CloudinaryStorage uploads the image;
// PlaceholderStorage stores nothing and returns a generated initials image URL.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/circuitbreaker"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// Config holds image storage credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether all Cloudinary credentials are present.
func (c Config) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// New returns CloudinaryStorage when configured and PlaceholderStorage otherwise.
func New(cfg Config, log *logger.Logger) (user.AvatarStorage, error) {
	if log == nil {
		log = logger.Default()
	}
	if !cfg.Enabled() {
		log.Info("image storage not configured, avatars use placeholders")
		return NewPlaceholderStorage(), nil
	}
	return NewCloudinaryStorage(cfg, log)
}

// ══════════════════════════════════════════════════════════════════════════════
// CLOUDINARY
// ══════════════════════════════════════════════════════════════════════════════

// CloudinaryStorage uploads avatars to Cloudinary.
type CloudinaryStorage struct {
	cld     *cloudinary.Cloudinary
	folder  string
	breaker *circuitbreaker.CircuitBreaker
	logger  *logger.Logger
}

// NewCloudinaryStorage creates a Cloudinary-backed storage.
func NewCloudinaryStorage(cfg Config, log *logger.Logger) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	folder := cfg.Folder
	if folder == "" {
		folder = "signlearn/avatars"
	}

	log = log.With(logger.Component("image-storage"))
	return &CloudinaryStorage{
		cld:    cld,
		folder: folder,
		breaker: circuitbreaker.StorageBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
		logger: log,
	}, nil
}

// Upload stores the avatar under a per-user public id, replacing the previous one.
func (s *CloudinaryStorage) Upload(ctx context.Context, a user.Avatar) (string, error) {
	overwrite := true
	var secureURL string

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		res, err := s.cld.Upload.Upload(ctx, a.Body, uploader.UploadParams{
			PublicID:       a.UserID.String(),
			Folder:         s.folder,
			Overwrite:      &overwrite,
			ResourceType:   "image",
			Transformation: "c_fill,g_face,h_400,w_400",
		})
		if err != nil {
			return err
		}
		if res.Error.Message != "" {
			return fmt.Errorf("cloudinary: %s", res.Error.Message)
		}
		secureURL = res.SecureURL
		return nil
	})
	if err != nil {
		s.logger.Error("avatar upload failed", logger.UserID(a.UserID.String()), logger.Err(err))
		return "", shared.WrapError("storage", "UploadAvatar", shared.ErrExternalService, "failed to upload avatar", err)
	}

	return secureURL, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PLACEHOLDER
// ══════════════════════════════════════════════════════════════════════════════

// PlaceholderBaseURL is the initials image service used without Cloudinary.
const PlaceholderBaseURL = "https://ui-avatars.com/api/"

// PlaceholderStorage discards the file and returns an initials image URL.
type PlaceholderStorage struct{}

// NewPlaceholderStorage creates a PlaceholderStorage.
func NewPlaceholderStorage() *PlaceholderStorage {
	return &PlaceholderStorage{}
}

// Upload implements user.AvatarStorage.
func (PlaceholderStorage) Upload(_ context.Context, a user.Avatar) (string, error) {
	return PlaceholderURL(a.DisplayName), nil
}

// PlaceholderURL builds the initials image URL for a display name.
func PlaceholderURL(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "User"
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("size", "200")
	q.Set("background", "0077FF")
	q.Set("color", "fff")
	return PlaceholderBaseURL + "?" + q.Encode()
}
