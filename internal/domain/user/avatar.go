package user

//go:generate mockgen -source=avatar.go -destination=../../mocks/user/mock_avatar.go -package=mock_user

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// MaxAvatarSize - максимальный размер файла аватара (5 МБ).
const MaxAvatarSize = 5 << 20

var avatarTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Avatar - загруженный файл аватара.
type Avatar struct {
	UserID      uuid.UUID
	DisplayName string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Validate проверяет размер и тип файла.
func (a Avatar) Validate() error {
	if a.Size > MaxAvatarSize {
		return shared.ErrAvatarTooLarge
	}
	ct := strings.ToLower(strings.TrimSpace(a.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := avatarTypes[ct]; !ok {
		return shared.ErrUnsupportedImage
	}
	return nil
}

// AvatarStorage сохраняет файл аватара и возвращает публичный URL.
type AvatarStorage interface {
	Upload(ctx context.Context, a Avatar) (string, error)
}
