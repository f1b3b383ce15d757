package command

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	mock_notification "github.com/signlearn/signlearn-hub/internal/mocks/notification"
	mock_recognition "github.com/signlearn/signlearn-hub/internal/mocks/recognition"
	mock_user "github.com/signlearn/signlearn-hub/internal/mocks/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateProfileHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("sanitizes free text", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock_user.NewMockRepository(ctrl)
		h := NewUpdateProfileHandler(users, logger.Nop())

		users.EXPECT().UpdateProfile(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, upd user.ProfileUpdate) (*user.User, error) {
				assert.Equal(t, "Aida", *upd.Name)
				assert.Equal(t, "hi there", *upd.About)
				return &user.User{ID: userID, Name: *upd.Name, TotalPoints: 320}, nil
			})

		res, err := h.Handle(context.Background(), UpdateProfileCommand{
			UserID: userID,
			Update: user.ProfileUpdate{
				Name:  ptr("<b>Aida</b>"),
				About: ptr("<b>hi</b> there"),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Level.Level)
	})

	t.Run("empty update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewUpdateProfileHandler(mock_user.NewMockRepository(ctrl), logger.Nop())

		_, err := h.Handle(context.Background(), UpdateProfileCommand{UserID: userID})
		assert.ErrorIs(t, err, shared.ErrNoProfileChanges)
	})

	t.Run("name reduced to nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewUpdateProfileHandler(mock_user.NewMockRepository(ctrl), logger.Nop())

		_, err := h.Handle(context.Background(), UpdateProfileCommand{
			UserID: userID,
			Update: user.ProfileUpdate{Name: ptr("<i></i>")},
		})
		assert.True(t, shared.IsValidation(err))
	})
}

func TestUploadAvatarHandler(t *testing.T) {
	userID := uuid.New()
	avatar := func(ct string, size int64) user.Avatar {
		return user.Avatar{Filename: "me.png", ContentType: ct, Size: size, Body: strings.NewReader("png")}
	}

	t.Run("stores url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock_user.NewMockRepository(ctrl)
		storage := mock_user.NewMockAvatarStorage(ctrl)
		h := NewUploadAvatarHandler(users, storage, logger.Nop())

		users.EXPECT().GetByID(gomock.Any(), userID).Return(&user.User{ID: userID, Name: "Aida"}, nil)
		storage.EXPECT().Upload(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a user.Avatar) (string, error) {
				assert.Equal(t, userID, a.UserID)
				assert.Equal(t, "Aida", a.DisplayName)
				return "https://cdn.example.com/a.png", nil
			})
		users.EXPECT().UpdateAvatar(gomock.Any(), userID, "https://cdn.example.com/a.png").Return(nil)

		res, err := h.Handle(context.Background(), UploadAvatarCommand{UserID: userID, Avatar: avatar("image/png", 1024)})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/a.png", res.AvatarURL)
	})

	t.Run("rejects", func(t *testing.T) {
		tests := []struct {
			name string
			in   user.Avatar
			want error
		}{
			{"too large", avatar("image/png", user.MaxAvatarSize+1), shared.ErrAvatarTooLarge},
			{"not an image", avatar("application/pdf", 10), shared.ErrUnsupportedImage},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				h := NewUploadAvatarHandler(mock_user.NewMockRepository(ctrl), mock_user.NewMockAvatarStorage(ctrl), logger.Nop())

				_, err := h.Handle(context.Background(), UploadAvatarCommand{UserID: userID, Avatar: tt.in})
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mock_user.NewMockRepository(ctrl)
		storage := mock_user.NewMockAvatarStorage(ctrl)
		h := NewUploadAvatarHandler(users, storage, logger.Nop())

		a := avatar("image/jpeg", 10)
		a.DisplayName = "Aida"
		storage.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("", errors.New("503"))

		_, err := h.Handle(context.Background(), UploadAvatarCommand{UserID: userID, Avatar: a})
		assert.True(t, shared.IsExternalService(err))
	})
}

func TestRecordAttemptHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_recognition.NewMockRepository(ctrl)
	h := NewRecordAttemptHandler(repo, logger.Nop())

	userID := uuid.New()
	in := recognition.NewAttempt{
		UserID:     &userID,
		FrameData:  json.RawMessage(`[{"x":1}]`),
		Confidence: ptr(0.9),
	}
	repo.EXPECT().Save(gomock.Any(), in).Return(&recognition.Attempt{ID: 11, UserID: &userID}, nil)

	got, err := h.Handle(context.Background(), RecordAttemptCommand{Attempt: in})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)

	_, err = h.Handle(context.Background(), RecordAttemptCommand{Attempt: recognition.NewAttempt{Confidence: ptr(1.5)}})
	assert.ErrorIs(t, err, shared.ErrInvalidConfidence)
}

func TestMarkNotificationsReadHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		ids     []int64
		mock    bool
		want    int64
		wantErr bool
	}{
		{name: "marks", ids: []int64{1, 2, 3}, mock: true, want: 2},
		{name: "empty list", ids: nil, wantErr: true},
		{name: "non-positive id", ids: []int64{1, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_notification.NewMockRepository(ctrl)
			if tt.mock {
				repo.EXPECT().MarkRead(gomock.Any(), userID, tt.ids).Return(tt.want, nil)
			}
			h := NewMarkNotificationsReadHandler(repo)

			n, err := h.Handle(context.Background(), MarkNotificationsReadCommand{UserID: userID, IDs: tt.ids})
			if tt.wantErr {
				assert.True(t, shared.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}
