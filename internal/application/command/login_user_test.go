package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	mock_shared "github.com/signlearn/signlearn-hub/internal/mocks/shared"
	mock_user "github.com/signlearn/signlearn-hub/internal/mocks/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

type loginMocks struct {
	users  *mock_user.MockRepository
	hasher *mock_user.MockPasswordHasher
	tokens *mock_user.MockTokenIssuer
	events *mock_shared.MockEventPublisher
}

func newLogin(t *testing.T) (*LoginUserHandler, loginMocks) {
	ctrl := gomock.NewController(t)
	m := loginMocks{
		users:  mock_user.NewMockRepository(ctrl),
		hasher: mock_user.NewMockPasswordHasher(ctrl),
		tokens: mock_user.NewMockTokenIssuer(ctrl),
		events: mock_shared.NewMockEventPublisher(ctrl),
	}
	h := NewLoginUserHandler(m.users, m.hasher, m.tokens, m.events, timeutil.FixedClock{T: fixedNow}, logger.Nop())
	return h, m
}

func TestLoginUserHandler_Streak(t *testing.T) {
	yesterday := fixedNow.AddDate(0, 0, -1)
	lastWeek := fixedNow.AddDate(0, 0, -6)
	today := timeutil.StartOfDay(fixedNow)

	tests := []struct {
		name       string
		current    int
		max        int
		lastActive *time.Time
		wantStreak int
		wantMax    int
	}{
		{"first login", 0, 0, nil, 1, 1},
		{"same day", 3, 5, &today, 3, 5},
		{"next day", 3, 3, &yesterday, 4, 4},
		{"gap resets", 7, 9, &lastWeek, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newLogin(t)
			u := &user.User{
				ID:             uuid.New(),
				Email:          "aida@example.com",
				PasswordHash:   "hash",
				CurrentStreak:  tt.current,
				MaxStreak:      tt.max,
				LastActiveDate: tt.lastActive,
				TotalPoints:    250,
			}

			m.users.EXPECT().GetByEmail(gomock.Any(), "aida@example.com").Return(u, nil)
			m.hasher.EXPECT().Verify("hash", "password1").Return(true, nil)
			m.users.EXPECT().UpdateStreak(gomock.Any(), u.ID, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ uuid.UUID, s user.StreakUpdate) error {
					assert.Equal(t, tt.wantStreak, s.Current)
					return nil
				})
			m.tokens.EXPECT().Issue(gomock.Any()).Return("tok", fixedNow.Add(time.Hour), nil)
			m.events.EXPECT().Publish(gomock.Any(), gomock.AssignableToTypeOf(shared.UserLoggedInEvent{})).Return(nil)

			res, err := h.Handle(context.Background(), LoginUserCommand{Email: "AIDA@example.com", Password: "password1"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStreak, res.User.CurrentStreak)
			assert.Equal(t, tt.wantMax, res.User.MaxStreak)
			assert.Equal(t, 2, res.Level.Level)
			assert.Equal(t, "tok", res.Token)
		})
	}
}

func TestLoginUserHandler_InvalidCredentials(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		h, m := newLogin(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, shared.ErrUserNotFound)

		_, err := h.Handle(context.Background(), LoginUserCommand{Email: "x@example.com", Password: "password1"})
		assert.True(t, IsInvalidCredentials(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		h, m := newLogin(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(&user.User{ID: uuid.New(), PasswordHash: "hash"}, nil)
		m.hasher.EXPECT().Verify("hash", "nope-nope").Return(false, nil)

		_, err := h.Handle(context.Background(), LoginUserCommand{Email: "x@example.com", Password: "nope-nope"})
		assert.True(t, IsInvalidCredentials(err))
		assert.True(t, shared.IsUnauthorized(err))
	})

	t.Run("missing fields", func(t *testing.T) {
		h, _ := newLogin(t)
		_, err := h.Handle(context.Background(), LoginUserCommand{Email: " "})
		assert.True(t, shared.IsValidation(err))
	})
}

func TestLoginUserHandler_StreakFailureIsNotFatal(t *testing.T) {
	h, m := newLogin(t)
	u := &user.User{ID: uuid.New(), PasswordHash: "hash", CurrentStreak: 2}

	m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(u, nil)
	m.hasher.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(true, nil)
	m.users.EXPECT().UpdateStreak(gomock.Any(), u.ID, gomock.Any()).Return(errors.New("deadlock"))
	m.tokens.EXPECT().Issue(gomock.Any()).Return("tok", fixedNow, nil)
	m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	res, err := h.Handle(context.Background(), LoginUserCommand{Email: "a@b.co", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.User.CurrentStreak)
}
