package eventhandler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	mock_activity "github.com/signlearn/signlearn-hub/internal/mocks/activity"
	mock_leaderboard "github.com/signlearn/signlearn-hub/internal/mocks/leaderboard"
	mock_notification "github.com/signlearn/signlearn-hub/internal/mocks/notification"
	mock_shared "github.com/signlearn/signlearn-hub/internal/mocks/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func TestOnUserRegistered(t *testing.T) {
	userID := uuid.New()
	event := shared.NewUserRegisteredEvent(userID.String(), "aida@example.com", "Aida")

	tests := []struct {
		name        string
		event       shared.Event
		gate        Gate
		activityErr error
		wantNotify  bool
		wantErr     bool
	}{
		{name: "value event", event: event, wantNotify: true},
		{name: "pointer event", event: &event, wantNotify: true},
		{name: "welcome gated off", event: event, gate: func(uuid.UUID) bool { return false }},
		{name: "activity failure still notifies", event: event, activityErr: errors.New("db down"), wantNotify: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			acts := mock_activity.NewMockRepository(ctrl)
			notes := mock_notification.NewMockRepository(ctrl)

			acts.EXPECT().
				Record(gomock.Any(), userID, fixedNow, activity.Delta{PointsEarned: activity.WelcomePoints}).
				Return(tt.activityErr)
			if tt.wantNotify {
				notes.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d notification.Draft) (*notification.Notification, error) {
						assert.Equal(t, userID, d.UserID)
						assert.Equal(t, notification.TypeWelcome, d.Type)
						return &notification.Notification{ID: 1}, nil
					})
			}

			h := NewOnUserRegisteredHandler(acts, notes, timeutil.FixedClock{T: fixedNow}, tt.gate, logger.Nop())
			err := h.Handle(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOnUserRegistered_BadUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewOnUserRegisteredHandler(
		mock_activity.NewMockRepository(ctrl),
		mock_notification.NewMockRepository(ctrl),
		nil, nil, logger.Nop(),
	)

	err := h.Handle(context.Background(), shared.NewUserRegisteredEvent("not-a-uuid", "a@b.c", "A"))
	assert.True(t, shared.IsValidation(err))
}

func TestOnAchievementUnlocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	notes := mock_notification.NewMockRepository(ctrl)
	cache := mock_leaderboard.NewMockCache(ctrl)
	userID := uuid.New()

	notes.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d notification.Draft) (*notification.Notification, error) {
			assert.Equal(t, notification.TypeAchievement, d.Type)
			assert.Contains(t, d.Message, "First Steps")
			return &notification.Notification{ID: 7}, nil
		})
	cache.EXPECT().Invalidate(gomock.Any()).Return(nil)

	h := NewOnAchievementUnlockedHandler(notes, cache, nil, logger.Nop())
	event := shared.NewAchievementUnlockedEvent(userID.String(), 1, "first_lesson", "First Steps", "🎯", 10)
	require.NoError(t, h.Handle(context.Background(), event))
}

func TestOnAchievementUnlocked_GatedWithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	notes := mock_notification.NewMockRepository(ctrl)

	h := NewOnAchievementUnlockedHandler(notes, nil, func(uuid.UUID) bool { return false }, logger.Nop())
	event := shared.NewAchievementUnlockedEvent(uuid.NewString(), 1, "first_lesson", "First Steps", "🎯", 10)
	assert.NoError(t, h.Handle(context.Background(), &event))
}

func TestOnLevelUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	notes := mock_notification.NewMockRepository(ctrl)
	userID := uuid.New()

	notes.EXPECT().Create(gomock.Any(), notification.LevelUp(userID, 3)).
		Return(nil, errors.New("insert failed"))

	h := NewOnLevelUpHandler(notes, nil, logger.Nop())
	err := h.Handle(context.Background(), shared.NewLevelUpEvent(userID.String(), 2, 3, 320))
	assert.ErrorContains(t, err, "insert failed")

	// другие события игнорируются
	assert.NoError(t, h.Handle(context.Background(), shared.NewUserLoggedInEvent(userID.String(), 1)))
}

func TestOnProgressRecorded(t *testing.T) {
	userID := uuid.New().String()

	tests := []struct {
		name           string
		event          shared.Event
		wantInvalidate bool
	}{
		{name: "completed attempt", event: shared.NewProgressRecordedEvent(userID, 4, 90, true, true), wantInvalidate: true},
		{name: "repeat completion", event: shared.NewProgressRecordedEvent(userID, 4, 95, true, false), wantInvalidate: true},
		{name: "incomplete attempt", event: shared.NewProgressRecordedEvent(userID, 4, 30, false, false), wantInvalidate: true},
		{name: "other event", event: shared.NewUserLoggedInEvent(userID, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := mock_leaderboard.NewMockCache(ctrl)
			if tt.wantInvalidate {
				cache.EXPECT().Invalidate(gomock.Any()).Return(nil)
			}

			h := NewOnProgressRecordedHandler(cache, logger.Nop())
			assert.NoError(t, h.Handle(context.Background(), tt.event))
		})
	}
}

func TestRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := mock_shared.NewMockEventSubscriber(ctrl)

	bus.EXPECT().Subscribe(shared.EventUserRegistered, gomock.Any()).Return(nil)
	bus.EXPECT().Subscribe(shared.EventProgressRecorded, gomock.Any()).Return(nil)

	err := Register(bus, Handlers{
		UserRegistered:   NewOnUserRegisteredHandler(nil, nil, nil, nil, logger.Nop()),
		ProgressRecorded: NewOnProgressRecordedHandler(nil, logger.Nop()),
	})
	require.NoError(t, err)

	bus.EXPECT().Subscribe(shared.EventLevelUp, gomock.Any()).Return(errors.New("bus closed"))
	err = Register(bus, Handlers{LevelUp: NewOnLevelUpHandler(nil, nil, logger.Nop())})
	assert.ErrorContains(t, err, "bus closed")
}
