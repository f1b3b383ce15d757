package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/signlearn/signlearn-hub/internal/domain/achievement"
	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	mock_achievement "github.com/signlearn/signlearn-hub/internal/mocks/achievement"
	mock_activity "github.com/signlearn/signlearn-hub/internal/mocks/activity"
	mock_course "github.com/signlearn/signlearn-hub/internal/mocks/course"
	mock_notification "github.com/signlearn/signlearn-hub/internal/mocks/notification"
	mock_progress "github.com/signlearn/signlearn-hub/internal/mocks/progress"
	mock_user "github.com/signlearn/signlearn-hub/internal/mocks/user"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

type profileMocks struct {
	users         *mock_user.MockRepository
	courses       *mock_course.MockRepository
	progress      *mock_progress.MockRepository
	achievements  *mock_achievement.MockRepository
	activity      *mock_activity.MockRepository
	notifications *mock_notification.MockRepository
}

func newProfile(t *testing.T) (*ProfileHandler, profileMocks) {
	ctrl := gomock.NewController(t)
	m := profileMocks{
		users:         mock_user.NewMockRepository(ctrl),
		courses:       mock_course.NewMockRepository(ctrl),
		progress:      mock_progress.NewMockRepository(ctrl),
		achievements:  mock_achievement.NewMockRepository(ctrl),
		activity:      mock_activity.NewMockRepository(ctrl),
		notifications: mock_notification.NewMockRepository(ctrl),
	}
	h := NewProfileHandler(m.users, m.courses, m.progress, m.achievements, m.activity, m.notifications, timeutil.FixedClock{T: fixedNow})
	return h, m
}

func TestProfileHandler_GetProfile(t *testing.T) {
	h, m := newProfile(t)
	userID := uuid.New()

	m.users.EXPECT().GetByID(gomock.Any(), userID).Return(&user.User{ID: userID, Name: "Aida", TotalPoints: 250}, nil)
	m.users.EXPECT().Stats(gomock.Any(), userID).Return(user.Stats{CompletedLessons: 3, AverageScore: 88}, nil)
	m.activity.EXPECT().List(gomock.Any(), userID, time.Time{}, ProfileActivityDays).
		Return([]activity.DailyActivity{{PointsEarned: 10}}, nil)
	m.notifications.EXPECT().ListUnread(gomock.Any(), userID, notification.UnreadLimit).Return(nil, nil)

	p, err := h.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Aida", p.User.Name)
	assert.Equal(t, 2, p.Level.Level)
	assert.Equal(t, 150, p.Level.Current)
	assert.Equal(t, 3, p.Stats.CompletedLessons)
	assert.Len(t, p.Activity, 1)
	assert.NotNil(t, p.Notifications)
}

func TestProfileHandler_GetProfileUnknownUser(t *testing.T) {
	h, m := newProfile(t)
	userID := uuid.New()

	m.users.EXPECT().GetByID(gomock.Any(), userID).Return(nil, shared.ErrUserNotFound)
	m.users.EXPECT().Stats(gomock.Any(), userID).Return(user.Stats{}, nil).AnyTimes()
	m.activity.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	m.notifications.EXPECT().ListUnread(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := h.GetProfile(context.Background(), userID)
	assert.True(t, shared.IsNotFound(err))
}

func TestProfileHandler_GetProgress(t *testing.T) {
	h, m := newProfile(t)
	userID := uuid.New()

	m.courses.EXPECT().Summaries(gomock.Any(), userID).Return(nil, nil)
	m.progress.EXPECT().RecentCompleted(gomock.Any(), userID, MaxRecentLimit, 0).Return(nil, nil)
	m.activity.EXPECT().List(gomock.Any(), userID, timeutil.DaysAgo(fixedNow, ProgressActivityDays), ProgressActivityDays).Return(nil, nil)
	m.progress.EXPECT().Stats(gomock.Any(), userID).Return(progress.Stats{TotalLessons: 4}, nil)

	out, err := h.GetProgress(context.Background(), userID, RecentQuery{Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.NotNil(t, out.Courses)
	assert.NotNil(t, out.Recent)
	assert.NotNil(t, out.DailyStats)
	assert.Equal(t, 4, out.Stats.TotalLessons)
}

func TestProfileHandler_GetAchievements(t *testing.T) {
	h, m := newProfile(t)
	userID := uuid.New()
	earnedAt := fixedNow

	m.achievements.EXPECT().ListWithStatus(gomock.Any(), userID).Return([]achievement.Status{
		{Achievement: achievement.Achievement{Type: achievement.FirstLesson, Points: 10}, Earned: true, EarnedAt: &earnedAt},
		{Achievement: achievement.Achievement{Type: achievement.FiveLessons, Points: 50}},
	}, nil)

	ov, err := h.GetAchievements(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, ov.TotalEarned)
	assert.Equal(t, 2, ov.Total)
	assert.Equal(t, 10, ov.TotalPoints)
}

func TestProfileHandler_GetActivity(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		since   time.Time
		wantErr bool
	}{
		{name: "default week", value: "", since: timeutil.DaysAgo(fixedNow, 7)},
		{name: "month", value: "month", since: timeutil.DaysAgo(fixedNow, 30)},
		{name: "year", value: "YEAR", since: timeutil.DaysAgo(fixedNow, 365)},
		{name: "invalid", value: "decade", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newProfile(t)
			userID := uuid.New()
			if !tt.wantErr {
				m.activity.EXPECT().List(gomock.Any(), userID, tt.since, 0).Return([]activity.DailyActivity{
					{LessonsCompleted: 1, PointsEarned: 20},
					{LessonsCompleted: 2, PointsEarned: 30},
				}, nil)
			}

			rep, err := h.GetActivity(context.Background(), userID, tt.value)
			if tt.wantErr {
				assert.True(t, shared.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, rep.Summary.LessonsCompleted)
			assert.Equal(t, 50, rep.Summary.PointsEarned)
		})
	}
}

func TestProfileHandler_ListEarnedError(t *testing.T) {
	h, m := newProfile(t)
	m.achievements.EXPECT().ListEarned(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	_, err := h.ListEarned(context.Background(), uuid.New())
	assert.Error(t, err)
}
