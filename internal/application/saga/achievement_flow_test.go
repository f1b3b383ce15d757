package saga

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
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	mock_achievement "github.com/signlearn/signlearn-hub/internal/mocks/achievement"
	mock_activity "github.com/signlearn/signlearn-hub/internal/mocks/activity"
	mock_progress "github.com/signlearn/signlearn-hub/internal/mocks/progress"
	mock_shared "github.com/signlearn/signlearn-hub/internal/mocks/shared"
	mock_user "github.com/signlearn/signlearn-hub/internal/mocks/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

type flowMocks struct {
	progress     *mock_progress.MockRepository
	achievements *mock_achievement.MockRepository
	users        *mock_user.MockRepository
	activity     *mock_activity.MockRepository
	events       *mock_shared.MockEventPublisher
}

func newFlow(t *testing.T) (*AchievementFlowSaga, flowMocks) {
	ctrl := gomock.NewController(t)
	m := flowMocks{
		progress:     mock_progress.NewMockRepository(ctrl),
		achievements: mock_achievement.NewMockRepository(ctrl),
		users:        mock_user.NewMockRepository(ctrl),
		activity:     mock_activity.NewMockRepository(ctrl),
		events:       mock_shared.NewMockEventPublisher(ctrl),
	}
	clock := timeutil.FixedClock{T: fixedNow}
	ledger := NewPointsLedger(m.users, m.activity, m.events, clock, logger.Nop())
	flow := NewAchievementFlowSaga(m.progress, m.achievements, ledger, m.events, clock, logger.Nop(), DefaultAchievementFlowConfig())
	return flow, m
}

func catalogEntry(t achievement.Type, points int) *achievement.Achievement {
	return &achievement.Achievement{ID: int64(len(t)), Type: t, Title: string(t), Icon: "🏅", Points: points}
}

func TestAchievementFlow_FirstLessonGranted(t *testing.T) {
	flow, m := newFlow(t)
	userID := uuid.New()

	m.progress.EXPECT().Stats(gomock.Any(), userID).
		Return(progress.Stats{TotalLessons: 1, CompletedLessons: 1, AverageScore: 70}, nil)
	m.achievements.EXPECT().Grant(gomock.Any(), userID, achievement.FirstLesson).
		Return(catalogEntry(achievement.FirstLesson, 10), true, nil)
	m.users.EXPECT().AddPoints(gomock.Any(), userID, 10).Return(20, nil)
	m.activity.EXPECT().Record(gomock.Any(), userID, fixedNow, activity.Delta{PointsEarned: 10}).Return(nil)
	m.events.EXPECT().Publish(gomock.Any(), gomock.AssignableToTypeOf(shared.AchievementUnlockedEvent{})).Return(nil)

	result, err := flow.Execute(context.Background(), AchievementCheckInput{UserID: userID})
	require.NoError(t, err)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, achievement.FirstLesson, result.NewAchievements[0].Type)
	assert.Equal(t, 10, result.PointsAwarded)
	require.NotNil(t, result.Award)
	assert.Equal(t, 20, result.Award.TotalPoints)
	assert.False(t, result.Award.LeveledUp())
}

func TestAchievementFlow_AlreadyHeldIsNotGrantedAgain(t *testing.T) {
	flow, m := newFlow(t)
	userID := uuid.New()

	m.progress.EXPECT().Stats(gomock.Any(), userID).
		Return(progress.Stats{TotalLessons: 5, CompletedLessons: 5, AverageScore: 60}, nil)
	m.achievements.EXPECT().Grant(gomock.Any(), userID, achievement.FirstLesson).
		Return(catalogEntry(achievement.FirstLesson, 10), false, nil)
	m.achievements.EXPECT().Grant(gomock.Any(), userID, achievement.FiveLessons).
		Return(catalogEntry(achievement.FiveLessons, 50), true, nil)
	m.users.EXPECT().AddPoints(gomock.Any(), userID, 50).Return(120, nil)
	m.activity.EXPECT().Record(gomock.Any(), userID, fixedNow, activity.Delta{PointsEarned: 50}).Return(nil)

	var published []shared.Event
	m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e shared.Event) error {
			published = append(published, e)
			return nil
		}).Times(2)

	result, err := flow.Execute(context.Background(), AchievementCheckInput{UserID: userID})
	require.NoError(t, err)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, achievement.FiveLessons, result.NewAchievements[0].Type)

	// 70 → 120 points crosses the 100 threshold
	require.Len(t, published, 2)
	assert.Equal(t, shared.EventLevelUp, published[0].EventType())
	assert.Equal(t, shared.EventAchievementUnlocked, published[1].EventType())
}

func TestAchievementFlow_NothingQualifies(t *testing.T) {
	flow, m := newFlow(t)
	userID := uuid.New()

	m.progress.EXPECT().Stats(gomock.Any(), userID).
		Return(progress.Stats{TotalLessons: 2, CompletedLessons: 0, AverageScore: 40}, nil)

	result, err := flow.Execute(context.Background(), AchievementCheckInput{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, result.NewAchievements)
	assert.False(t, result.HasNewAchievements())
	assert.Nil(t, result.Award)
}

func TestAchievementFlow_Errors(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name     string
		userID   uuid.UUID
		setup    func(m flowMocks, userID uuid.UUID)
		wantStep AchievementFlowStep
	}{
		{
			name:     "missing user id",
			userID:   uuid.Nil,
			setup:    func(flowMocks, uuid.UUID) {},
			wantStep: StepLoadStats,
		},
		{
			name:   "stats failure",
			userID: uuid.New(),
			setup: func(m flowMocks, userID uuid.UUID) {
				m.progress.EXPECT().Stats(gomock.Any(), userID).Return(progress.Stats{}, dbErr)
			},
			wantStep: StepLoadStats,
		},
		{
			name:   "grant failure",
			userID: uuid.New(),
			setup: func(m flowMocks, userID uuid.UUID) {
				m.progress.EXPECT().Stats(gomock.Any(), userID).
					Return(progress.Stats{TotalLessons: 1, CompletedLessons: 1}, nil)
				m.achievements.EXPECT().Grant(gomock.Any(), userID, achievement.FirstLesson).Return(nil, false, dbErr)
			},
			wantStep: StepGrantAchievements,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, m := newFlow(t)
			tt.setup(m, tt.userID)

			_, err := flow.Execute(context.Background(), AchievementCheckInput{UserID: tt.userID})
			require.Error(t, err)

			var flowErr *AchievementFlowError
			require.ErrorAs(t, err, &flowErr)
			assert.Equal(t, tt.wantStep, flowErr.Step)
		})
	}
}

func TestAchievementFlow_EvaluateSwallowsErrors(t *testing.T) {
	flow, m := newFlow(t)
	userID := uuid.New()

	m.progress.EXPECT().Stats(gomock.Any(), userID).Return(progress.Stats{}, errors.New("timeout"))

	got := flow.Evaluate(context.Background(), userID, 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAchievementFlow_PointsFailureStillReturnsGrant(t *testing.T) {
	flow, m := newFlow(t)
	userID := uuid.New()

	m.progress.EXPECT().Stats(gomock.Any(), userID).
		Return(progress.Stats{TotalLessons: 1, CompletedLessons: 1, AverageScore: 90}, nil)
	m.achievements.EXPECT().Grant(gomock.Any(), userID, achievement.FirstLesson).
		Return(catalogEntry(achievement.FirstLesson, 10), true, nil)
	m.achievements.EXPECT().Grant(gomock.Any(), userID, achievement.HighScore).
		Return(catalogEntry(achievement.HighScore, 25), true, nil)
	m.users.EXPECT().AddPoints(gomock.Any(), userID, 35).Return(0, errors.New("deadlock"))
	m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	got := flow.Evaluate(context.Background(), userID, 1)
	require.Len(t, got, 2)
	assert.Equal(t, achievement.FirstLesson, got[0].Type)
	assert.Equal(t, achievement.HighScore, got[1].Type)
}
