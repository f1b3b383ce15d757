package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
	mock_leaderboard "github.com/signlearn/signlearn-hub/internal/mocks/leaderboard"
	mock_user "github.com/signlearn/signlearn-hub/internal/mocks/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, timeutil.Location())

func TestWarmLeaderboardJob_Run(t *testing.T) {
	entries := []leaderboard.Entry{{Rank: 1, UserID: uuid.New(), Name: "Aida", TotalScore: 180, LessonsCompleted: 2}}

	tests := []struct {
		name    string
		setup   func(repo *mock_leaderboard.MockRepository, cache *mock_leaderboard.MockCache)
		wantErr bool
	}{
		{
			name: "every period is cached",
			setup: func(repo *mock_leaderboard.MockRepository, cache *mock_leaderboard.MockCache) {
				repo.EXPECT().Top(gomock.Any(), gomock.Any(), leaderboard.DefaultLimit).
					Return(entries, nil).Times(len(leaderboard.Periods))
				for _, p := range leaderboard.Periods {
					cache.EXPECT().SetTop(gomock.Any(), p, leaderboard.DefaultLimit, entries).Return(nil)
				}
			},
		},
		{
			name: "one failing period does not stop the others",
			setup: func(repo *mock_leaderboard.MockRepository, cache *mock_leaderboard.MockCache) {
				gomock.InOrder(
					repo.EXPECT().Top(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down")),
					repo.EXPECT().Top(gomock.Any(), gomock.Any(), gomock.Any()).Return(entries, nil).Times(3),
				)
				cache.EXPECT().SetTop(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_leaderboard.NewMockRepository(ctrl)
			cache := mock_leaderboard.NewMockCache(ctrl)
			tt.setup(repo, cache)

			job := NewWarmLeaderboardJob(repo, cache, timeutil.FixedClock{T: fixedNow}, 0, logger.Nop())
			err := job.Run(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWarmLeaderboardJob_UsesPeriodWindows(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_leaderboard.NewMockRepository(ctrl)
	cache := mock_leaderboard.NewMockCache(ctrl)

	var windows []*time.Time
	repo.EXPECT().Top(gomock.Any(), gomock.Any(), 25).
		DoAndReturn(func(_ context.Context, since *time.Time, _ int) ([]leaderboard.Entry, error) {
			windows = append(windows, since)
			return []leaderboard.Entry{}, nil
		}).Times(4)
	cache.EXPECT().SetTop(gomock.Any(), gomock.Any(), 25, gomock.Any()).Return(nil).Times(4)

	job := NewWarmLeaderboardJob(repo, cache, timeutil.FixedClock{T: fixedNow}, 25, logger.Nop())
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, windows, 4)
	require.NotNil(t, windows[0])
	assert.Equal(t, timeutil.StartOfDay(fixedNow), *windows[0])
	assert.Equal(t, timeutil.DaysAgo(fixedNow, 7), *windows[1])
	assert.Equal(t, timeutil.DaysAgo(fixedNow, 30), *windows[2])
	assert.Nil(t, windows[3])
}

func TestResetStreaksJob_Run(t *testing.T) {
	tests := []struct {
		name    string
		reset   int64
		err     error
		wantErr bool
	}{
		{name: "resets broken streaks", reset: 4},
		{name: "nothing to reset", reset: 0},
		{name: "repository failure", err: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mock_user.NewMockRepository(ctrl)
			users.EXPECT().ResetBrokenStreaks(gomock.Any(), timeutil.DaysAgo(fixedNow, 1)).Return(tt.reset, tt.err)

			job := NewResetStreaksJob(users, timeutil.FixedClock{T: fixedNow}, logger.Nop())
			err := job.Run(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
