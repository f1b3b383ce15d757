package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	mock_activity "github.com/signlearn/signlearn-hub/internal/mocks/activity"
	mock_shared "github.com/signlearn/signlearn-hub/internal/mocks/shared"
	mock_user "github.com/signlearn/signlearn-hub/internal/mocks/user"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

func TestPointsLedger_Award(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		points    int
		delta     activity.Delta
		setup     func(u *mock_user.MockRepository, a *mock_activity.MockRepository, e *mock_shared.MockEventPublisher)
		wantTotal int
		wantUp    bool
		wantErr   bool
	}{
		{
			name:   "lesson completion inside a level",
			points: 10,
			delta:  activity.Delta{LessonsCompleted: 1},
			setup: func(u *mock_user.MockRepository, a *mock_activity.MockRepository, _ *mock_shared.MockEventPublisher) {
				u.EXPECT().AddPoints(gomock.Any(), userID, 10).Return(50, nil)
				a.EXPECT().Record(gomock.Any(), userID, fixedNow, activity.Delta{LessonsCompleted: 1, PointsEarned: 10}).Return(nil)
			},
			wantTotal: 50,
		},
		{
			name:   "crossing a threshold publishes level up",
			points: 10,
			delta:  activity.Delta{LessonsCompleted: 1},
			setup: func(u *mock_user.MockRepository, a *mock_activity.MockRepository, e *mock_shared.MockEventPublisher) {
				u.EXPECT().AddPoints(gomock.Any(), userID, 10).Return(105, nil)
				a.EXPECT().Record(gomock.Any(), userID, fixedNow, gomock.Any()).Return(nil)
				e.EXPECT().Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ev shared.Event) error {
						lu, ok := ev.(shared.LevelUpEvent)
						require.True(t, ok)
						assert.Equal(t, 1, lu.OldLevel)
						assert.Equal(t, 2, lu.NewLevel)
						assert.Equal(t, 105, lu.TotalPoints)
						return nil
					})
			},
			wantTotal: 105,
			wantUp:    true,
		},
		{
			name:   "activity failure is logged only",
			points: 25,
			setup: func(u *mock_user.MockRepository, a *mock_activity.MockRepository, _ *mock_shared.MockEventPublisher) {
				u.EXPECT().AddPoints(gomock.Any(), userID, 25).Return(25, nil)
				a.EXPECT().Record(gomock.Any(), userID, fixedNow, activity.Delta{PointsEarned: 25}).Return(errors.New("boom"))
			},
			wantTotal: 25,
		},
		{
			name:   "total failure is returned",
			points: 25,
			setup: func(u *mock_user.MockRepository, _ *mock_activity.MockRepository, _ *mock_shared.MockEventPublisher) {
				u.EXPECT().AddPoints(gomock.Any(), userID, 25).Return(0, shared.ErrUserNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mock_user.NewMockRepository(ctrl)
			act := mock_activity.NewMockRepository(ctrl)
			events := mock_shared.NewMockEventPublisher(ctrl)
			tt.setup(users, act, events)

			ledger := NewPointsLedger(users, act, events, timeutil.FixedClock{T: fixedNow}, logger.Nop())
			award, err := ledger.Award(context.Background(), userID, tt.points, tt.delta)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, shared.IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, award.TotalPoints)
			assert.Equal(t, tt.wantUp, award.LeveledUp())
		})
	}
}
