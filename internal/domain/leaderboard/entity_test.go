package leaderboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodAll, false},
		{"daily", PeriodDaily, false},
		{"WEEKLY", PeriodWeekly, false},
		{" monthly ", PeriodMonthly, false},
		{"all", PeriodAll, false},
		{"yearly", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_Since(t *testing.T) {
	now := time.Date(2026, 6, 15, 13, 45, 0, 0, time.UTC)

	daily := PeriodDaily.Since(now)
	require.NotNil(t, daily)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), *daily)

	weekly := PeriodWeekly.Since(now)
	require.NotNil(t, weekly)
	assert.Equal(t, time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC), *weekly)

	monthly := PeriodMonthly.Since(now)
	require.NotNil(t, monthly)
	assert.Equal(t, time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC), *monthly)

	assert.Nil(t, PeriodAll.Since(now))
}

func TestValidateLimit(t *testing.T) {
	l, err := ValidateLimit(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, l)

	for _, ok := range []int{1, 100} {
		l, err = ValidateLimit(&ok)
		require.NoError(t, err)
		assert.Equal(t, ok, l)
	}

	for _, bad := range []int{-1, 0, 101} {
		_, err := ValidateLimit(&bad)
		assert.ErrorIs(t, err, shared.ErrInvalidLimit, "limit %d", bad)
	}
}

func TestOutranks(t *testing.T) {
	assert.True(t, Outranks(Standing{TotalScore: 200, LessonsCompleted: 2}, Standing{TotalScore: 150, LessonsCompleted: 5}))
	assert.True(t, Outranks(Standing{TotalScore: 200, LessonsCompleted: 3}, Standing{TotalScore: 200, LessonsCompleted: 2}))
	assert.False(t, Outranks(Standing{TotalScore: 200, LessonsCompleted: 2}, Standing{TotalScore: 200, LessonsCompleted: 2}))
	assert.False(t, Outranks(Standing{TotalScore: 100, LessonsCompleted: 9}, Standing{TotalScore: 101, LessonsCompleted: 1}))
}

func TestAssignRanks(t *testing.T) {
	entries := []Entry{
		{UserID: uuid.New(), Name: "Dana", TotalScore: 150, LessonsCompleted: 2},
		{UserID: uuid.New(), Name: "Arman", TotalScore: 300, LessonsCompleted: 3},
		{UserID: uuid.New(), Name: "Bota", TotalScore: 150, LessonsCompleted: 2},
		{UserID: uuid.New(), Name: "Chingiz", TotalScore: 150, LessonsCompleted: 4},
		{UserID: uuid.New(), Name: "Erlan", TotalScore: 90, LessonsCompleted: 1},
	}

	AssignRanks(entries)

	var names []string
	var ranks []int
	for _, e := range entries {
		names = append(names, e.Name)
		ranks = append(ranks, e.Rank)
	}
	assert.Equal(t, []string{"Arman", "Chingiz", "Bota", "Dana", "Erlan"}, names)
	assert.Equal(t, []int{1, 2, 3, 3, 5}, ranks)
}

func TestRankOf_AgreesWithAssignRanks(t *testing.T) {
	entries := []Entry{
		{UserID: uuid.New(), Name: "a", TotalScore: 300, LessonsCompleted: 3},
		{UserID: uuid.New(), Name: "b", TotalScore: 150, LessonsCompleted: 4},
		{UserID: uuid.New(), Name: "c", TotalScore: 150, LessonsCompleted: 2},
		{UserID: uuid.New(), Name: "d", TotalScore: 150, LessonsCompleted: 2},
		{UserID: uuid.New(), Name: "e", TotalScore: 10, LessonsCompleted: 1},
	}
	standings := make([]Standing, len(entries))
	for i, e := range entries {
		standings[i] = e.Standing()
	}

	AssignRanks(entries)
	for _, e := range entries {
		assert.Equal(t, e.Rank, RankOf(standings, e.Standing()), e.Name)
	}
}
