package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestNextStreak(t *testing.T) {
	now := day(2026, 5, 10, 9)

	tests := []struct {
		name       string
		current    int
		lastActive *time.Time
		want       int
		continued  bool
		broken     bool
	}{
		{name: "first login", current: 0, lastActive: nil, want: 1},
		{name: "same day keeps streak", current: 4, lastActive: ptr(day(2026, 5, 10, 1)), want: 4},
		{name: "same day never below one", current: 0, lastActive: ptr(day(2026, 5, 10, 1)), want: 1},
		{name: "next day extends", current: 4, lastActive: ptr(day(2026, 5, 9, 23)), want: 5, continued: true},
		{name: "gap resets", current: 4, lastActive: ptr(day(2026, 5, 7, 12)), want: 1, broken: true},
		{name: "gap from zero is not a break", current: 0, lastActive: ptr(day(2026, 5, 1, 12)), want: 1},
		{name: "clock skew keeps streak", current: 3, lastActive: ptr(day(2026, 5, 11, 0)), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStreak(tt.current, tt.lastActive, now)
			assert.Equal(t, tt.want, got.Current)
			assert.Equal(t, tt.continued, got.Continued)
			assert.Equal(t, tt.broken, got.Broken)
			assert.Equal(t, day(2026, 5, 10, 0), got.LastActive)
		})
	}
}

func TestMaxStreak(t *testing.T) {
	assert.Equal(t, 7, MaxStreak(7, 3))
	assert.Equal(t, 8, MaxStreak(7, 8))
}

func TestParseSkillLevel(t *testing.T) {
	lvl, err := ParseSkillLevel("")
	require.NoError(t, err)
	assert.Equal(t, SkillBeginner, lvl)

	lvl, err = ParseSkillLevel(" Advanced ")
	require.NoError(t, err)
	assert.Equal(t, SkillAdvanced, lvl)

	_, err = ParseSkillLevel("expert")
	assert.ErrorIs(t, err, shared.ErrInvalidSkillLevel)
}

func TestProfileUpdate_Validate(t *testing.T) {
	assert.ErrorIs(t, ProfileUpdate{}.Validate(), shared.ErrNoProfileChanges)

	blank := "   "
	assert.True(t, shared.IsValidation(ProfileUpdate{Name: &blank}.Validate()))

	bad := SkillLevel("guru")
	assert.ErrorIs(t, ProfileUpdate{SkillLevel: &bad}.Validate(), shared.ErrInvalidSkillLevel)

	name := "Aigerim"
	assert.NoError(t, ProfileUpdate{Name: &name}.Validate())
	assert.NoError(t, ProfileUpdate{Preferences: map[string]any{"theme": "dark"}}.Validate())
}

func TestUser_Level(t *testing.T) {
	u := &User{TotalPoints: 250}
	assert.Equal(t, 2, u.Level())
	assert.Equal(t, 75, u.LevelProgress().Percent)
}

func ptr[T any](v T) *T { return &v }
