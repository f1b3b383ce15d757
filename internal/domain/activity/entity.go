// Package activity contains the per-day activity rollup of a user:
// lessons completed, signs learned, practice minutes and points earned.
package activity

import (
	"strings"
	"time"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// DailyActivity is one user's rollup for one calendar day.
type DailyActivity struct {
	Date             time.Time `json:"activity_date"`
	LessonsCompleted int       `json:"lessons_completed"`
	SignsLearned     int       `json:"signs_learned"`
	PracticeMinutes  int       `json:"practice_minutes"`
	PointsEarned     int       `json:"points_earned"`
}

// Delta is added to the rollup of a day. Missing rows are created.
type Delta struct {
	LessonsCompleted int
	SignsLearned     int
	PracticeMinutes  int
	PointsEarned     int
}

// IsZero reports whether the delta changes nothing.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// WelcomePoints are granted on the registration day.
const WelcomePoints = 10

// Range selects how far back an activity listing goes.
type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange parses a range; empty means week.
func ParseRange(s string) (Range, error) {
	r := Range(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeMonth, RangeYear:
		return r, nil
	default:
		return "", shared.NewDomainError("activity", "ParseRange", shared.ErrInvalidInput, "period must be week, month or year")
	}
}

// Since returns the first day included in the range.
func (r Range) Since(now time.Time) time.Time {
	switch r {
	case RangeMonth:
		return timeutil.DaysAgo(now, 30)
	case RangeYear:
		return timeutil.DaysAgo(now, 365)
	default:
		return timeutil.DaysAgo(now, 7)
	}
}

// Summary totals a list of daily rows.
type Summary struct {
	Days             int `json:"days"`
	LessonsCompleted int `json:"lessons_completed"`
	SignsLearned     int `json:"signs_learned"`
	PracticeMinutes  int `json:"practice_minutes"`
	PointsEarned     int `json:"points_earned"`
}

// Summarize adds up the given days.
func Summarize(days []DailyActivity) Summary {
	s := Summary{Days: len(days)}
	for _, d := range days {
		s.LessonsCompleted += d.LessonsCompleted
		s.SignsLearned += d.SignsLearned
		s.PracticeMinutes += d.PracticeMinutes
		s.PointsEarned += d.PointsEarned
	}
	return s
}
