package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{name: "every ten minutes", expr: EveryTenMinutes},
		{name: "daily", expr: DailyAfterMidnight},
		{name: "list and range", expr: "0,30 9-17 * * 1-5"},
		{name: "range with step", expr: "0-30/10 * * * *"},
		{name: "too few fields", expr: "* * * *", wantErr: true},
		{name: "minute out of range", expr: "60 * * * *", wantErr: true},
		{name: "zero step", expr: "*/0 * * * *", wantErr: true},
		{name: "garbage", expr: "a * * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce, err := ParseCronExpression(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expr, ce.String())
		})
	}
}

func TestCronExpression_Next(t *testing.T) {
	base := time.Date(2025, 3, 10, 23, 58, 30, 0, time.UTC) // Monday

	tests := []struct {
		expr string
		want time.Time
	}{
		{expr: DailyAfterMidnight, want: time.Date(2025, 3, 11, 0, 5, 0, 0, time.UTC)},
		{expr: EveryTenMinutes, want: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
		{expr: "59 23 * * *", want: time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)},
		{expr: "0 0 * * 0", want: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseCronExpression(tt.expr).Next(base))
		})
	}
}

func TestCronExpression_NextIsStrictlyAfter(t *testing.T) {
	at := time.Date(2025, 3, 11, 0, 5, 0, 0, time.UTC)
	next := MustParseCronExpression(DailyAfterMidnight).Next(at)
	assert.Equal(t, at.Add(24*time.Hour), next)
}
