package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCompositeHealthChecker(t *testing.T) {
	tests := []struct {
		name        string
		required    error
		optional    error
		wantHealthy bool
		wantReady   bool
		wantMessage string
	}{
		{name: "all pass", wantHealthy: true, wantReady: true, wantMessage: "all checks passed"},
		{name: "optional fails", optional: errors.New("refused"), wantReady: true, wantMessage: "failing checks: redis"},
		{name: "required fails", required: errors.New("refused"), wantMessage: "failing checks: postgres"},
		{name: "both fail", required: errors.New("a"), optional: errors.New("b"), wantMessage: "failing checks: postgres, redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompositeHealthChecker("1.2.0")
			c.AddCheck("postgres", NewPingCheck(pingerFunc(func(context.Context) error { return tt.required })))
			c.AddOptionalCheck("redis", func(context.Context) error { return tt.optional })

			status := c.Check(context.Background())
			assert.Equal(t, tt.wantHealthy, status.Healthy)
			assert.Equal(t, tt.wantReady, status.Ready)
			assert.Equal(t, tt.wantMessage, status.Message)
			assert.Equal(t, "1.2.0", status.Version)
			require.Len(t, status.Checks, 2)
			assert.True(t, status.Checks["redis"].Optional)
		})
	}
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	c := NewCompositeHealthChecker("")
	c.SetTimeout(20 * time.Millisecond)
	c.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Check(context.Background())
	assert.False(t, status.Ready)
	assert.Contains(t, status.Checks["slow"].Message, "deadline exceeded")
}

func TestCompositeHealthChecker_Empty(t *testing.T) {
	status := NewCompositeHealthChecker("").Check(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, "no health checks registered", status.Message)
}

func TestNoopHealthChecker(t *testing.T) {
	status := NewNoopHealthChecker().Check(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
}
