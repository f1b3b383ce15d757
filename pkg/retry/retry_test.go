package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fastOpts(extra ...Option) []Option {
	return append([]Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond), WithJitter(0)}, extra...)
}

func TestDo_RetriesRetryableUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errBoom)
		}
		return nil
	}, fastOpts(WithMaxAttempts(5))...)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPlainErrorByDefault(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errBoom
	}, fastOpts(WithMaxAttempts(5))...)

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, calls)
}

func TestDo_PermanentStopsEvenWithRetryIf(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(errBoom)
	}, fastOpts(WithMaxAttempts(5), WithRetryIf(func(error) bool { return true }))...)

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttemptsAndUnwraps(t *testing.T) {
	calls := 0
	var retried []int
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Retryable(errBoom)
	}, fastOpts(WithMaxAttempts(3), WithOnRetry(func(attempt int, err error, d time.Duration) {
		retried = append(retried, attempt)
	}))...)

	require.Error(t, err)
	assert.Equal(t, errBoom, err)
	assert.Equal(t, 3, calls)
	assert.NotEmpty(t, retried)
}

func TestDoWithData(t *testing.T) {
	calls := 0
	v, err := DoWithData(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, Retryable(errBoom)
		}
		return 42, nil
	}, fastOpts()...)

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDelay_CappedAtMax(t *testing.T) {
	r := New(WithInitialDelay(time.Second), WithMaxDelay(3*time.Second), WithJitter(0))
	assert.Equal(t, time.Second, r.delay(0))
	assert.Equal(t, 2*time.Second, r.delay(1))
	assert.Equal(t, 3*time.Second, r.delay(5))
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(Permanent(errBoom)))
	assert.False(t, IsPermanent(errBoom))
	assert.False(t, IsPermanent(nil))
	assert.True(t, IsRetryable(Retryable(errBoom)))
	assert.Nil(t, Retryable(nil))
}
