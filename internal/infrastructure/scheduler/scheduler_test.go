package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signlearn/signlearn-hub/pkg/logger"
)

type fakeJob struct {
	name string
	runs atomic.Int32
	fn   func(ctx context.Context) error
}

func (j *fakeJob) Name() string        { return j.name }
func (j *fakeJob) Description() string { return "test job " + j.name }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.fn != nil {
		return j.fn(ctx)
	}
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	unlocked int
}

func (l *fakeLocker) TryLock(_ context.Context, resource, owner string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[resource]; ok {
		return false, nil
	}
	l.held[resource] = owner
	return true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, resource, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[resource] == owner {
		delete(l.held, resource)
		l.unlocked++
	}
	return nil
}

func newTestScheduler(locker Locker) *Scheduler {
	cfg := DefaultSchedulerConfig()
	cfg.Logger = logger.Nop()
	cfg.Locker = locker
	cfg.TickInterval = 10 * time.Millisecond
	return NewScheduler(cfg)
}

func TestScheduler_Register(t *testing.T) {
	s := newTestScheduler(nil)

	require.NoError(t, s.Register(&fakeJob{name: "a"}, NewIntervalSchedule(time.Minute)))

	err := s.Register(&fakeJob{name: "a"}, NewIntervalSchedule(time.Minute))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Minute)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&fakeJob{name: "b"}, nil), ErrNilSchedule)

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "@every 1m0s", jobs[0].Schedule)
	assert.True(t, jobs[0].Enabled)
}

func TestScheduler_RunNow(t *testing.T) {
	tests := []struct {
		name        string
		fn          func(ctx context.Context) error
		wantSuccess bool
		wantErrIs   error
	}{
		{name: "success", wantSuccess: true},
		{name: "failure", fn: func(context.Context) error { return errors.New("boom") }},
		{name: "panic is recovered", fn: func(context.Context) error { panic("bad") }, wantErrIs: ErrJobPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(nil)
			job := &fakeJob{name: "job", fn: tt.fn}
			require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

			res, err := s.RunNow(context.Background(), "job")
			require.NotNil(t, res)
			assert.Equal(t, tt.wantSuccess, res.Success)
			if tt.wantSuccess {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}

			assert.Equal(t, int32(1), job.runs.Load())
			assert.Len(t, s.GetHistory(0), 1)
		})
	}
}

func TestScheduler_RunNowUnknownJob(t *testing.T) {
	s := newTestScheduler(nil)
	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_SkipsWhenLockHeld(t *testing.T) {
	locker := &fakeLocker{held: map[string]string{"job:job": "other-worker"}}
	s := newTestScheduler(locker)
	job := &fakeJob{name: "job"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	res, err := s.RunNow(context.Background(), "job")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, int32(0), job.runs.Load())
}

func TestScheduler_ReleasesLockAfterRun(t *testing.T) {
	locker := &fakeLocker{}
	s := newTestScheduler(locker)
	job := &fakeJob{name: "job"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	_, err := s.RunNow(context.Background(), "job")
	require.NoError(t, err)

	assert.Equal(t, 1, locker.unlocked)
	assert.Empty(t, locker.held)
}

func TestScheduler_ErrorHook(t *testing.T) {
	s := newTestScheduler(nil)
	require.NoError(t, s.Register(&fakeJob{name: "job", fn: func(context.Context) error {
		return errors.New("boom")
	}}, NewIntervalSchedule(time.Hour)))

	var got string
	s.OnJobError(func(name string, err error) { got = name })

	_, _ = s.RunNow(context.Background(), "job")
	assert.Equal(t, "job", got)

	snap := s.GetMetrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalFailures)
}

func TestScheduler_StartRunsDueJobs(t *testing.T) {
	s := newTestScheduler(nil)
	job := &fakeJob{name: "tick"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(20*time.Millisecond)))

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestScheduler_DisabledJobDoesNotRun(t *testing.T) {
	s := newTestScheduler(nil)
	job := &fakeJob{name: "off"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Millisecond)))
	require.NoError(t, s.DisableJob("off"))

	s.dispatchDue(time.Now().Add(time.Hour))
	s.wg.Wait()

	assert.Equal(t, int32(0), job.runs.Load())
}
