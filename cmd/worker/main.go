// Command signlearn-worker runs the SignLearn Hub background jobs.
//
// Jobs:
//   - warm_leaderboard refreshes the cached leaderboard snapshots;
//   - reset_streaks zeroes streaks of learners who skipped a day.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/signlearn/signlearn-hub/config"
	"github.com/signlearn/signlearn-hub/internal/bootstrap"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/postgres"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/redis"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/scheduler"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/scheduler/jobs"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "signlearn-worker",
		Short:         "SignLearn Hub background jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run-now <job>",
		Short: "Run a single job once and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), args[0])
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// WORKER
// ══════════════════════════════════════════════════════════════════════════════

type worker struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *postgres.Connection
	cache     *redis.Cache
	scheduler *scheduler.Scheduler
}

func newWorker(ctx context.Context) (*worker, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load() > %w", err)
	}
	timeutil.SetLocation(cfg.App.Location)

	log := bootstrap.NewLogger(cfg).With(logger.Component("worker"))

	db, err := bootstrap.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.OpenDatabase() > %w", err)
	}

	w := &worker{cfg: cfg, log: log, db: db, cache: bootstrap.OpenCache(ctx, cfg, log)}
	if err := w.setupScheduler(); err != nil {
		w.close()
		return nil, err
	}
	return w, nil
}

func (w *worker) setupScheduler() error {
	sc := scheduler.DefaultSchedulerConfig()
	sc.Logger = w.log
	sc.Timezone = w.cfg.App.Location
	sc.TickInterval = w.cfg.Scheduler.TickInterval
	sc.LockTTL = w.cfg.Scheduler.LockTTL
	sc.EnableMetrics = true
	if w.cache != nil {
		sc.Locker = w.cache
	}
	w.scheduler = scheduler.NewScheduler(sc)

	w.scheduler.OnJobError(func(jobName string, err error) {
		w.log.Error("job failed", logger.String("job", jobName), logger.Err(err))
	})

	clock := timeutil.SystemClock{}

	if w.cache != nil && w.cfg.Features.IsEnabled(config.FeatureLeaderboardCache, nil) {
		cache := redis.NewLeaderboardCache(w.cache, w.cfg.Redis.LeaderboardTTL)
		job := jobs.NewWarmLeaderboardJob(
			postgres.NewLeaderboardRepository(w.db), cache, clock,
			w.cfg.Scheduler.LeaderboardLimit, w.log,
		)
		if err := w.scheduler.Register(job, scheduler.NewIntervalSchedule(w.cfg.Scheduler.WarmLeaderboardInterval)); err != nil {
			return err
		}
	} else {
		w.log.Info("leaderboard cache unavailable, warm_leaderboard not scheduled")
	}

	cron, err := scheduler.ParseCronExpression(w.cfg.Scheduler.ResetStreaksCron)
	if err != nil {
		return fmt.Errorf("reset_streaks schedule: %w", err)
	}
	return w.scheduler.Register(jobs.NewResetStreaksJob(postgres.NewUserRepository(w.db), clock, w.log), cron)
}

func (w *worker) close() {
	if w.cache != nil {
		if err := w.cache.Close(); err != nil {
			w.log.Warn("failed to close redis", logger.Err(err))
		}
	}
	w.db.Close()
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func run(ctx context.Context) error {
	w, err := newWorker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = w.log.Sync() }()

	app := bootstrap.New()
	app.AddShutdownHook(func(context.Context) error {
		w.close()
		return nil
	})

	if !w.cfg.Scheduler.Enabled {
		w.log.Warn("scheduler disabled, worker idle until shutdown")
	} else {
		app.AddShutdownHook(func(context.Context) error {
			return w.scheduler.Stop()
		})
	}

	return app.Run(ctx, func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), w.cfg.App.ShutdownTimeout)
	}, func(ctx context.Context) error {
		if w.cfg.Scheduler.Enabled {
			if err := w.scheduler.Start(ctx); err != nil {
				return err
			}
			for _, job := range w.scheduler.ListJobs() {
				w.log.Info("job scheduled",
					logger.String("job", job.Name),
					logger.Time("next_run", job.NextRun),
				)
			}
		}
		<-ctx.Done()
		return nil
	})
}

func runOnce(ctx context.Context, name string) error {
	w, err := newWorker(ctx)
	if err != nil {
		return err
	}
	defer w.close()

	started := time.Now()
	result, err := w.scheduler.RunNow(ctx, name)
	elapsed := time.Since(started).Round(time.Millisecond)
	switch {
	case result == nil:
		return err
	case err != nil:
		color.Red("%s failed after %s: %v", name, elapsed, err)
		return err
	case result.Skipped:
		color.Yellow("%s skipped: another worker holds the lock", name)
	default:
		color.Green("%s finished in %s", name, elapsed)
	}
	return nil
}
