package bootstrap

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/config"
	"github.com/signlearn/signlearn-hub/internal/application/command"
	"github.com/signlearn/signlearn-hub/internal/application/eventhandler"
	"github.com/signlearn/signlearn-hub/internal/application/query"
	"github.com/signlearn/signlearn-hub/internal/application/saga"
	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/auth"
	recognizer "github.com/signlearn/signlearn-hub/internal/infrastructure/external/recognition"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/external/storage"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/messaging"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/postgres"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/signlearn/signlearn-hub/internal/interface/http"
	"github.com/signlearn/signlearn-hub/internal/interface/http/handlers"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTAINER
// ══════════════════════════════════════════════════════════════════════════════

// Repositories groups the PostgreSQL repositories.
type Repositories struct {
	Users         *postgres.UserRepository
	Courses       *postgres.CourseRepository
	Progress      *postgres.ProgressRepository
	Achievements  *postgres.AchievementRepository
	Activity      *postgres.ActivityRepository
	Notifications *postgres.NotificationRepository
	Leaderboard   *postgres.LeaderboardRepository
	Dictionary    *postgres.DictionaryRepository
	Recognition   *postgres.RecognitionRepository
}

// NewRepositories creates every repository on conn.
func NewRepositories(conn *postgres.Connection) Repositories {
	return Repositories{
		Users:         postgres.NewUserRepository(conn),
		Courses:       postgres.NewCourseRepository(conn),
		Progress:      postgres.NewProgressRepository(conn),
		Achievements:  postgres.NewAchievementRepository(conn),
		Activity:      postgres.NewActivityRepository(conn),
		Notifications: postgres.NewNotificationRepository(conn),
		Leaderboard:   postgres.NewLeaderboardRepository(conn),
		Dictionary:    postgres.NewDictionaryRepository(conn),
		Recognition:   postgres.NewRecognitionRepository(conn),
	}
}

// Container holds the wired API process.
type Container struct {
	Config *config.Config
	Logger *logger.Logger
	Clock  timeutil.Clock

	DB       *postgres.Connection
	Cache    *redis.Cache
	EventBus *messaging.InMemoryEventBus
	Repos    Repositories

	// LeaderboardCache is nil when Redis or the cache flag is off.
	LeaderboardCache leaderboard.Cache

	Tokens *auth.TokenManager
	Health *handlers.CompositeHealthChecker

	HTTP httpserver.Dependencies
}

// NewContainer connects to the stores and wires the application.
// Close releases what it opened.
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	timeutil.SetLocation(cfg.App.Location)

	c := &Container{
		Config: cfg,
		Logger: log,
		Clock:  timeutil.SystemClock{},
	}

	db, err := OpenDatabase(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	c.DB = db
	c.Repos = NewRepositories(db)

	c.Cache = OpenCache(ctx, cfg, log)
	if c.Cache != nil && cfg.Features.IsEnabled(config.FeatureLeaderboardCache, nil) {
		c.LeaderboardCache = redis.NewLeaderboardCache(c.Cache, cfg.Redis.LeaderboardTTL)
	}

	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	c.EventBus = messaging.NewInMemoryEventBus(busCfg)

	if err := c.wire(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire() error {
	cfg, log, repos := c.Config, c.Logger, c.Repos

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return err
	}
	c.Tokens = tokens
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	avatars, err := storage.New(storage.Config{
		CloudName: cfg.Storage.CloudName,
		APIKey:    cfg.Storage.APIKey,
		APISecret: cfg.Storage.APISecret,
		Folder:    cfg.Storage.Folder,
	}, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	local := recognizer.NewStaticRecognizer()
	var remote recognition.Recognizer
	if cfg.Recognition.BaseURL != "" {
		rc := recognizer.DefaultClientConfig(cfg.Recognition.BaseURL)
		rc.APIKey = cfg.Recognition.APIKey
		if cfg.Recognition.Timeout > 0 {
			rc.Timeout = cfg.Recognition.Timeout
		}
		rc.Logger = log
		remote = recognizer.NewClient(rc, local)
	}

	// Sagas
	ledger := saga.NewPointsLedger(repos.Users, repos.Activity, c.EventBus, c.Clock, log)
	achievements := saga.NewAchievementFlowSaga(
		repos.Progress, repos.Achievements, ledger, c.EventBus, c.Clock, log,
		saga.DefaultAchievementFlowConfig(),
	)
	onboarding := saga.NewOnboardingSaga(repos.Users, hasher, tokens, c.EventBus, c.Clock, log)

	// Event handlers
	err = eventhandler.Register(c.EventBus, eventhandler.Handlers{
		UserRegistered: eventhandler.NewOnUserRegisteredHandler(
			repos.Activity, repos.Notifications, c.Clock, c.userGate(config.FeatureNotifyWelcome), log),
		AchievementUnlocked: eventhandler.NewOnAchievementUnlockedHandler(
			repos.Notifications, c.LeaderboardCache, c.userGate(config.FeatureNotifyAchievement), log),
		LevelUp: eventhandler.NewOnLevelUpHandler(
			repos.Notifications, c.userGate(config.FeatureNotifyLevelUp), log),
		ProgressRecorded: eventhandler.NewOnProgressRecordedHandler(c.LeaderboardCache, log),
	})
	if err != nil {
		return fmt.Errorf("event handlers: %w", err)
	}

	c.Health = handlers.NewCompositeHealthChecker(cfg.App.Version)
	c.Health.AddCheck("postgres", handlers.NewPingCheck(c.DB))
	if c.Cache != nil {
		c.Health.AddOptionalCheck("redis", handlers.NewPingCheck(c.Cache))
	}

	c.HTTP = httpserver.Dependencies{
		Tokens: tokens,

		Register:       onboarding,
		Login:          command.NewLoginUserHandler(repos.Users, hasher, tokens, c.EventBus, c.Clock, log),
		UpdateProfile:  command.NewUpdateProfileHandler(repos.Users, log),
		UploadAvatar:   command.NewUploadAvatarHandler(repos.Users, avatars, log),
		RecordProgress: command.NewRecordProgressHandler(repos.Courses, repos.Progress, ledger, achievements, c.EventBus, log),
		RecordAttempt:  command.NewRecordAttemptHandler(repos.Recognition, log),
		MarkRead:       command.NewMarkNotificationsReadHandler(repos.Notifications),

		Profile: query.NewProfileHandler(
			repos.Users, repos.Courses, repos.Progress, repos.Achievements,
			repos.Activity, repos.Notifications, c.Clock,
		),
		Catalog:     query.NewCatalogHandler(repos.Courses, repos.Progress, log),
		Leaderboard: query.NewGetLeaderboardHandler(repos.Leaderboard, c.LeaderboardCache, c.Clock, log),
		Dictionary:  query.NewDictionaryHandler(repos.Dictionary),
		Recognition: query.NewRecognitionHandler(repos.Recognition, remote, local, c.remoteGate(), log),

		HealthChecker: c.Health,
		Logger:        log,
	}
	return nil
}

// userGate evaluates a feature flag per user.
func (c *Container) userGate(feature string) eventhandler.Gate {
	flags := c.Config.Features
	return func(userID uuid.UUID) bool {
		return flags.IsEnabled(feature, &config.FeatureContext{UserID: userID})
	}
}

func (c *Container) remoteGate() query.RemoteGate {
	flags := c.Config.Features
	return func(userID *uuid.UUID) bool {
		fc := &config.FeatureContext{}
		if userID != nil {
			fc.UserID = *userID
		}
		return flags.IsEnabled(config.FeatureRemoteRecognition, fc)
	}
}

// HTTPConfig maps application settings to the server configuration.
func HTTPConfig(cfg *config.Config) httpserver.Config {
	return httpserver.Config{
		Host:           cfg.HTTP.Host,
		Port:           cfg.HTTP.Port,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimit:      cfg.HTTP.RateLimit,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	}
}

// Close drains the event bus and closes the stores.
func (c *Container) Close() {
	if c.EventBus != nil {
		if err := c.EventBus.Close(); err != nil {
			c.Logger.Warn("failed to close event bus", logger.Err(err))
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("failed to close redis", logger.Err(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
