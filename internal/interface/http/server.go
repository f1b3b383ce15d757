// Package http implements the REST API of SignLearn Hub.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/signlearn/signlearn-hub/internal/application/command"
	"github.com/signlearn/signlearn-hub/internal/application/query"
	"github.com/signlearn/signlearn-hub/internal/application/saga"
	"github.com/signlearn/signlearn-hub/internal/interface/http/handlers"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// RequestTimeout bounds every request context.
	RequestTimeout time.Duration

	// AllowedOrigins - allowed origins for CORS; "*" allows any.
	AllowedOrigins []string

	// RateLimit - requests per second per IP (0 = disabled).
	RateLimit      float64
	RateLimitBurst int
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Port:           3001,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		RequestTimeout: 20 * time.Second,
		AllowedOrigins: []string{"*"},
		RateLimit:      20,
		RateLimitBurst: 40,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains all dependencies required by HTTP handlers.
type Dependencies struct {
	Tokens TokenParser

	// Commands (CQRS Write Side)
	Register       *saga.OnboardingSaga
	Login          *command.LoginUserHandler
	UpdateProfile  *command.UpdateProfileHandler
	UploadAvatar   *command.UploadAvatarHandler
	RecordProgress *command.RecordProgressHandler
	RecordAttempt  *command.RecordAttemptHandler
	MarkRead       *command.MarkNotificationsReadHandler

	// Queries (CQRS Read Side)
	Profile     *query.ProfileHandler
	Catalog     *query.CatalogHandler
	Leaderboard *query.GetLeaderboardHandler
	Dictionary  *query.DictionaryHandler
	Recognition *query.RecognitionHandler

	HealthChecker handlers.HealthChecker

	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	router     *mux.Router
	handler    http.Handler
	httpServer *http.Server
	validator  *requestValidator
	limiter    *ipLimiter
	logger     *logger.Logger

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultConfig().RequestTimeout
	}

	s := &Server{
		config:    config,
		deps:      deps,
		router:    mux.NewRouter(),
		validator: newRequestValidator(),
		logger:    deps.Logger,
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	s.logger = s.logger.With(logger.Component("http"))

	if s.deps.HealthChecker == nil {
		s.deps.HealthChecker = handlers.NewNoopHealthChecker()
	}
	if config.RateLimit > 0 {
		s.limiter = newIPLimiter(config.RateLimit, config.RateLimitBurst)
	}

	s.setupRoutes()
	s.handler = s.buildMiddlewareChain(s.router)

	s.httpServer = &http.Server{
		Addr:              config.Address(),
		Handler:           s.handler,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusNotFound, "not_found", "route not found", r.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", r.Method)
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status
	// ─────────────────────────────────────────────────────────────────────────
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// ─────────────────────────────────────────────────────────────────────────
	// Auth
	// ─────────────────────────────────────────────────────────────────────────
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.Handle("/auth/verify", s.authed(s.handleVerify)).Methods(http.MethodGet)
	api.Handle("/auth/me", s.authed(s.handleGetProfile)).Methods(http.MethodGet)
	api.Handle("/auth/me", s.authed(s.handleUpdateProfile)).Methods(http.MethodPut)
	api.Handle("/auth/progress", s.authed(s.handleGetProfileProgress)).Methods(http.MethodGet)
	api.Handle("/auth/achievements", s.authed(s.handleGetAchievements)).Methods(http.MethodGet)

	// ─────────────────────────────────────────────────────────────────────────
	// Profile
	// ─────────────────────────────────────────────────────────────────────────
	api.Handle("/profile", s.authed(s.handleGetProfile)).Methods(http.MethodGet)
	api.Handle("/profile", s.authed(s.handleUpdateProfile)).Methods(http.MethodPut)
	api.Handle("/profile/avatar", s.authed(s.handleUploadAvatar)).Methods(http.MethodPost)
	api.Handle("/profile/progress", s.authed(s.handleGetProfileProgress)).Methods(http.MethodGet)
	api.Handle("/profile/achievements", s.authed(s.handleGetAchievements)).Methods(http.MethodGet)
	api.Handle("/profile/activity", s.authed(s.handleGetActivity)).Methods(http.MethodGet)
	api.Handle("/profile/notifications/read", s.authed(s.handleMarkNotificationsRead)).Methods(http.MethodPost)

	// legacy user endpoints
	api.Handle("/users/profile", s.authed(s.handleVerify)).Methods(http.MethodGet)
	api.Handle("/users/profile", s.authed(s.handleUpdateProfile)).Methods(http.MethodPut)
	api.Handle("/users/stats", s.authed(s.handleGetStats)).Methods(http.MethodGet)

	// ─────────────────────────────────────────────────────────────────────────
	// Catalog
	// ─────────────────────────────────────────────────────────────────────────
	api.Handle("/courses", s.optional(s.handleListCourses)).Methods(http.MethodGet)
	api.Handle("/courses/{id}", s.optional(s.handleGetCourse)).Methods(http.MethodGet)
	api.Handle("/lessons", s.optional(s.handleListLessons)).Methods(http.MethodGet)
	api.Handle("/lessons/{id}", s.optional(s.handleGetLesson)).Methods(http.MethodGet)

	// ─────────────────────────────────────────────────────────────────────────
	// Progress & Leaderboard
	// ─────────────────────────────────────────────────────────────────────────
	api.Handle("/progress", s.authed(s.handleRecordProgress)).Methods(http.MethodPost)
	api.Handle("/progress", s.authed(s.handleListProgress)).Methods(http.MethodGet)
	api.Handle("/progress/lesson/{lessonId}", s.authed(s.handleGetLessonProgress)).Methods(http.MethodGet)
	api.Handle("/progress/achievements", s.authed(s.handleListEarned)).Methods(http.MethodGet)
	api.Handle("/leaderboard", s.optional(s.handleGetLeaderboard)).Methods(http.MethodGet)

	// ─────────────────────────────────────────────────────────────────────────
	// Recognition & Dictionary
	// ─────────────────────────────────────────────────────────────────────────
	api.Handle("/recognition/attempt", s.optional(s.handleRecordAttempt)).Methods(http.MethodPost)
	api.Handle("/recognition/feedback", s.optional(s.handleFeedback)).Methods(http.MethodPost)
	api.Handle("/recognition/history", s.authed(s.handleRecognitionHistory)).Methods(http.MethodGet)

	api.HandleFunc("/dictionary", s.handleListSigns).Methods(http.MethodGet)
	api.HandleFunc("/dictionary/search/{query}", s.handleSearchSigns).Methods(http.MethodGet)
	api.HandleFunc("/dictionary/{id}", s.handleGetSign).Methods(http.MethodGet)
}

// authed requires a valid bearer token; personal responses are not cached.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return s.requireAuth(handlers.NoCacheMiddleware(h))
}

func (s *Server) optional(h http.HandlerFunc) http.Handler {
	return s.optionalAuth(h)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware.
// Order, outermost first: request id, recovery, logging, security headers,
// CORS, rate limit, timeout.
func (s *Server) buildMiddlewareChain(router http.Handler) http.Handler {
	chain := []handlers.MiddlewareFunc{
		s.requestIDMiddleware,
		s.recoveryMiddleware,
		s.loggingMiddleware,
		handlers.SecurityHeadersMiddleware,
		s.corsMiddleware,
	}
	if s.limiter != nil {
		chain = append(chain, s.rateLimitMiddleware)
	}
	chain = append(chain, s.timeoutMiddleware)

	return handlers.ChainHandler(router, chain...)
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}
