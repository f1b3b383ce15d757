// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
	"github.com/signlearn/signlearn-hub/pkg/logger"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Получает топ-N пользователей за период и позицию вызывающего.
// Выборка может браться из кеша; позиция всегда считается по хранилищу.
// Если закешированная выборка расходится с позицией вызывающего,
// выборка перечитывается из хранилища.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// Period - daily, weekly, monthly или all (пустая строка = all).
	Period string

	// Limit - количество записей (nil = 50, допустимо 1..100).
	Limit *int

	// UserID - вызывающий пользователь; nil для анонимного запроса.
	UserID *uuid.UUID
}

// GetLeaderboardHandler обрабатывает запросы на получение лидерборда.
type GetLeaderboardHandler struct {
	repo   leaderboard.Repository
	cache  leaderboard.Cache
	clock  timeutil.Clock
	logger *logger.Logger
}

// NewGetLeaderboardHandler создаёт новый обработчик запроса лидерборда.
// cache может быть nil.
func NewGetLeaderboardHandler(
	repo leaderboard.Repository,
	cache leaderboard.Cache,
	clock timeutil.Clock,
	log *logger.Logger,
) *GetLeaderboardHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{
		repo:   repo,
		cache:  cache,
		clock:  clock,
		logger: log.With(logger.Component("get_leaderboard")),
	}
}

// Handle выполняет запрос лидерборда.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*leaderboard.Board, error) {
	period, err := leaderboard.ParsePeriod(q.Period)
	if err != nil {
		return nil, err
	}
	limit, err := leaderboard.ValidateLimit(q.Limit)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	since := period.Since(now)

	board := &leaderboard.Board{
		Period:      period,
		GeneratedAt: now,
	}

	g, gctx := errgroup.WithContext(ctx)

	var cached bool
	g.Go(func() error {
		entries, hit, err := h.top(gctx, period, since, limit)
		if err != nil {
			return err
		}
		board.Entries, cached = entries, hit
		return nil
	})

	if q.UserID != nil {
		userID := *q.UserID
		g.Go(func() error {
			pos, err := h.repo.Position(gctx, since, userID)
			if err != nil {
				return fmt.Errorf("get_leaderboard: position: %w", err)
			}
			board.UserPosition = pos
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cached && q.UserID != nil && !positionAgrees(board.Entries, limit, *q.UserID, board.UserPosition) {
		h.logger.Debug("cached leaderboard is stale, reloading",
			logger.Period(period.String()),
			logger.UserID(q.UserID.String()),
		)
		entries, err := h.load(ctx, period, since, limit)
		if err != nil {
			return nil, err
		}
		board.Entries = entries
	}

	if board.Entries == nil {
		board.Entries = []leaderboard.Entry{}
	}
	return board, nil
}

// top читает выборку из кеша, при промахе - из хранилища.
// hit = true, если выборка взята из кеша. Ошибки кеша не прерывают запрос.
func (h *GetLeaderboardHandler) top(ctx context.Context, period leaderboard.Period, since *time.Time, limit int) (entries []leaderboard.Entry, hit bool, err error) {
	if h.cache != nil {
		entries, ok, err := h.cache.GetTop(ctx, period, limit)
		if err != nil {
			h.logger.Warn("leaderboard cache read failed", logger.Period(period.String()), logger.Err(err))
		} else if ok {
			return entries, true, nil
		}
	}

	entries, err = h.load(ctx, period, since, limit)
	return entries, false, err
}

// load читает выборку из хранилища и обновляет кеш.
func (h *GetLeaderboardHandler) load(ctx context.Context, period leaderboard.Period, since *time.Time, limit int) ([]leaderboard.Entry, error) {
	entries, err := h.repo.Top(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: top: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.SetTop(ctx, period, limit, entries); err != nil {
			h.logger.Warn("leaderboard cache write failed", logger.Period(period.String()), logger.Err(err))
		}
	}
	return entries, nil
}

// positionAgrees проверяет, что позиция pos согласуется с выборкой:
// пользователь из выборки имеет в ней тот же ранг, а отсутствующий в ней
// пользователь ранжирован не выше последней строки.
func positionAgrees(entries []leaderboard.Entry, limit int, userID uuid.UUID, pos *int) bool {
	for _, e := range entries {
		if e.UserID == userID {
			return pos != nil && *pos == e.Rank
		}
	}
	if pos == nil {
		return true
	}
	if len(entries) < limit {
		return false
	}
	return *pos >= entries[len(entries)-1].Rank
}
