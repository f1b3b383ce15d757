package redis

import (
	"context"
	"errors"
	"time"

	"github.com/signlearn/signlearn-hub/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache implements leaderboard.Cache.
//
// Listings are stored whole, one key per (period, limit). The caller's
// position is never cached: it is always read from the same query the
// listing is built from, so a stale listing can lag but never disagree
// with a freshly computed rank for long.
type LeaderboardCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewLeaderboardCache creates a LeaderboardCache. ttl <= 0 uses TTLLeaderboardCache.
func NewLeaderboardCache(cache *Cache, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = TTLLeaderboardCache
	}
	return &LeaderboardCache{cache: cache, ttl: ttl}
}

// GetTop returns a cached listing; ok is false on a miss.
func (l *LeaderboardCache) GetTop(ctx context.Context, period leaderboard.Period, limit int) ([]leaderboard.Entry, bool, error) {
	var entries []leaderboard.Entry
	err := l.cache.Get(ctx, LeaderboardKey(period.String(), limit), &entries)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return entries, true, nil
}

// SetTop stores a listing.
func (l *LeaderboardCache) SetTop(ctx context.Context, period leaderboard.Period, limit int, entries []leaderboard.Entry) error {
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return l.cache.Set(ctx, LeaderboardKey(period.String(), limit), entries, l.ttl)
}

// Invalidate drops every cached listing.
func (l *LeaderboardCache) Invalidate(ctx context.Context) error {
	return l.cache.DeleteByPattern(ctx, PrefixLeaderboard+"*")
}
