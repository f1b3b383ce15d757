package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "signlearn:leaderboard:weekly:50", LeaderboardKey("weekly", 50))
	assert.Equal(t, "signlearn:lock:warm_leaderboard", LockKey("Warm_Leaderboard"))
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 10, opts.PoolSize)

	cfg.URL = "redis://:secret@cache:6380/2"
	opts, err = cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)

	cfg.URL = "http://not-redis"
	_, err = cfg.Options()
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	_, err := encode("", 1, time.Minute)
	assert.ErrorIs(t, err, ErrCacheKeyEmpty)

	_, err = encode("k", nil, time.Minute)
	assert.ErrorIs(t, err, ErrCacheNilValue)

	_, err = encode("k", 1, -time.Second)
	assert.ErrorIs(t, err, ErrCacheInvalidTTL)

	_, err = encode("k", make(chan int), time.Minute)
	assert.ErrorIs(t, err, ErrCacheSerialization)

	data, err := encode("k", map[string]int{"a": 1}, time.Minute)
	require.NoError(t, err)

	var out map[string]int
	require.NoError(t, decode(data, &out))
	assert.Equal(t, 1, out["a"])

	assert.ErrorIs(t, decode([]byte("{"), &out), ErrCacheSerialization)
}
