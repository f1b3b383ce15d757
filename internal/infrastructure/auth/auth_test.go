package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

const testSecret = "test-secret-at-least-16"

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager(testSecret, 0, "signlearn")
	require.NoError(t, err)

	id := Identity{UserID: uuid.New(), Email: "aida@example.com", Name: "Aida", SkillLevel: "beginner"}
	token, expiresAt, err := m.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), expiresAt, 5*time.Second)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, *got)
}

func TestTokenManager_Parse(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour, "signlearn")
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret-value", time.Hour, "signlearn")
	require.NoError(t, err)

	expired, err := NewTokenManager(testSecret, time.Hour, "signlearn")
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	valid := func(tm *TokenManager) string {
		tok, _, err := tm.Issue(Identity{UserID: uuid.New(), Email: "a@b.c"})
		require.NoError(t, err)
		return tok
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: uuid.NewString()})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid", token: valid(m)},
		{name: "missing", token: "", wantErr: shared.ErrTokenMissing},
		{name: "garbage", token: "not.a.token", wantErr: shared.ErrTokenInvalid},
		{name: "wrong secret", token: valid(other), wantErr: shared.ErrTokenInvalid},
		{name: "expired", token: valid(expired), wantErr: shared.ErrTokenInvalid},
		{name: "alg none", token: noneToken, wantErr: shared.ErrTokenInvalid},
		{name: "subject is not a uuid", token: badSubject, wantErr: shared.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewTokenManager_ShortSecret(t *testing.T) {
	_, err := NewTokenManager("short", time.Hour, "")
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := h.Verify(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("not-a-hash", "x")
	assert.Error(t, err)
}
