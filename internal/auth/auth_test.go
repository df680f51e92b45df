package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeys(t *testing.T) *Keys {
	t.Helper()
	k, err := NewKeys("test-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	return k
}

func TestTokenRoundTrip(t *testing.T) {
	k := newTestKeys(t)

	access, refresh, err := k.GenerateTokens(42, []string{RoleUser})
	require.NoError(t, err)
	require.NotEqual(t, access, refresh)

	claims, err := k.ValidateToken(access)
	require.NoError(t, err)

	id, err := IdentityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.True(t, id.HasRole(RoleUser))
	assert.False(t, id.HasRole(RoleAdmin))
}

func TestRefreshTokenRejectedForAccess(t *testing.T) {
	k := newTestKeys(t)
	_, refresh, err := k.GenerateTokens(7, nil)
	require.NoError(t, err)

	_, err = k.ValidateToken(refresh)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	other, err := NewKeys("other", time.Minute, time.Minute)
	require.NoError(t, err)
	access, _, err := other.GenerateTokens(1, nil)
	require.NoError(t, err)

	_, err = newTestKeys(t).ValidateToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	k, err := NewKeys("s", -time.Minute, time.Minute)
	require.NoError(t, err)
	access, _, err := k.GenerateTokens(1, nil)
	require.NoError(t, err)

	_, err = k.ValidateToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	assert.True(t, FromContext(context.Background()).Anonymous())

	ctx := NewContext(context.Background(), Identity{UserID: 5})
	assert.Equal(t, int64(5), FromContext(ctx).UserID)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
}
