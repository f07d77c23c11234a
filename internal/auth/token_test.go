package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiling/veiling-be/internal/models"
)

func testUser() models.User {
	return models.User{ID: 42, Email: "s@biz.nl", Profile: models.SellerProfile{}}
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "veiling-backend", time.Hour)

	token, expires, err := tm.Generate(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "s@biz.nl", claims.Email)
	assert.Equal(t, "s", claims.Username)
	assert.Equal(t, models.RoleSeller, claims.Role)
	assert.Equal(t, "veiling-backend", claims.Issuer)
}

func TestTokenManagerRejects(t *testing.T) {
	tm := NewTokenManager("secret", "veiling-backend", time.Hour)
	token, _, err := tm.Generate(testUser())
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", "veiling-backend", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewTokenManager("secret", "someone-else", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("secret", "veiling-backend", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		anon, _, err := tm.Generate(models.User{Email: "x@y.nl"})
		require.NoError(t, err)
		_, err = tm.Parse(anon)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
