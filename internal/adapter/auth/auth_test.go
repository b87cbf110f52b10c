package auth_test

import (
	"testing"
	"time"

	"github.com/niksmo/shop-pos/internal/adapter/auth"
	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	a, err := auth.New(auth.Config{
		PasswordHash: hash,
		TokenSecret:  "test-secret",
		TokenTTL:     time.Hour,
		Clock:        clock,
	})
	require.NoError(t, err)

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := a.Login(t.Context(), "guess")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("LoginAndVerify", func(t *testing.T) {
		token, err := a.Login(t.Context(), "s3cret")
		require.NoError(t, err)
		assert.NoError(t, a.Verify(token))
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := a.Login(t.Context(), "s3cret")
		require.NoError(t, err)

		later, err := auth.New(auth.Config{
			PasswordHash: hash,
			TokenSecret:  "test-secret",
			Clock:        func() time.Time { return now.Add(2 * time.Hour) },
		})
		require.NoError(t, err)
		require.ErrorIs(t, later.Verify(token), domain.ErrUnauthorized)
	})

	t.Run("ForeignSecret", func(t *testing.T) {
		other, err := auth.New(auth.Config{
			PasswordHash: hash,
			TokenSecret:  "other-secret",
			Clock:        clock,
		})
		require.NoError(t, err)
		token, err := other.Login(t.Context(), "s3cret")
		require.NoError(t, err)

		require.ErrorIs(t, a.Verify(token), domain.ErrUnauthorized)
	})

	t.Run("Garbage", func(t *testing.T) {
		require.ErrorIs(t, a.Verify(""), domain.ErrUnauthorized)
		require.ErrorIs(t, a.Verify("not.a.token"), domain.ErrUnauthorized)
	})
}

func TestNew(t *testing.T) {
	_, err := auth.New(auth.Config{})
	require.Error(t, err)

	_, err = auth.New(auth.Config{PasswordHash: "plain", TokenSecret: "x"})
	require.Error(t, err)

	a, err := auth.New(auth.Config{TokenSecret: "x"})
	require.NoError(t, err)
	_, err = a.Login(t.Context(), "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
