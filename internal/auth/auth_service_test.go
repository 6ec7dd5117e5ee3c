package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epoch-io/epoch/internal/repository"
)

func newTestService() *AuthService {
	jwtManager := NewJWTManager("test-secret", 1*time.Hour, 24*time.Hour)
	return NewAuthService(repository.NewMemoryUserRepository(), jwtManager)
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Register creates user and returns tokens", func(t *testing.T) {
		svc := newTestService()

		resp, err := svc.Register(ctx, "new@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.NotZero(t, resp.User.ID)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
	})

	t.Run("Register rejects duplicate email", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Register(ctx, "dup@example.com", "password123")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "dup@example.com", "password456")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("Login succeeds with correct credentials", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Register(ctx, "login@example.com", "password123")
		require.NoError(t, err)

		resp, err := svc.Login(ctx, "login@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)

		claims, err := svc.jwtManager.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
	})

	t.Run("Login rejects wrong password", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Register(ctx, "login@example.com", "password123")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "login@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Login rejects unknown user", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("RefreshToken rotates the pair", func(t *testing.T) {
		svc := newTestService()

		registered, err := svc.Register(ctx, "refresh@example.com", "password123")
		require.NoError(t, err)

		resp, err := svc.RefreshToken(ctx, registered.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, registered.User.ID, resp.User.ID)
	})

	t.Run("RefreshToken rejects garbage", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.Error(t, err)
	})

	t.Run("CurrentUser resolves registered user", func(t *testing.T) {
		svc := newTestService()

		registered, err := svc.Register(ctx, "me@example.com", "password123")
		require.NoError(t, err)

		user, err := svc.CurrentUser(ctx, registered.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "me@example.com", user.Email)
	})

	t.Run("CurrentUser rejects unknown id", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.CurrentUser(ctx, 9999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
