package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/server/auth"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*UserService, *repomanager.MemoryRepositoryManager) {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	return NewUserService(m, auth.NewIssuer("test-secret", time.Hour), bcrypt.MinCost, logging.Discard()), m
}

func TestUserService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService(t)

	for i, pw := range []string{"x", "correct horse battery staple", "пароль"} {
		email := fmt.Sprintf("Agent%d@Port.Example", i)

		token, user, err := s.Register(ctx, email, pw)
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, fmt.Sprintf("agent%d@port.example", i), user.Email)
		assert.NotEmpty(t, token)

		loginToken, _, err := s.Login(ctx, email, pw)
		require.NoError(t, err)

		claims, err := s.tokens.Verify(loginToken)
		require.NoError(t, err)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, models.RoleUser, claims.Role)
		assert.Equal(t, user.ID, claims.UserID)
	}
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService(t)

	_, _, err := s.Register(ctx, "agent@port.example", "one")
	require.NoError(t, err)

	_, _, err = s.Register(ctx, "AGENT@port.example", "two")
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUserService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService(t)

	tests := []struct {
		name     string
		email    string
		password string
		msg      string
	}{
		{"missing email", "", "pw", "Email and password are required"},
		{"missing password", "a@b.io", "", "Email and password are required"},
		{"bad email", "not-an-email", "pw", "Please provide a valid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(ctx, tt.email, tt.password)

			var verr *common.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.msg, verr.Message)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestUserService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService(t)

	_, _, err := s.Register(ctx, "agent@port.example", "secret")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "agent@port.example", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody@port.example", "secret")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	s, m := newUserService(t)

	token, user, err := s.Register(ctx, "agent@port.example", "secret")
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Authenticate(ctx, "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// the account disappears after the token was issued
	_, err = m.Users().DeleteAllExceptRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, token)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUserService_Cleanup(t *testing.T) {
	ctx := context.Background()
	s, m := newUserService(t)

	for i := 0; i < 2; i++ {
		_, err := s.createUser(ctx, fmt.Sprintf("admin%d@port.example", i), "pw", models.RoleAdmin)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, _, err := s.Register(ctx, fmt.Sprintf("user%d@port.example", i), "pw")
		require.NoError(t, err)
	}

	n, err := s.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for i := 0; i < 2; i++ {
		u, err := m.Users().GetByEmail(ctx, fmt.Sprintf("admin%d@port.example", i))
		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
	}
	for i := 0; i < 3; i++ {
		_, err := m.Users().GetByEmail(ctx, fmt.Sprintf("user%d@port.example", i))
		assert.ErrorIs(t, err, common.ErrorNotFound)
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s, m := newUserService(t)

	created, err := s.EnsureAdmin(ctx, "admin@shipagency.com", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = s.EnsureAdmin(ctx, "Admin@ShipAgency.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := m.Users().GetByEmail(ctx, "admin@shipagency.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	created, err = s.EnsureAdmin(ctx, "other@shipagency.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)
}
