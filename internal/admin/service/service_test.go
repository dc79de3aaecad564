package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aakseva/internal/admin/store/revocation"
	"aakseva/internal/audit"
	"aakseva/internal/jwttoken"
	dErrors "aakseva/pkg/domain-errors"
)

const (
	testEmail    = "admin@aakseva.org"
	testName     = "Admin"
	testPassword = "s3cret-pass"
)

func newTestService(t *testing.T, creds Credentials) (*Service, *jwttoken.JWTService, *revocation.InMemoryList, *audit.InMemoryStore) {
	t.Helper()
	tokens := jwttoken.NewJWTService("test-signing-key", "aakseva", "aakseva-admin")
	list := revocation.NewInMemoryList()
	auditStore := audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(creds, tokens, time.Hour, list, audit.NewRecorder(auditStore, logger), nil, logger)
	return svc, tokens, list, auditStore
}

func plaintextCreds() Credentials {
	return Credentials{Email: testEmail, Name: testName, Password: testPassword}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		svc, tokens, _, auditStore := newTestService(t, plaintextCreds())

		token, admin, err := svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, &Identity{Email: testEmail, Name: testName, Role: "admin"}, admin)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, testEmail, claims.Email)
		assert.Equal(t, "admin", claims.Role)

		events, err := auditStore.List(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionAdminLoggedIn, events[0].Action)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc, _, _, auditStore := newTestService(t, plaintextCreds())

		_, _, err := svc.Login(ctx, testEmail, "wrong")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.GetCode(err))

		events, err := auditStore.List(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionAdminLoginFailed, events[0].Action)
	})

	t.Run("wrong email is unauthorized with the same message", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, plaintextCreds())

		_, _, emailErr := svc.Login(ctx, "someone@else.org", testPassword)
		_, _, passErr := svc.Login(ctx, testEmail, "wrong")
		require.Error(t, emailErr)
		require.Error(t, passErr)
		assert.Equal(t, emailErr.Error(), passErr.Error())
	})

	t.Run("bcrypt hash is preferred over plaintext", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		require.NoError(t, err)

		creds := plaintextCreds()
		creds.Password = "stale-plaintext"
		creds.PasswordHash = string(hash)
		svc, _, _, _ := newTestService(t, creds)

		_, _, err = svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, testEmail, "stale-plaintext")
		require.Error(t, err)
	})

	t.Run("empty configured password rejects everything", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, Credentials{Email: testEmail, Name: testName})

		_, _, err := svc.Login(ctx, testEmail, "")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.GetCode(err))
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the token jti", func(t *testing.T) {
		svc, tokens, list, _ := newTestService(t, plaintextCreds())

		token, _, err := svc.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, token))

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		revoked, err := list.IsRevoked(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("garbage token is a no-op", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, plaintextCreds())
		require.NoError(t, svc.Logout(ctx, "not-a-token"))
	})
}
