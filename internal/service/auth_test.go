package service_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecindario/vecindario-server/internal/auth"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/service"
)

func newAuthEnv(t *testing.T) (*testEnv, *service.AuthService) {
	t.Helper()
	env := newTestEnv(t)
	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewAuthService(env.identity, tokens, logger)
	t.Cleanup(svc.Close)
	return env, svc
}

func TestLogin_DirectoryPerson(t *testing.T) {
	env, authSvc := newAuthEnv(t)
	ctx := context.Background()

	person, err := env.persons.Register(ctx, service.RegisterPersonRequest{
		FirstName: "Raquel",
		LastName:  "Soler",
		Email:     "raquel@example.com",
		Password:  "hunter2hunter2",
	})
	require.NoError(t, err)

	resp, err := authSvc.Login(ctx, "test-client", service.LoginRequest{
		Email:    "raquel@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, person.ID, resp.Person.ID)

	claims, err := authSvc.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, person.ID, claims.PersonID)
}

func TestLogin_MaterializesRegistryResident(t *testing.T) {
	env, authSvc := newAuthEnv(t)
	ctx := context.Background()

	resident := env.seedResident(t, "Oscar", "Prieto", "oscar@example.com", "hunter2hunter2")

	resp, err := authSvc.Login(ctx, "test-client", service.LoginRequest{
		Email:    "oscar@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, resident.ID, resp.Person.RegistryID)
}

func TestLogin_WrongPassword(t *testing.T) {
	env, authSvc := newAuthEnv(t)
	ctx := context.Background()

	env.seedResident(t, "Clara", "Fuentes", "clara@example.com", "hunter2hunter2")

	_, err := authSvc.Login(ctx, "test-client", service.LoginRequest{
		Email:    "clara@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, authSvc := newAuthEnv(t)

	_, err := authSvc.Login(context.Background(), "test-client", service.LoginRequest{
		Email:    "ghost@example.com",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, authSvc := newAuthEnv(t)

	_, err := authSvc.Verify("v4.local.not-a-real-token")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}
