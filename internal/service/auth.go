package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vecindario/vecindario-server/internal/auth"
	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/ratelimit"
)

// AuthService authenticates persons against both stores. A resident who
// has never signed in here is materialized as a directory person on
// first login, so the password hash carried from the registry keeps
// working.
type AuthService struct {
	identity *IdentityService
	tokens   *auth.TokenService
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
}

// NewAuthService creates a new auth service. Login attempts are rate
// limited per client key.
func NewAuthService(identity *IdentityService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		identity: identity,
		tokens:   tokens,
		limiter:  ratelimit.New(1, 5),
		logger:   logger,
	}
}

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful login.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Person      *domain.Person `json:"person"`
}

// Login verifies the credentials and issues an access token. The email
// is looked up in both stores; registry-only residents get a directory
// person created for them before the password check.
func (s *AuthService) Login(ctx context.Context, clientKey string, req LoginRequest) (*AuthResponse, error) {
	if !s.limiter.Allow(clientKey) {
		return nil, domainerrors.Validation("too many login attempts, try again later")
	}
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	person, err := s.identity.ResolvePerson(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(person.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		if s.logger != nil {
			s.logger.Warn("failed login attempt", "person_id", person.ID)
		}
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(person)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("person logged in", "person_id", person.ID)
	}
	return &AuthResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokens.AccessTokenDuration()),
		Person:      person,
	}, nil
}

// Verify validates an access token and returns its claims.
func (s *AuthService) Verify(tokenString string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

// Close releases the login rate limiter.
func (s *AuthService) Close() {
	s.limiter.Stop()
}
