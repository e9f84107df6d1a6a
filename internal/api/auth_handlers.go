package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new person",
		Description: "Creates a new directory person account.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Authenticates by email against both stores and returns an access token. Registry residents get a directory person on first login.",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-current-person",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current person",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentPerson)
}

// === DTOs ===

// RegisterRequest is the request body for person registration.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100" doc:"First name"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100" doc:"Last name"`
	Email     string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password  string `json:"password" validate:"required,min=8,max=128" doc:"Password"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password string `json:"password" validate:"required,max=1024" doc:"Password"`
}

// LoginInput wraps the login request with forwarding headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// PersonResponse contains person information in API responses.
type PersonResponse struct {
	ID         string    `json:"id" doc:"Directory person ID"`
	FirstName  string    `json:"first_name" doc:"First name"`
	LastName   string    `json:"last_name" doc:"Last name"`
	Email      string    `json:"email" doc:"Email address"`
	RegistryID int64     `json:"registry_id,omitempty" doc:"Registry resident ID when materialized from the registry"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// PersonOutput wraps a person response for Huma.
type PersonOutput struct {
	Body PersonResponse
}

// AuthResponse contains the access token and the authenticated person.
type AuthResponse struct {
	AccessToken string         `json:"access_token" doc:"PASETO access token"`
	TokenType   string         `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresAt   time.Time      `json:"expires_at" doc:"Token expiry"`
	Person      PersonResponse `json:"person" doc:"Authenticated person"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

func mapPersonResponse(p *domain.Person) PersonResponse {
	return PersonResponse{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		RegistryID: p.RegistryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*PersonOutput, error) {
	person, err := s.services.Person.Register(ctx, service.RegisterPersonRequest{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Email:     input.Body.Email,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &PersonOutput{Body: mapPersonResponse(person)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, extractIP(input.XForwardedFor, input.XRealIP), service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: AuthResponse{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   resp.ExpiresAt,
		Person:      mapPersonResponse(resp.Person),
	}}, nil
}

// CurrentPersonInput carries the auth header for /me.
type CurrentPersonInput struct {
	Authorization string `header:"Authorization"`
}

func (s *Server) handleGetCurrentPerson(ctx context.Context, input *CurrentPersonInput) (*PersonOutput, error) {
	personID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	person, err := s.services.Person.Get(ctx, personID)
	if err != nil {
		return nil, err
	}

	return &PersonOutput{Body: mapPersonResponse(person)}, nil
}
