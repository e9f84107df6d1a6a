package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vecindario/vecindario-server/internal/auth"
	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/id"
	"github.com/vecindario/vecindario-server/internal/normalize"
	"github.com/vecindario/vecindario-server/internal/store"
)

// PersonService manages directory persons.
type PersonService struct {
	directory *store.Store
	logger    *slog.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(directory *store.Store, logger *slog.Logger) *PersonService {
	return &PersonService{directory: directory, logger: logger}
}

// RegisterPersonRequest registers a new directory person.
type RegisterPersonRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// UpdatePersonRequest updates a directory person's profile.
type UpdatePersonRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
}

// Register creates a directory person with a hashed password. The email
// must not belong to an existing person.
func (s *PersonService) Register(ctx context.Context, req RegisterPersonRequest) (*domain.Person, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	email := normalize.Email(req.Email)
	if _, err := s.directory.Persons.GetByIndex(ctx, "email", email); err == nil {
		return nil, domainerrors.AlreadyExists("a person with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	person := &domain.Person{
		FirstName:    normalize.Name(req.FirstName),
		LastName:     normalize.Name(req.LastName),
		Email:        email,
		PasswordHash: hash,
	}
	person.ID, err = id.NewObjectID()
	if err != nil {
		return nil, fmt.Errorf("generate person ID: %w", err)
	}
	person.InitTimestamps()

	if err := s.directory.Persons.Create(ctx, person.ID, person); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a person with this email already exists")
		}
		return nil, fmt.Errorf("create person: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("person registered", "person_id", person.ID)
	}
	return person, nil
}

// Get retrieves a directory person by ID.
func (s *PersonService) Get(ctx context.Context, personID string) (*domain.Person, error) {
	person, err := s.directory.Persons.Get(ctx, personID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("person %s not found", personID)
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return person, nil
}

// GetByEmail retrieves a directory person by normalized email.
func (s *PersonService) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	person, err := s.directory.Persons.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("person not found")
		}
		return nil, fmt.Errorf("get person by email: %w", err)
	}
	return person, nil
}

// Update applies profile changes to a person. Email and password hash
// are not editable here.
func (s *PersonService) Update(ctx context.Context, personID string, req UpdatePersonRequest) (*domain.Person, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	person, err := s.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		person.FirstName = normalize.Name(*req.FirstName)
	}
	if req.LastName != nil {
		person.LastName = normalize.Name(*req.LastName)
	}
	person.Touch()

	if err := s.directory.Persons.Update(ctx, person.ID, person); err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return person, nil
}

// List returns all directory persons.
func (s *PersonService) List(ctx context.Context) ([]*domain.Person, error) {
	var persons []*domain.Person
	for p, err := range s.directory.Persons.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list persons: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, nil
}
