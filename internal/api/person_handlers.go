package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vecindario/vecindario-server/internal/service"
)

func (s *Server) registerPersonRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "resolve-person",
		Method:      http.MethodGet,
		Path:        "/api/v1/persons/resolve/{identifier}",
		Summary:     "Resolve a person identifier",
		Description: "Accepts a 24-hex directory ID, a base-10 registry ID, or an email, and reports which records it matches.",
		Tags:        []string{"Persons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolvePerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-person",
		Method:      http.MethodPost,
		Path:        "/api/v1/persons",
		Summary:     "Create a directory person",
		Tags:        []string{"Persons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-persons",
		Method:      http.MethodGet,
		Path:        "/api/v1/persons",
		Summary:     "List directory persons",
		Tags:        []string{"Persons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPersons)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-persons-combined",
		Method:      http.MethodGet,
		Path:        "/api/v1/persons/combined",
		Summary:     "List persons across both stores",
		Description: "Merges directory persons and registry residents. A materialized pair appears once, tagged 'both', with the resident's unit memberships attached.",
		Tags:        []string{"Persons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPersonsCombined)

	huma.Register(s.api, huma.Operation{
		OperationID: "materialize-person",
		Method:      http.MethodPost,
		Path:        "/api/v1/registry/residents/{id}/materialize",
		Summary:     "Materialize a directory counterpart",
		Description: "Ensures the registry resident has a directory person, creating one on first use. Idempotent.",
		Tags:        []string{"Persons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMaterializePerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-person",
		Method:      http.MethodGet,
		Path:        "/api/v1/persons/{id}",
		Summary:     "Get a directory person",
		Tags:        []string{"Persons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPerson)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-person",
		Method:      http.MethodPatch,
		Path:        "/api/v1/persons/{id}",
		Summary:     "Update a directory person",
		Tags:        []string{"Persons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePerson)
}

// === DTOs ===

// ResolveInput identifies a person by directory ID, registry ID, or email.
type ResolveInput struct {
	Identifier string `path:"identifier" doc:"Directory ID, registry ID, or email"`
}

// ResolutionResponse reports where an identifier resolved.
type ResolutionResponse struct {
	Kind     string            `json:"kind" doc:"Identifier kind (directory, registry, or email)"`
	Person   *PersonResponse   `json:"person,omitempty" doc:"Matching directory person, if any"`
	Resident *ResidentResponse `json:"resident,omitempty" doc:"Matching registry resident, if any"`
}

// ResolutionOutput wraps the resolution for Huma.
type ResolutionOutput struct {
	Body ResolutionResponse
}

// PersonIDInput identifies a person by directory ID.
type PersonIDInput struct {
	ID string `path:"id" doc:"Directory person ID"`
}

// PersonListOutput wraps a person list for Huma.
type PersonListOutput struct {
	Body []PersonResponse
}

// UpdatePersonInput wraps profile changes for Huma.
type UpdatePersonInput struct {
	ID   string `path:"id" doc:"Directory person ID"`
	Body struct {
		FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100" doc:"First name"`
		LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100" doc:"Last name"`
	}
}

// CreatePersonInput wraps a person creation request for Huma.
type CreatePersonInput struct {
	Body struct {
		FirstName string `json:"first_name" validate:"required,min=1,max=100" doc:"First name"`
		LastName  string `json:"last_name" validate:"required,min=1,max=100" doc:"Last name"`
		Email     string `json:"email" validate:"required,email" doc:"Email address"`
		Password  string `json:"password" validate:"required,min=8,max=128" doc:"Password (8-128 characters)"`
	}
}

// PersonViewResponse is one entry in the combined cross-store listing.
type PersonViewResponse struct {
	Origin      string                   `json:"origin" doc:"Record origin (directory, registry, or both)"`
	DirectoryID string                   `json:"directory_id,omitempty" doc:"Directory person ID, if any"`
	RegistryID  int64                    `json:"registry_id,omitempty" doc:"Registry resident ID, if any"`
	FirstName   string                   `json:"first_name" doc:"First name"`
	LastName    string                   `json:"last_name" doc:"Last name"`
	Email       string                   `json:"email" doc:"Email address"`
	Units       []UnitMembershipResponse `json:"units,omitempty" doc:"Unit memberships from the registry"`
}

// PersonViewListOutput wraps the combined listing for Huma.
type PersonViewListOutput struct {
	Body []PersonViewResponse
}

// === Handlers ===

func (s *Server) handleResolvePerson(ctx context.Context, input *ResolveInput) (*ResolutionOutput, error) {
	res, err := s.services.Identity.Resolve(ctx, input.Identifier)
	if err != nil {
		return nil, err
	}

	out := ResolutionResponse{Kind: string(res.Kind)}
	if res.Person != nil {
		p := mapPersonResponse(res.Person)
		out.Person = &p
	}
	if res.Resident != nil {
		r := mapResidentResponse(res.Resident)
		out.Resident = &r
	}
	return &ResolutionOutput{Body: out}, nil
}

func (s *Server) handleCreatePerson(ctx context.Context, input *CreatePersonInput) (*PersonOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

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

func (s *Server) handleListPersonsCombined(ctx context.Context, _ *struct{}) (*PersonViewListOutput, error) {
	views, err := s.services.Identity.ListCombined(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PersonViewResponse, 0, len(views))
	for _, v := range views {
		view := PersonViewResponse{
			Origin:      v.Origin,
			DirectoryID: v.DirectoryID,
			RegistryID:  v.RegistryID,
			FirstName:   v.FirstName,
			LastName:    v.LastName,
			Email:       v.Email,
		}
		for _, u := range v.Units {
			view.Units = append(view.Units, mapUnitMembershipResponse(u))
		}
		out = append(out, view)
	}
	return &PersonViewListOutput{Body: out}, nil
}

func (s *Server) handleMaterializePerson(ctx context.Context, input *ResidentIDInput) (*PersonOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	person, err := s.services.Identity.EnsureCounterpart(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PersonOutput{Body: mapPersonResponse(person)}, nil
}

func (s *Server) handleListPersons(ctx context.Context, _ *struct{}) (*PersonListOutput, error) {
	persons, err := s.services.Person.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PersonResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, mapPersonResponse(p))
	}
	return &PersonListOutput{Body: out}, nil
}

func (s *Server) handleGetPerson(ctx context.Context, input *PersonIDInput) (*PersonOutput, error) {
	person, err := s.services.Person.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PersonOutput{Body: mapPersonResponse(person)}, nil
}

func (s *Server) handleUpdatePerson(ctx context.Context, input *UpdatePersonInput) (*PersonOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	person, err := s.services.Person.Update(ctx, input.ID, service.UpdatePersonRequest{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
	})
	if err != nil {
		return nil, err
	}
	return &PersonOutput{Body: mapPersonResponse(person)}, nil
}
