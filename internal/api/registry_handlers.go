package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/service"
)

func (s *Server) registerRegistryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "create-resident",
		Method:      http.MethodPost,
		Path:        "/api/v1/registry/residents",
		Summary:     "Create a registry resident",
		Tags:        []string{"Registry"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateResident)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-residents",
		Method:      http.MethodGet,
		Path:        "/api/v1/registry/residents",
		Summary:     "List registry residents",
		Tags:        []string{"Registry"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListResidents)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-resident",
		Method:      http.MethodGet,
		Path:        "/api/v1/registry/residents/{id}",
		Summary:     "Get a registry resident",
		Tags:        []string{"Registry"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetResident)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-registry-association",
		Method:      http.MethodPost,
		Path:        "/api/v1/registry/associations",
		Summary:     "Create a registry association",
		Tags:        []string{"Registry"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRegistryAssociation)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-registry-associations",
		Method:      http.MethodGet,
		Path:        "/api/v1/registry/associations",
		Summary:     "List registry associations",
		Tags:        []string{"Registry"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRegistryAssociations)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-unit",
		Method:      http.MethodPost,
		Path:        "/api/v1/registry/associations/{id}/units",
		Summary:     "Create a unit",
		Tags:        []string{"Registry"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateUnit)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-units",
		Method:      http.MethodGet,
		Path:        "/api/v1/registry/associations/{id}/units",
		Summary:     "List units of an association",
		Tags:        []string{"Registry"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUnits)
}

// === DTOs ===

// ResidentResponse contains a registry resident.
type ResidentResponse struct {
	ID        int64     `json:"id" doc:"Resident ID"`
	FirstName string    `json:"first_name" doc:"First name"`
	LastName  string    `json:"last_name" doc:"Last name"`
	Email     string    `json:"email" doc:"Email address"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ResidentOutput wraps a resident for Huma.
type ResidentOutput struct {
	Body ResidentResponse
}

// ResidentListOutput wraps a resident list for Huma.
type ResidentListOutput struct {
	Body []ResidentResponse
}

// CreateResidentInput wraps the resident request for Huma.
type CreateResidentInput struct {
	Body struct {
		FirstName string `json:"first_name" validate:"required,min=1,max=100" doc:"First name"`
		LastName  string `json:"last_name" validate:"required,min=1,max=100" doc:"Last name"`
		Email     string `json:"email" validate:"required,email,max=254" doc:"Email address"`
		Password  string `json:"password" validate:"required,min=8,max=128" doc:"Password"`
	}
}

// ResidentIDInput identifies a resident by registry ID.
type ResidentIDInput struct {
	ID int64 `path:"id" doc:"Resident ID"`
}

// RegistryAssociationResponse contains a registry association.
type RegistryAssociationResponse struct {
	ID        int64     `json:"id" doc:"Association ID"`
	Name      string    `json:"name" doc:"Association name"`
	Address   string    `json:"address,omitempty" doc:"Street address"`
	City      string    `json:"city,omitempty" doc:"City"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// RegistryAssociationOutput wraps a registry association for Huma.
type RegistryAssociationOutput struct {
	Body RegistryAssociationResponse
}

// RegistryAssociationListOutput wraps a registry association list for Huma.
type RegistryAssociationListOutput struct {
	Body []RegistryAssociationResponse
}

// CreateRegistryAssociationInput wraps the association request for Huma.
type CreateRegistryAssociationInput struct {
	Body struct {
		Name    string `json:"name" validate:"required,min=1,max=200" doc:"Association name"`
		Address string `json:"address,omitempty" validate:"max=300" doc:"Street address"`
		City    string `json:"city,omitempty" validate:"max=100" doc:"City"`
	}
}

// RegistryAssociationIDInput identifies a registry association by ID.
type RegistryAssociationIDInput struct {
	ID int64 `path:"id" doc:"Association ID"`
}

// UnitResponse contains a unit.
type UnitResponse struct {
	ID            int64     `json:"id" doc:"Unit ID"`
	AssociationID int64     `json:"association_id" doc:"Owning association ID"`
	Number        string    `json:"number" doc:"Unit number"`
	Floor         string    `json:"floor,omitempty" doc:"Floor"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// UnitOutput wraps a unit for Huma.
type UnitOutput struct {
	Body UnitResponse
}

// UnitListOutput wraps a unit list for Huma.
type UnitListOutput struct {
	Body []UnitResponse
}

// CreateUnitInput wraps the unit request for Huma.
type CreateUnitInput struct {
	ID   int64 `path:"id" doc:"Association ID"`
	Body struct {
		Number string `json:"number" validate:"required,min=1,max=50" doc:"Unit number"`
		Floor  string `json:"floor,omitempty" validate:"max=20" doc:"Floor"`
	}
}

func mapResidentResponse(r *domain.Resident) ResidentResponse {
	return ResidentResponse{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func mapRegistryAssociationResponse(a *domain.RegistryAssociation) RegistryAssociationResponse {
	return RegistryAssociationResponse{
		ID:        a.ID,
		Name:      a.Name,
		Address:   a.Address,
		City:      a.City,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func mapUnitResponse(u *domain.Unit) UnitResponse {
	return UnitResponse{
		ID:            u.ID,
		AssociationID: u.AssociationID,
		Number:        u.Number,
		Floor:         u.Floor,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateResident(ctx context.Context, input *CreateResidentInput) (*ResidentOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	resident, err := s.services.Registry.CreateResident(ctx, service.CreateResidentRequest{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Email:     input.Body.Email,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &ResidentOutput{Body: mapResidentResponse(resident)}, nil
}

func (s *Server) handleListResidents(ctx context.Context, _ *struct{}) (*ResidentListOutput, error) {
	residents, err := s.services.Registry.ListResidents(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ResidentResponse, 0, len(residents))
	for _, r := range residents {
		out = append(out, mapResidentResponse(r))
	}
	return &ResidentListOutput{Body: out}, nil
}

func (s *Server) handleGetResident(ctx context.Context, input *ResidentIDInput) (*ResidentOutput, error) {
	resident, err := s.services.Registry.GetResident(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ResidentOutput{Body: mapResidentResponse(resident)}, nil
}

func (s *Server) handleCreateRegistryAssociation(ctx context.Context, input *CreateRegistryAssociationInput) (*RegistryAssociationOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	assoc, err := s.services.Registry.CreateAssociation(ctx, service.CreateAssociationRequest{
		Name:    input.Body.Name,
		Address: input.Body.Address,
		City:    input.Body.City,
	})
	if err != nil {
		return nil, err
	}
	return &RegistryAssociationOutput{Body: mapRegistryAssociationResponse(assoc)}, nil
}

func (s *Server) handleListRegistryAssociations(ctx context.Context, _ *struct{}) (*RegistryAssociationListOutput, error) {
	assocs, err := s.services.Registry.ListAssociations(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RegistryAssociationResponse, 0, len(assocs))
	for _, a := range assocs {
		out = append(out, mapRegistryAssociationResponse(a))
	}
	return &RegistryAssociationListOutput{Body: out}, nil
}

func (s *Server) handleCreateUnit(ctx context.Context, input *CreateUnitInput) (*UnitOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	unit, err := s.services.Registry.CreateUnit(ctx, service.CreateUnitRequest{
		AssociationID: input.ID,
		Number:        input.Body.Number,
		Floor:         input.Body.Floor,
	})
	if err != nil {
		return nil, err
	}
	return &UnitOutput{Body: mapUnitResponse(unit)}, nil
}

func (s *Server) handleListUnits(ctx context.Context, input *RegistryAssociationIDInput) (*UnitListOutput, error) {
	units, err := s.services.Registry.ListUnits(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, mapUnitResponse(u))
	}
	return &UnitListOutput{Body: out}, nil
}
