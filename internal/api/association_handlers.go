package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/service"
)

func (s *Server) registerAssociationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "create-association",
		Method:      http.MethodPost,
		Path:        "/api/v1/associations",
		Summary:     "Create a directory association",
		Tags:        []string{"Associations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAssociation)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-associations",
		Method:      http.MethodGet,
		Path:        "/api/v1/associations",
		Summary:     "List directory associations",
		Tags:        []string{"Associations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAssociations)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-association",
		Method:      http.MethodGet,
		Path:        "/api/v1/associations/{id}",
		Summary:     "Get a directory association",
		Tags:        []string{"Associations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetAssociation)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-amenity",
		Method:      http.MethodPost,
		Path:        "/api/v1/associations/{id}/amenities",
		Summary:     "Create an amenity",
		Description: "Adds an amenity to the association with its opening hours.",
		Tags:        []string{"Amenities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAmenity)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-amenities",
		Method:      http.MethodGet,
		Path:        "/api/v1/associations/{id}/amenities",
		Summary:     "List amenities of an association",
		Tags:        []string{"Amenities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAmenities)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-amenity",
		Method:      http.MethodGet,
		Path:        "/api/v1/amenities/{id}",
		Summary:     "Get an amenity",
		Tags:        []string{"Amenities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetAmenity)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-amenity",
		Method:      http.MethodPatch,
		Path:        "/api/v1/amenities/{id}",
		Summary:     "Update an amenity",
		Tags:        []string{"Amenities"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateAmenity)
}

// === DTOs ===

// AssociationResponse contains a directory association.
type AssociationResponse struct {
	ID        string    `json:"id" doc:"Association ID"`
	Name      string    `json:"name" doc:"Association name"`
	Address   string    `json:"address,omitempty" doc:"Street address"`
	City      string    `json:"city,omitempty" doc:"City"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// AssociationOutput wraps an association for Huma.
type AssociationOutput struct {
	Body AssociationResponse
}

// AssociationListOutput wraps an association list for Huma.
type AssociationListOutput struct {
	Body []AssociationResponse
}

// CreateAssociationInput wraps the association request for Huma.
type CreateAssociationInput struct {
	Body struct {
		Name    string `json:"name" validate:"required,min=1,max=200" doc:"Association name"`
		Address string `json:"address,omitempty" validate:"max=300" doc:"Street address"`
		City    string `json:"city,omitempty" validate:"max=100" doc:"City"`
	}
}

// AssociationIDInput identifies an association by directory ID.
type AssociationIDInput struct {
	ID string `path:"id" doc:"Association ID"`
}

// AmenityResponse contains an amenity with its opening hours.
type AmenityResponse struct {
	ID            string    `json:"id" doc:"Amenity ID"`
	AssociationID string    `json:"association_id" doc:"Owning association ID"`
	Name          string    `json:"name" doc:"Amenity name"`
	Description   string    `json:"description,omitempty" doc:"Description"`
	Bookable      bool      `json:"bookable" doc:"Whether the amenity accepts bookings"`
	OpeningTime   string    `json:"opening_time" doc:"Opening time (HH:MM)"`
	ClosingTime   string    `json:"closing_time" doc:"Closing time (HH:MM)"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// AmenityOutput wraps an amenity for Huma.
type AmenityOutput struct {
	Body AmenityResponse
}

// AmenityListOutput wraps an amenity list for Huma.
type AmenityListOutput struct {
	Body []AmenityResponse
}

// CreateAmenityInput wraps the amenity request for Huma.
type CreateAmenityInput struct {
	ID   string `path:"id" doc:"Association ID"`
	Body struct {
		Name        string `json:"name" validate:"required,min=1,max=200" doc:"Amenity name"`
		Description string `json:"description,omitempty" validate:"max=500" doc:"Description"`
		Bookable    bool   `json:"bookable" doc:"Whether the amenity accepts bookings"`
		OpeningTime string `json:"opening_time" doc:"Opening time (HH:MM), optional"`
		ClosingTime string `json:"closing_time" doc:"Closing time (HH:MM), optional"`
	}
}

// AmenityIDInput identifies an amenity by ID.
type AmenityIDInput struct {
	ID string `path:"id" doc:"Amenity ID"`
}

// UpdateAmenityInput wraps amenity changes for Huma.
type UpdateAmenityInput struct {
	ID   string `path:"id" doc:"Amenity ID"`
	Body struct {
		Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200" doc:"Amenity name"`
		Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Description"`
		Bookable    *bool   `json:"bookable,omitempty" doc:"Whether the amenity accepts bookings"`
		OpeningTime *string `json:"opening_time,omitempty" doc:"Opening time (HH:MM)"`
		ClosingTime *string `json:"closing_time,omitempty" doc:"Closing time (HH:MM)"`
	}
}

func mapAssociationResponse(a *domain.Association) AssociationResponse {
	return AssociationResponse{
		ID:        a.ID,
		Name:      a.Name,
		Address:   a.Address,
		City:      a.City,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func mapAmenityResponse(a *domain.Amenity) AmenityResponse {
	return AmenityResponse{
		ID:            a.ID,
		AssociationID: a.AssociationID,
		Name:          a.Name,
		Description:   a.Description,
		Bookable:      a.Bookable,
		OpeningTime:   a.OpeningTime,
		ClosingTime:   a.ClosingTime,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateAssociation(ctx context.Context, input *CreateAssociationInput) (*AssociationOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	assoc, err := s.services.Amenity.CreateAssociation(ctx, service.CreateDirectoryAssociationRequest{
		Name:    input.Body.Name,
		Address: input.Body.Address,
		City:    input.Body.City,
	})
	if err != nil {
		return nil, err
	}
	return &AssociationOutput{Body: mapAssociationResponse(assoc)}, nil
}

func (s *Server) handleListAssociations(ctx context.Context, _ *struct{}) (*AssociationListOutput, error) {
	assocs, err := s.services.Amenity.ListAssociations(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AssociationResponse, 0, len(assocs))
	for _, a := range assocs {
		out = append(out, mapAssociationResponse(a))
	}
	return &AssociationListOutput{Body: out}, nil
}

func (s *Server) handleGetAssociation(ctx context.Context, input *AssociationIDInput) (*AssociationOutput, error) {
	assoc, err := s.services.Amenity.GetAssociation(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AssociationOutput{Body: mapAssociationResponse(assoc)}, nil
}

func (s *Server) handleCreateAmenity(ctx context.Context, input *CreateAmenityInput) (*AmenityOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	amenity, err := s.services.Amenity.CreateAmenity(ctx, service.CreateAmenityRequest{
		AssociationID: input.ID,
		Name:          input.Body.Name,
		Description:   input.Body.Description,
		Bookable:      input.Body.Bookable,
		OpeningTime:   input.Body.OpeningTime,
		ClosingTime:   input.Body.ClosingTime,
	})
	if err != nil {
		return nil, err
	}
	return &AmenityOutput{Body: mapAmenityResponse(amenity)}, nil
}

func (s *Server) handleListAmenities(ctx context.Context, input *AssociationIDInput) (*AmenityListOutput, error) {
	amenities, err := s.services.Amenity.ListAmenities(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]AmenityResponse, 0, len(amenities))
	for _, a := range amenities {
		out = append(out, mapAmenityResponse(a))
	}
	return &AmenityListOutput{Body: out}, nil
}

func (s *Server) handleGetAmenity(ctx context.Context, input *AmenityIDInput) (*AmenityOutput, error) {
	amenity, err := s.services.Amenity.GetAmenity(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AmenityOutput{Body: mapAmenityResponse(amenity)}, nil
}

func (s *Server) handleUpdateAmenity(ctx context.Context, input *UpdateAmenityInput) (*AmenityOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	amenity, err := s.services.Amenity.UpdateAmenity(ctx, input.ID, service.UpdateAmenityRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Bookable:    input.Body.Bookable,
		OpeningTime: input.Body.OpeningTime,
		ClosingTime: input.Body.ClosingTime,
	})
	if err != nil {
		return nil, err
	}
	return &AmenityOutput{Body: mapAmenityResponse(amenity)}, nil
}
