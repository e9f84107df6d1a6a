package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/id"
	"github.com/vecindario/vecindario-server/internal/store"
	"github.com/vecindario/vecindario-server/internal/store/sqlite"
)

// Resolution is the outcome of resolving a raw person identifier.
// Person is set when the identifier reached a directory person; Resident
// is set when it reached a registry resident. An email can reach both.
type Resolution struct {
	Kind     domain.IdentifierKind
	Person   *domain.Person
	Resident *domain.Resident
}

// IdentityService resolves person identifiers across the directory and
// the registry, and materializes directory counterparts for registry-only
// residents.
type IdentityService struct {
	directory *store.Store
	registry  *sqlite.Store
	logger    *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(directory *store.Store, registry *sqlite.Store, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		directory: directory,
		registry:  registry,
		logger:    logger,
	}
}

// Resolve classifies the raw identifier by shape and looks it up in the
// store(s) it can belong to. A 24-hex ID goes to the directory, an
// integer to the registry, and an email to both concurrently. Returns
// InvalidIdentifier for unrecognized shapes and NotFound when the lookup
// comes back empty.
func (s *IdentityService) Resolve(ctx context.Context, raw string) (*Resolution, error) {
	kind := domain.ClassifyIdentifier(raw)

	switch kind {
	case domain.IdentifierDirectory:
		person, err := s.directory.Persons.Get(ctx, raw)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFoundf("person %s not found", raw)
			}
			return nil, fmt.Errorf("lookup directory person: %w", err)
		}
		return &Resolution{Kind: kind, Person: person}, nil

	case domain.IdentifierRegistry:
		residentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, domainerrors.InvalidIdentifierf("identifier %q is not a usable registry ID", raw)
		}
		resident, err := s.registry.GetResident(ctx, residentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFoundf("resident %d not found", residentID)
			}
			return nil, fmt.Errorf("lookup resident: %w", err)
		}
		return &Resolution{Kind: kind, Resident: resident}, nil

	case domain.IdentifierEmail:
		return s.ResolveEmail(ctx, raw)

	default:
		return nil, domainerrors.InvalidIdentifierf("identifier %q is not a directory ID, registry ID, or email", raw)
	}
}

// ResolveEmail looks the email up in both stores concurrently. A miss in
// one store is fine; a miss in both is NotFound.
func (s *IdentityService) ResolveEmail(ctx context.Context, email string) (*Resolution, error) {
	res := &Resolution{Kind: domain.IdentifierEmail}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		person, err := s.directory.Persons.GetByIndex(gctx, "email", email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("lookup directory person by email: %w", err)
		}
		res.Person = person
		return nil
	})
	g.Go(func() error {
		resident, err := s.registry.GetResidentByEmail(gctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("lookup resident by email: %w", err)
		}
		res.Resident = resident
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if res.Person == nil && res.Resident == nil {
		return nil, domainerrors.NotFoundf("no person with email %s", email)
	}
	return res, nil
}

// EnsureCounterpart guarantees a registry resident has a directory person,
// creating one on first use. Names, email, and password hash are copied
// verbatim; the copy is one-way and one-time, later registry edits do not
// propagate. Idempotent: repeated calls return the same person.
func (s *IdentityService) EnsureCounterpart(ctx context.Context, residentID int64) (*domain.Person, error) {
	resident, err := s.registry.GetResident(ctx, residentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("resident %d not found", residentID)
		}
		return nil, fmt.Errorf("lookup resident: %w", err)
	}

	// The email index is the idempotency key: if a directory person with
	// this email already exists, that is the counterpart.
	person, err := s.directory.Persons.GetByIndex(ctx, "email", resident.Email)
	if err == nil {
		return person, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup directory person by email: %w", err)
	}

	person = &domain.Person{
		FirstName:    resident.FirstName,
		LastName:     resident.LastName,
		Email:        resident.Email,
		PasswordHash: resident.PasswordHash,
		RegistryID:   resident.ID,
	}
	person.ID, err = id.NewObjectID()
	if err != nil {
		return nil, fmt.Errorf("generate person ID: %w", err)
	}
	person.InitTimestamps()

	if err := s.directory.Persons.Create(ctx, person.ID, person); err != nil {
		// A concurrent materialization of the same resident loses the
		// email index race; the winner's person is the counterpart.
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.directory.Persons.GetByIndex(ctx, "email", resident.Email)
		}
		return nil, fmt.Errorf("materialize person: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("materialized directory person",
			"person_id", person.ID,
			"resident_id", resident.ID,
		)
	}
	return person, nil
}

// PersonView is one entry in the combined cross-store person listing.
// Origin is "directory", "registry", or "both" for a materialized pair.
type PersonView struct {
	Origin      string                   `json:"origin"`
	DirectoryID string                   `json:"directory_id,omitempty"`
	RegistryID  int64                    `json:"registry_id,omitempty"`
	FirstName   string                   `json:"first_name"`
	LastName    string                   `json:"last_name"`
	Email       string                   `json:"email"`
	Units       []*domain.UnitMembership `json:"units,omitempty"`
}

// ListCombined merges persons from both stores into one view. A directory
// person that was materialized from a registry resident collapses into a
// single "both" entry carrying the resident's unit memberships.
func (s *IdentityService) ListCombined(ctx context.Context) ([]*PersonView, error) {
	materialized := make(map[int64]bool)
	var views []*PersonView

	for p, err := range s.directory.Persons.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list directory persons: %w", err)
		}
		view := &PersonView{
			Origin:      "directory",
			DirectoryID: p.ID,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Email:       p.Email,
		}
		if p.RegistryID != 0 {
			view.Origin = "both"
			view.RegistryID = p.RegistryID
			materialized[p.RegistryID] = true
		}
		views = append(views, view)
	}

	residents, err := s.registry.ListResidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}
	for _, r := range residents {
		view := &PersonView{
			Origin:     "registry",
			RegistryID: r.ID,
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Email:      r.Email,
		}
		if materialized[r.ID] {
			// Fold the resident's units into the existing "both" entry.
			for _, v := range views {
				if v.RegistryID == r.ID {
					view = v
					break
				}
			}
		} else {
			views = append(views, view)
		}

		units, err := s.registry.ListUnitMemberships(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("list unit memberships: %w", err)
		}
		view.Units = units
	}

	return views, nil
}

// ResolvePerson resolves an identifier all the way to a directory person,
// materializing a counterpart when the identifier reaches only the
// registry. This is the entry point the booking pipeline uses.
func (s *IdentityService) ResolvePerson(ctx context.Context, raw string) (*domain.Person, error) {
	res, err := s.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}

	if res.Person != nil {
		return res.Person, nil
	}
	return s.EnsureCounterpart(ctx, res.Resident.ID)
}
