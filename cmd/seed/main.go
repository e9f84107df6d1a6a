// Package main provides a tool to seed the stores with demo data.
//
// It creates a directory association with amenities, a handful of registry
// residents with units, and one resident assigned across both stores, so
// the booking and login flows can be exercised right away.
//
// Usage:
//
//	DATA_PATH=~/Vecindario/data go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/vecindario/vecindario-server/internal/auth"
	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/id"
	"github.com/vecindario/vecindario-server/internal/store"
	"github.com/vecindario/vecindario-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Vecindario/data")
	}

	fmt.Printf("Seeding data under: %s\n", dataPath)

	directory, err := store.New(filepath.Join(dataPath, "directory"), nil)
	if err != nil {
		log.Fatalf("Failed to open directory store: %v", err)
	}
	defer directory.Close()

	registry, err := sqlite.Open(filepath.Join(dataPath, "registry.db"), nil)
	if err != nil {
		log.Fatalf("Failed to open registry store: %v", err)
	}
	defer registry.Close()

	ctx := context.Background()

	assoc := seedAssociation(ctx, directory)
	seedAmenities(ctx, directory, assoc)
	seedRegistry(ctx, registry)

	fmt.Println("Done.")
}

func seedAssociation(ctx context.Context, directory *store.Store) *domain.Association {
	assoc := &domain.Association{
		Name:    "Residencial Los Pinos",
		Address: "Calle Mayor 12",
		City:    "Madrid",
	}
	assoc.ID = id.MustObjectID()
	assoc.InitTimestamps()

	if err := directory.Associations.Create(ctx, assoc.ID, assoc); err != nil {
		log.Fatalf("Failed to create association: %v", err)
	}
	fmt.Printf("  association %s (%s)\n", assoc.Name, assoc.ID)
	return assoc
}

func seedAmenities(ctx context.Context, directory *store.Store, assoc *domain.Association) {
	amenities := []*domain.Amenity{
		{
			AssociationID: assoc.ID,
			Name:          "Gimnasio",
			Description:   "Sala de maquinas en el sotano",
			Bookable:      true,
			OpeningTime:   "09:00",
			ClosingTime:   "22:00",
		},
		{
			AssociationID: assoc.ID,
			Name:          "Piscina",
			Description:   "Piscina exterior de temporada",
			Bookable:      true,
			OpeningTime:   "10:00",
			ClosingTime:   "20:00",
		},
		{
			AssociationID: assoc.ID,
			Name:          "Jardin",
			Description:   "Zona verde comunitaria",
			Bookable:      false,
			OpeningTime:   "08:00",
			ClosingTime:   "21:00",
		},
	}

	for _, a := range amenities {
		a.ID = id.MustObjectID()
		a.InitTimestamps()
		if err := directory.Amenities.Create(ctx, a.ID, a); err != nil {
			log.Fatalf("Failed to create amenity %s: %v", a.Name, err)
		}
		fmt.Printf("  amenity %s (%s)\n", a.Name, a.ID)
	}
}

func seedRegistry(ctx context.Context, registry *sqlite.Store) {
	assoc := &domain.RegistryAssociation{
		Name:    "Residencial Los Pinos",
		Address: "Calle Mayor 12",
		City:    "Madrid",
	}
	if err := registry.CreateAssociation(ctx, assoc); err != nil {
		log.Fatalf("Failed to create registry association: %v", err)
	}

	units := make([]*domain.Unit, 0, 4)
	for _, number := range []string{"1A", "1B", "2A", "2B"} {
		unit := &domain.Unit{
			AssociationID: assoc.ID,
			Number:        number,
			Floor:         number[:1],
		}
		if err := registry.CreateUnit(ctx, unit); err != nil {
			log.Fatalf("Failed to create unit %s: %v", number, err)
		}
		units = append(units, unit)
	}

	residents := []struct {
		firstName, lastName, email, password string
	}{
		{"Maria", "Garcia", "maria@example.com", "password123"},
		{"Carlos", "Lopez", "carlos@example.com", "password123"},
		{"Ana", "Ruiz", "ana@example.com", "password123"},
	}

	for i, r := range residents {
		hash, err := auth.HashPassword(r.password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		resident := &domain.Resident{
			FirstName:    r.firstName,
			LastName:     r.lastName,
			Email:        r.email,
			PasswordHash: hash,
		}
		if err := registry.CreateResident(ctx, resident); err != nil {
			log.Fatalf("Failed to create resident %s: %v", r.email, err)
		}

		role := domain.RoleOwner
		if i%2 == 1 {
			role = domain.RoleResident
		}
		if _, err := registry.AssignUnit(ctx, resident.ID, units[i].ID, role); err != nil {
			log.Fatalf("Failed to assign unit: %v", err)
		}
		fmt.Printf("  resident %s %s (%d) in unit %s\n", r.firstName, r.lastName, resident.ID, units[i].Number)
	}
}
