package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "directory-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestEntity_CreateAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{
		ID:    "1",
		Name:  "María García",
		Email: "maria@example.com",
	}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, testData.Name, retrieved.Name)
	require.Equal(t, testData.Email, retrieved.Email)
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{ID: "1", Name: "María García"}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	err = entity.Create(context.Background(), "1", testData)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Update(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "Before"})
	require.NoError(t, err)

	err = entity.Update(context.Background(), "1", &TestEntity{ID: "1", Name: "After"})
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "After", retrieved.Name)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Update(context.Background(), "missing", &TestEntity{ID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Delete_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1"})
	require.NoError(t, err)

	require.NoError(t, entity.Delete(context.Background(), "1"))
	require.NoError(t, entity.Delete(context.Background(), "1"))

	_, err = entity.Get(context.Background(), "1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	for _, id := range []string{"1", "2", "3"} {
		err := entity.Create(context.Background(), id, &TestEntity{ID: id})
		require.NoError(t, err)
	}

	var seen []string
	for e, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		seen = append(seen, e.ID)
	}
	require.Len(t, seen, 3)
}

func TestEntity_IndexConflict(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "maria@example.com"})
	require.NoError(t, err)

	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Email: "maria@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_GetByIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "maria@example.com"})
	require.NoError(t, err)

	retrieved, err := entity.GetByIndex(context.Background(), "email", "maria@example.com")
	require.NoError(t, err)
	require.Equal(t, "1", retrieved.ID)

	_, err = entity.GetByIndex(context.Background(), "email", "nadie@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_UpdateMovesIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "old@example.com"})
	require.NoError(t, err)

	err = entity.Update(context.Background(), "1", &TestEntity{ID: "1", Email: "new@example.com"})
	require.NoError(t, err)

	_, err = entity.GetByIndex(context.Background(), "email", "old@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	retrieved, err := entity.GetByIndex(context.Background(), "email", "new@example.com")
	require.NoError(t, err)
	require.Equal(t, "1", retrieved.ID)
}

func TestPersons_EmailIndexCaseInsensitive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	p := &domain.Person{
		FirstName: "María",
		LastName:  "García",
		Email:     "Maria.Garcia@Example.COM",
	}
	p.ID = "60d21b4667d0d8992e610c51"
	p.InitTimestamps()

	require.NoError(t, s.Persons.Create(ctx, p.ID, p))

	retrieved, err := s.Persons.GetByIndex(ctx, "email", "maria.garcia@example.com")
	require.NoError(t, err)
	require.Equal(t, p.ID, retrieved.ID)

	retrieved, err = s.Persons.GetByIndex(ctx, "email", "MARIA.GARCIA@example.com")
	require.NoError(t, err)
	require.Equal(t, p.ID, retrieved.ID)
}
