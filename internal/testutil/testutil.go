package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

// SeedCats inserts active cats with the given ids, named "Cat N"
func SeedCats(t *testing.T, repo *repository.Repository, ids ...int) {
	t.Helper()
	for _, id := range ids {
		cat := models.Cat{ID: id, Name: fmt.Sprintf("Cat %d", id), Active: true}
		if err := repo.CreateCat(context.Background(), cat); err != nil {
			t.Fatalf("seed cat %d: %v", id, err)
		}
	}
}

// SeedApplicant inserts an applicant and, if choices is non-empty, their application
func SeedApplicant(t *testing.T, repo *repository.Repository, id, name string, choices ...int) {
	t.Helper()
	ctx := context.Background()
	a := models.Applicant{ID: id, Name: name, Phone: "0912345678", Township: "Banqiao"}
	if err := repo.CreateApplicant(ctx, a); err != nil {
		t.Fatalf("seed applicant %s: %v", id, err)
	}
	if len(choices) == 0 {
		return
	}
	if err := repo.SetApplication(ctx, id, choices); err != nil {
		t.Fatalf("seed application %s: %v", id, err)
	}
}
