// Package lottery implements the cat adoption draw: pool resolution, fair
// selection, the batch orchestrator and the display projection.
package lottery

import "github.com/u83213089-oss/cat-lottery/internal/models"

// ExclusionSet holds applicant ids that may not win again in the current batch.
type ExclusionSet map[string]struct{}

// NewExclusionSet returns a set seeded with ids
func NewExclusionSet(ids ...string) ExclusionSet {
	s := make(ExclusionSet, len(ids))
	s.Add(ids...)
	return s
}

// Add inserts ids into the set
func (s ExclusionSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Contains reports whether id is excluded. A nil set excludes nothing.
func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// ResolvePool returns the ids of applicants who chose catID, in arrival order,
// with duplicates collapsed to their first occurrence and excluded ids removed.
// apps must already be in arrival order. excluded is not modified.
func ResolvePool(catID int, apps []models.Application, excluded ExclusionSet) []string {
	var pool []string
	seen := make(map[string]struct{})
	for _, app := range apps {
		if !chose(app, catID) {
			continue
		}
		if _, dup := seen[app.ApplicantID]; dup {
			continue
		}
		seen[app.ApplicantID] = struct{}{}
		if excluded.Contains(app.ApplicantID) {
			continue
		}
		pool = append(pool, app.ApplicantID)
	}
	return pool
}

func chose(app models.Application, catID int) bool {
	for _, c := range app.Choices {
		if c == catID {
			return true
		}
	}
	return false
}
