package repository

import (
	"context"

	"github.com/u83213089-oss/cat-lottery/internal/models"
)

// CatRepository defines cat data operations
type CatRepository interface {
	ListCats(ctx context.Context) ([]models.Cat, error)
	GetCat(ctx context.Context, id int) (*models.Cat, error)
	GetCatsByIDs(ctx context.Context, ids []int) ([]models.Cat, error)
	CreateCat(ctx context.Context, cat models.Cat) error
	UpsertCat(ctx context.Context, cat models.Cat) error
	UpdateCat(ctx context.Context, cat models.Cat) error
	DeleteCat(ctx context.Context, id int) error
}

// ApplicantRepository defines applicant and application data operations
type ApplicantRepository interface {
	ListApplicants(ctx context.Context) ([]models.Applicant, error)
	GetApplicant(ctx context.Context, id string) (*models.Applicant, error)
	GetApplicantsByIDs(ctx context.Context, ids []string) ([]models.Applicant, error)
	CreateApplicant(ctx context.Context, a models.Applicant) error
	DeleteApplicant(ctx context.Context, id string) error
	SetApplication(ctx context.Context, applicantID string, choices []int) error
	ListApplications(ctx context.Context, catIDs []int) ([]models.Application, error)
}

// LiveStateRepository is the narrow read/write surface for the display state
type LiveStateRepository interface {
	GetLiveState(ctx context.Context) (*models.LiveState, error)
	ReplaceLiveState(ctx context.Context, state *models.LiveState, expectedRevision int64) error
}

// DrawRepository defines draw history operations
type DrawRepository interface {
	SaveDraw(ctx context.Context, record *models.DrawRecord, state *models.LiveState, expectedRevision int64) error
	ListDraws(ctx context.Context, limit int) ([]models.DrawRecord, error)
	ListWinnerIDs(ctx context.Context) ([]string, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	Counts(ctx context.Context) (map[string]int, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	CatRepository
	ApplicantRepository
	LiveStateRepository
	DrawRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
