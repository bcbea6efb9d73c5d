package mock

import (
	"context"

	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ListApplicationsError = errors.New("database error")
//	svc := services.NewLotteryService(log, mockRepo, settingsSvc, rng.NewSeededSource(1))
//	_, err := svc.Draw(ctx, []int{5})
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Cat Errors =====
	ListCatsError     error
	GetCatError       error
	GetCatsByIDsError error
	CreateCatError    error
	UpsertCatError    error
	UpdateCatError    error
	DeleteCatError    error

	// ===== Applicant Errors =====
	ListApplicantsError     error
	GetApplicantError       error
	GetApplicantsByIDsError error
	CreateApplicantError    error
	DeleteApplicantError    error
	SetApplicationError     error
	ListApplicationsError   error

	// ===== Live State / Draw Errors =====
	GetLiveStateError     error
	ReplaceLiveStateError error
	SaveDrawError         error
	ListDrawsError        error
	ListWinnerIDsError    error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
	CountsError     error
	ClearTableError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Cat Methods =====

func (m *Repository) ListCats(ctx context.Context) ([]models.Cat, error) {
	if m.ListCatsError != nil {
		return nil, m.ListCatsError
	}
	return m.FullRepository.ListCats(ctx)
}

func (m *Repository) GetCat(ctx context.Context, id int) (*models.Cat, error) {
	if m.GetCatError != nil {
		return nil, m.GetCatError
	}
	return m.FullRepository.GetCat(ctx, id)
}

func (m *Repository) GetCatsByIDs(ctx context.Context, ids []int) ([]models.Cat, error) {
	if m.GetCatsByIDsError != nil {
		return nil, m.GetCatsByIDsError
	}
	return m.FullRepository.GetCatsByIDs(ctx, ids)
}

func (m *Repository) CreateCat(ctx context.Context, cat models.Cat) error {
	if m.CreateCatError != nil {
		return m.CreateCatError
	}
	return m.FullRepository.CreateCat(ctx, cat)
}

func (m *Repository) UpsertCat(ctx context.Context, cat models.Cat) error {
	if m.UpsertCatError != nil {
		return m.UpsertCatError
	}
	return m.FullRepository.UpsertCat(ctx, cat)
}

func (m *Repository) UpdateCat(ctx context.Context, cat models.Cat) error {
	if m.UpdateCatError != nil {
		return m.UpdateCatError
	}
	return m.FullRepository.UpdateCat(ctx, cat)
}

func (m *Repository) DeleteCat(ctx context.Context, id int) error {
	if m.DeleteCatError != nil {
		return m.DeleteCatError
	}
	return m.FullRepository.DeleteCat(ctx, id)
}

// ===== Applicant Methods =====

func (m *Repository) ListApplicants(ctx context.Context) ([]models.Applicant, error) {
	if m.ListApplicantsError != nil {
		return nil, m.ListApplicantsError
	}
	return m.FullRepository.ListApplicants(ctx)
}

func (m *Repository) GetApplicant(ctx context.Context, id string) (*models.Applicant, error) {
	if m.GetApplicantError != nil {
		return nil, m.GetApplicantError
	}
	return m.FullRepository.GetApplicant(ctx, id)
}

func (m *Repository) GetApplicantsByIDs(ctx context.Context, ids []string) ([]models.Applicant, error) {
	if m.GetApplicantsByIDsError != nil {
		return nil, m.GetApplicantsByIDsError
	}
	return m.FullRepository.GetApplicantsByIDs(ctx, ids)
}

func (m *Repository) CreateApplicant(ctx context.Context, a models.Applicant) error {
	if m.CreateApplicantError != nil {
		return m.CreateApplicantError
	}
	return m.FullRepository.CreateApplicant(ctx, a)
}

func (m *Repository) DeleteApplicant(ctx context.Context, id string) error {
	if m.DeleteApplicantError != nil {
		return m.DeleteApplicantError
	}
	return m.FullRepository.DeleteApplicant(ctx, id)
}

func (m *Repository) SetApplication(ctx context.Context, applicantID string, choices []int) error {
	if m.SetApplicationError != nil {
		return m.SetApplicationError
	}
	return m.FullRepository.SetApplication(ctx, applicantID, choices)
}

func (m *Repository) ListApplications(ctx context.Context, catIDs []int) ([]models.Application, error) {
	if m.ListApplicationsError != nil {
		return nil, m.ListApplicationsError
	}
	return m.FullRepository.ListApplications(ctx, catIDs)
}

// ===== Live State / Draw Methods =====

func (m *Repository) GetLiveState(ctx context.Context) (*models.LiveState, error) {
	if m.GetLiveStateError != nil {
		return nil, m.GetLiveStateError
	}
	return m.FullRepository.GetLiveState(ctx)
}

func (m *Repository) ReplaceLiveState(ctx context.Context, state *models.LiveState, expectedRevision int64) error {
	if m.ReplaceLiveStateError != nil {
		return m.ReplaceLiveStateError
	}
	return m.FullRepository.ReplaceLiveState(ctx, state, expectedRevision)
}

func (m *Repository) SaveDraw(ctx context.Context, record *models.DrawRecord, state *models.LiveState, expectedRevision int64) error {
	if m.SaveDrawError != nil {
		return m.SaveDrawError
	}
	return m.FullRepository.SaveDraw(ctx, record, state, expectedRevision)
}

func (m *Repository) ListDraws(ctx context.Context, limit int) ([]models.DrawRecord, error) {
	if m.ListDrawsError != nil {
		return nil, m.ListDrawsError
	}
	return m.FullRepository.ListDraws(ctx, limit)
}

func (m *Repository) ListWinnerIDs(ctx context.Context) ([]string, error) {
	if m.ListWinnerIDsError != nil {
		return nil, m.ListWinnerIDsError
	}
	return m.FullRepository.ListWinnerIDs(ctx)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) Counts(ctx context.Context) (map[string]int, error) {
	if m.CountsError != nil {
		return nil, m.CountsError
	}
	return m.FullRepository.Counts(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
