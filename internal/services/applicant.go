package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/u83213089-oss/cat-lottery/internal/errors"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
	"github.com/u83213089-oss/cat-lottery/internal/rng"
)

// ApplicantServiceRepository defines the repository methods needed by ApplicantService
type ApplicantServiceRepository interface {
	repository.ApplicantRepository
	repository.CatRepository
}

// ApplicantService handles applicants and their applications
type ApplicantService struct {
	log  logger.Logger
	repo ApplicantServiceRepository
	src  rng.Source
}

// NewApplicantService creates a new ApplicantService. src drives demo data only.
func NewApplicantService(log logger.Logger, repo ApplicantServiceRepository, src rng.Source) *ApplicantService {
	if src == nil {
		src = rng.NewCryptoSource()
	}
	return &ApplicantService{log: log, repo: repo, src: src}
}

// ApplicantEntry is an applicant together with their current choices
type ApplicantEntry struct {
	models.Applicant
	Choices []int `json:"choices"`
	Seq     int64 `json:"seq,omitempty"`
}

// NewApplicant holds the fields for creating an applicant
type NewApplicant struct {
	ID       string
	Name     string
	Phone    string
	Township string
	Choices  []int
}

// ListApplicants returns applicants with their choices, in creation order
func (s *ApplicantService) ListApplicants(ctx context.Context) ([]ApplicantEntry, error) {
	applicants, err := s.repo.ListApplicants(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplications(ctx, nil)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Application, len(apps))
	for _, a := range apps {
		byID[a.ApplicantID] = a
	}

	entries := make([]ApplicantEntry, 0, len(applicants))
	for _, a := range applicants {
		entry := ApplicantEntry{Applicant: a, Choices: []int{}}
		if app, ok := byID[a.ID]; ok {
			entry.Choices = app.Choices
			entry.Seq = app.Seq
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CreateApplicant creates an applicant, generating an id when none is given,
// and records their choices if any.
func (s *ApplicantService) CreateApplicant(ctx context.Context, in NewApplicant) (*models.Applicant, error) {
	a := models.Applicant{
		ID:       strings.TrimSpace(in.ID),
		Name:     strings.TrimSpace(in.Name),
		Phone:    strings.TrimSpace(in.Phone),
		Township: strings.TrimSpace(in.Township),
	}
	if a.Name == "" {
		return nil, errors.Validation("applicant name is required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if len(in.Choices) > 0 {
		if err := s.validateChoices(ctx, in.Choices); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateApplicant(ctx, a); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.Conflictf("applicant %s already exists", a.ID)
		}
		return nil, err
	}
	if len(in.Choices) > 0 {
		if err := s.repo.SetApplication(ctx, a.ID, in.Choices); err != nil {
			// Remove the applicant so a failed create leaves nothing behind
			if delErr := s.repo.DeleteApplicant(context.WithoutCancel(ctx), a.ID); delErr != nil {
				s.log.Warn("Failed to remove applicant after application error", "applicant_id", a.ID, "error", delErr)
			}
			return nil, err
		}
	}
	return &a, nil
}

// DeleteApplicant removes an applicant and their application
func (s *ApplicantService) DeleteApplicant(ctx context.Context, id string) error {
	err := s.repo.DeleteApplicant(ctx, id)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("applicant %s not found", id)
	}
	return err
}

// SetApplication replaces an applicant's choices. The applicant keeps their
// original place in the arrival order.
func (s *ApplicantService) SetApplication(ctx context.Context, applicantID string, choices []int) error {
	if _, err := s.repo.GetApplicant(ctx, applicantID); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("applicant %s not found", applicantID)
		}
		return err
	}
	if err := s.validateChoices(ctx, choices); err != nil {
		return err
	}
	return s.repo.SetApplication(ctx, applicantID, choices)
}

func (s *ApplicantService) validateChoices(ctx context.Context, choices []int) error {
	if len(choices) == 0 {
		return errors.Validation("choices must not be empty")
	}
	seen := make(map[int]bool, len(choices))
	for _, id := range choices {
		if id <= 0 {
			return errors.Validationf("invalid cat id %d", id)
		}
		if seen[id] {
			return errors.Validationf("cat id %d listed twice", id)
		}
		seen[id] = true
	}
	cats, err := s.repo.GetCatsByIDs(ctx, choices)
	if err != nil {
		return err
	}
	if len(cats) != len(choices) {
		found := make(map[int]bool, len(cats))
		for _, c := range cats {
			found[c.ID] = true
		}
		for _, id := range choices {
			if !found[id] {
				return errors.Validationf("unknown cat id %d", id)
			}
		}
	}
	return nil
}

// SeedResult reports what SeedMockApplicants created
type SeedResult struct {
	Applicants   int `json:"applicants"`
	Applications int `json:"applications"`
}

var demoTownships = []string{"Banqiao", "Zhonghe", "Yonghe", "Xindian", "Sanchong", "Tamsui"}

// SeedMockApplicants creates count demo applicants, each applying to one to
// three random active cats.
func (s *ApplicantService) SeedMockApplicants(ctx context.Context, count int) (*SeedResult, error) {
	if count < 1 || count > 500 {
		return nil, ErrInvalidSeedCount
	}
	cats, err := s.repo.ListCats(ctx)
	if err != nil {
		return nil, err
	}
	var catIDs []int
	for _, c := range cats {
		if c.Active {
			catIDs = append(catIDs, c.ID)
		}
	}

	result := &SeedResult{}
	for i := 1; i <= count; i++ {
		a := models.Applicant{
			ID:       uuid.NewString(),
			Name:     fmt.Sprintf("Applicant %02d", i),
			Phone:    fmt.Sprintf("09%02d%06d", i%100, s.src.Intn(1000000)),
			Township: demoTownships[s.src.Intn(len(demoTownships))],
		}
		if err := s.repo.CreateApplicant(ctx, a); err != nil {
			return result, fmt.Errorf("failed to create applicant %d: %w", i, err)
		}
		result.Applicants++

		if len(catIDs) == 0 {
			continue
		}
		picks := slices.Clone(catIDs)
		rng.Shuffle(s.src, picks)
		choices := picks[:1+s.src.Intn(min(3, len(picks)))]
		if err := s.repo.SetApplication(ctx, a.ID, choices); err != nil {
			return result, fmt.Errorf("failed to set application %d: %w", i, err)
		}
		result.Applications++
	}
	s.log.Info("Seeded demo applicants", "applicants", result.Applicants, "applications", result.Applications)
	return result, nil
}
