package services

import (
	"context"
	stderrors "errors"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/u83213089-oss/cat-lottery/internal/errors"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
)

// SettingsService reads and writes the key/value settings and owns the
// destructive reset operation.
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository

	// used until exclude_prior_winners is saved
	excludePriorDefault bool
}

func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, excludePriorDefault bool) *SettingsService {
	return &SettingsService{log: log, repo: repo, excludePriorDefault: excludePriorDefault}
}

// lookup returns the stored value for key, or ok=false if it was never saved
func (s *SettingsService) lookup(ctx context.Context, key string) (value string, ok bool, err error) {
	value, err = s.repo.GetSetting(ctx, key)
	if stderrors.Is(err, repository.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// ExcludePriorWinners reports whether applicants who won an earlier draw are
// kept out of new draws. A missing or unparsable value yields the default.
func (s *SettingsService) ExcludePriorWinners(ctx context.Context) (bool, error) {
	value, ok, err := s.lookup(ctx, models.SettingExcludePriorWinners)
	if err != nil || !ok {
		return s.excludePriorDefault, err
	}
	b, perr := strconv.ParseBool(value)
	if perr != nil {
		s.log.Warn("Ignoring unparsable setting", "key", models.SettingExcludePriorWinners, "value", value)
		return s.excludePriorDefault, nil
	}
	return b, nil
}

func (s *SettingsService) SetExcludePriorWinners(ctx context.Context, exclude bool) error {
	return s.repo.SetSetting(ctx, models.SettingExcludePriorWinners, strconv.FormatBool(exclude))
}

// GetBaseURL returns the URL phones use to reach the display, "" if unset
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, _, err := s.lookup(ctx, models.SettingBaseURL)
	return value, err
}

// SetBaseURL stores u as given; callers validate with normalizeBaseURL
func (s *SettingsService) SetBaseURL(ctx context.Context, u string) error {
	return s.repo.SetSetting(ctx, models.SettingBaseURL, u)
}

// normalizeBaseURL accepts "" (unset) or an absolute http(s) URL and strips
// trailing slashes.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.Validationf("base_url must be an http or https URL, got %q", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func (s *SettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	exclude, err := s.ExcludePriorWinners(ctx)
	if err != nil {
		return nil, err
	}
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Settings{ExcludePriorWinners: exclude, BaseURL: baseURL}, nil
}

// SettingsUpdate holds optional setting changes; nil fields are left alone
type SettingsUpdate struct {
	ExcludePriorWinners *bool
	BaseURL             *string
}

// UpdateSettings validates every field before writing any of them
func (s *SettingsService) UpdateSettings(ctx context.Context, update SettingsUpdate) error {
	var baseURL string
	if update.BaseURL != nil {
		var err error
		if baseURL, err = normalizeBaseURL(*update.BaseURL); err != nil {
			return err
		}
	}

	if update.ExcludePriorWinners != nil {
		if err := s.SetExcludePriorWinners(ctx, *update.ExcludePriorWinners); err != nil {
			return err
		}
		s.log.Info("Setting changed", "key", models.SettingExcludePriorWinners, "value", *update.ExcludePriorWinners)
	}
	if update.BaseURL != nil {
		if err := s.SetBaseURL(ctx, baseURL); err != nil {
			return err
		}
		s.log.Info("Setting changed", "key", models.SettingBaseURL, "value", baseURL)
	}
	return nil
}

// Counts returns record counts for the dashboard
func (s *SettingsService) Counts(ctx context.Context) (map[string]int, error) {
	return s.repo.Counts(ctx)
}

// ResetTablesResult lists the tables that were emptied
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// ValidTables are the resettable tables, children before parents
var ValidTables = []string{"draws", "applications", "applicants", "cats"}

// ResetTables empties the requested tables. Every name is checked before
// anything is deleted, and deletion follows ValidTables order so foreign keys
// never block it.
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}
	if i := slices.IndexFunc(tables, func(t string) bool { return !slices.Contains(ValidTables, t) }); i >= 0 {
		return nil, &InvalidTableError{Table: tables[i]}
	}

	cleared := make([]string, 0, len(tables))
	for _, table := range ValidTables {
		if !slices.Contains(tables, table) {
			continue
		}
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
		cleared = append(cleared, table)
	}
	s.log.Warn("Tables reset", "tables", cleared)

	return &ResetTablesResult{
		Tables:  cleared,
		Message: "Successfully deleted data from tables",
	}, nil
}
