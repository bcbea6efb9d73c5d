package services

import (
	"context"

	"github.com/u83213089-oss/cat-lottery/internal/models"
)

// CatServicer defines the interface for cat operations
type CatServicer interface {
	ListCats(ctx context.Context) ([]models.Cat, error)
	GetCat(ctx context.Context, id int) (*models.Cat, error)
	CreateCat(ctx context.Context, cat models.Cat) error
	UpdateCat(ctx context.Context, cat models.Cat) error
	DeleteCat(ctx context.Context, id int) error
	SeedMockCats(ctx context.Context) (int, error)
}

// ApplicantServicer defines the interface for applicant operations
type ApplicantServicer interface {
	ListApplicants(ctx context.Context) ([]ApplicantEntry, error)
	CreateApplicant(ctx context.Context, in NewApplicant) (*models.Applicant, error)
	DeleteApplicant(ctx context.Context, id string) error
	SetApplication(ctx context.Context, applicantID string, choices []int) error
	SeedMockApplicants(ctx context.Context, count int) (*SeedResult, error)
}

// LotteryServicer defines the interface for the live draw
type LotteryServicer interface {
	Preview(ctx context.Context, catIDs []int) (*models.LiveState, error)
	Draw(ctx context.Context, catIDs []int) (*models.LiveState, error)
	CurrentState(ctx context.Context) (*models.LiveState, error)
	History(ctx context.Context, limit int) ([]models.DrawRecord, error)
	SetBroadcaster(b Broadcaster)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	ExcludePriorWinners(ctx context.Context) (bool, error)
	SetExcludePriorWinners(ctx context.Context, exclude bool) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, update SettingsUpdate) error
	Counts(ctx context.Context) (map[string]int, error)
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// DisplayServicer defines the interface for display assets
type DisplayServicer interface {
	DisplayURL(ctx context.Context) (string, error)
	DisplayQR(ctx context.Context) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ CatServicer        = (*CatService)(nil)
	_ ApplicantServicer  = (*ApplicantService)(nil)
	_ LotteryServicer    = (*LotteryService)(nil)
	_ SettingsServicer   = (*SettingsService)(nil)
	_ DisplayServicer    = (*DisplayService)(nil)
	_ PriorWinnersPolicy = (*SettingsService)(nil)
)
