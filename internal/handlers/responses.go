package handlers

import "github.com/u83213089-oss/cat-lottery/internal/models"

// DrawHistoryResponse is the response for the draw history endpoint
type DrawHistoryResponse struct {
	Draws []models.DrawRecord `json:"draws"`
}

// StatsResponse is the response for dashboard stats
type StatsResponse struct {
	Counts           map[string]int `json:"counts"`
	DisplayClients   int            `json:"display_clients"`
	LiveRevision     int64          `json:"live_revision"`
	LivePhase        models.Phase   `json:"live_phase"`
	LiveUpdatedHuman string         `json:"live_updated_human"`
}

// SeedMockDataResponse reports what was seeded
type SeedMockDataResponse struct {
	CatsAdded         int    `json:"cats_added"`
	ApplicantsAdded   int    `json:"applicants_added"`
	ApplicationsAdded int    `json:"applications_added"`
	Message           string `json:"message"`
}
