package handlers

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/services"
)

// ==================== Cats ====================

func (h *Handlers) handleGetCats(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Cats.ListCats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if cats == nil {
		cats = []models.Cat{}
	}
	respondOK(w, cats)
}

func (h *Handlers) handleCreateCat(w http.ResponseWriter, r *http.Request) {
	var req CatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	cat := models.Cat{
		ID:       req.ID,
		Name:     req.Name,
		Popular:  req.Popular,
		Active:   req.Active == nil || *req.Active,
		ImageURL: req.ImageURL,
	}
	if err := h.Cats.CreateCat(r.Context(), cat); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.Cats.GetCat(r.Context(), cat.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, created)
}

func (h *Handlers) handleUpdateCat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req CatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ID != 0 && req.ID != id {
		respondError(w, BadRequest("Cat id in body does not match URL"))
		return
	}

	existing, err := h.Cats.GetCat(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	cat := models.Cat{
		ID:       id,
		Name:     req.Name,
		Popular:  req.Popular,
		Active:   existing.Active,
		ImageURL: req.ImageURL,
	}
	if req.Active != nil {
		cat.Active = *req.Active
	}
	if err := h.Cats.UpdateCat(r.Context(), cat); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, cat)
}

func (h *Handlers) handleDeleteCat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Cats.DeleteCat(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Applicants ====================

func (h *Handlers) handleGetApplicants(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.Applicants.ListApplicants(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, applicants)
}

func (h *Handlers) handleCreateApplicant(w http.ResponseWriter, r *http.Request) {
	var req ApplicantCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	applicant, err := h.Applicants.CreateApplicant(r.Context(), services.NewApplicant{
		ID:       req.ID,
		Name:     req.Name,
		Phone:    req.Phone,
		Township: req.Township,
		Choices:  req.Choices,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, applicant)
}

func (h *Handlers) handleDeleteApplicant(w http.ResponseWriter, r *http.Request) {
	id, err := parseStringParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Applicants.DeleteApplicant(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseStringParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Applicants.SetApplication(r.Context(), id, req.Choices); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Application updated")
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.GetSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	update := services.SettingsUpdate{
		ExcludePriorWinners: req.ExcludePriorWinners,
		BaseURL:             req.BaseURL,
	}
	if err := h.Settings.UpdateSettings(r.Context(), update); err != nil {
		respondError(w, err)
		return
	}

	settings, err := h.Settings.GetSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := h.Settings.Counts(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	state, err := h.Lottery.CurrentState(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := StatsResponse{
		Counts:           counts,
		LiveRevision:     state.Revision,
		LivePhase:        state.Phase,
		LiveUpdatedHuman: "never",
	}
	if !state.UpdatedAt.IsZero() {
		resp.LiveUpdatedHuman = humanize.Time(state.UpdatedAt)
	}
	if h.Hub != nil {
		resp.DisplayClients = h.Hub.ClientCount()
	}
	respondOK(w, resp)
}

// ==================== Database Management ====================

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

const defaultSeedApplicants = 30

func (h *Handlers) handleSeedMockData(w http.ResponseWriter, r *http.Request) {
	var req SeedMockDataRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.SeedType == "" {
		req.SeedType = "all"
	}
	if req.Count == 0 {
		req.Count = defaultSeedApplicants
	}

	ctx := r.Context()
	var resp SeedMockDataResponse

	switch req.SeedType {
	case "cats", "applicants", "all":
	default:
		respondError(w, BadRequest("Invalid seed type"))
		return
	}

	if req.SeedType == "cats" || req.SeedType == "all" {
		added, err := h.Cats.SeedMockCats(ctx)
		if err != nil {
			respondError(w, err)
			return
		}
		resp.CatsAdded = added
	}
	if req.SeedType == "applicants" || req.SeedType == "all" {
		result, err := h.Applicants.SeedMockApplicants(ctx, req.Count)
		if err != nil {
			respondError(w, err)
			return
		}
		resp.ApplicantsAdded = result.Applicants
		resp.ApplicationsAdded = result.Applications
	}

	resp.Message = fmt.Sprintf("Added %d cats, %d applicants and %d applications",
		resp.CatsAdded, resp.ApplicantsAdded, resp.ApplicationsAdded)
	respondOK(w, resp)
}

// ==================== Display QR ====================

func (h *Handlers) handleGetDisplayQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Display.DisplayQR(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
