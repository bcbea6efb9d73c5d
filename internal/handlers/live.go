package handlers

import (
	"net/http"
	"strconv"
)

const defaultHistoryLimit = 50

// handleGetLiveState returns the live state. With ?since=<revision> it
// answers 304 when the client already has that revision.
func (h *Handlers) handleGetLiveState(w http.ResponseWriter, r *http.Request) {
	since := int64(-1)
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			respondError(w, BadRequest("Invalid since parameter"))
			return
		}
		since = n
	}

	state, err := h.Lottery.CurrentState(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Live-Revision", strconv.FormatInt(state.Revision, 10))
	if since == state.Revision {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req LiveSelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Lottery.Preview(r.Context(), req.SelectedCatIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req LiveSelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Lottery.Draw(r.Context(), req.SelectedCatIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleGetDraws(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", defaultHistoryLimit)
	if err != nil {
		respondError(w, err)
		return
	}

	draws, err := h.Lottery.History(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, DrawHistoryResponse{Draws: draws})
}
