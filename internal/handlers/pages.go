package handlers

import (
	"net/http"

	"github.com/u83213089-oss/cat-lottery/internal/models"
)

// DisplayPageData holds the data for the public display page
type DisplayPageData struct {
	State *models.LiveState
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageIndex, nil)
}

// handleDisplayPage renders the current live state server-side; the page
// then follows updates over the websocket
func (h *Handlers) handleDisplayPage(w http.ResponseWriter, r *http.Request) {
	state, err := h.Lottery.CurrentState(r.Context())
	if err != nil {
		http.Error(w, "live state unavailable", http.StatusInternalServerError)
		return
	}
	h.render(w, pageDisplay, DisplayPageData{State: state})
}

func (h *Handlers) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Lottery Control",
		PageTitle: "Lottery Control",
		ActiveNav: "dashboard",
	}
	h.render(w, pageDashboard, data)
}
