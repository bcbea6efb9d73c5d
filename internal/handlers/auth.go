package handlers

import (
	"net/http"
	"strings"

	"github.com/u83213089-oss/cat-lottery/internal/auth"
)

// LoginPageData holds data for the login template
type LoginPageData struct {
	Error string
	Next  string
}

// safeNext keeps post-login redirects inside the admin console
func safeNext(next string) string {
	if next == "/admin" || strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "/admin/login") {
		return next
	}
	return "/admin"
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if h.Auth.HasSession(r) {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	h.render(w, pageLogin, LoginPageData{Next: next})
}

// handleLogin processes the login form. A wrong password re-renders the form
// with 200 so the browser keeps the page.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.FormValue("next"))

	token, ok := h.Auth.Login(r.FormValue("password"))
	if !ok {
		h.render(w, pageLogin, LoginPageData{Error: "Invalid password", Next: next})
		return
	}

	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, next, http.StatusFound)
}

// handleAPILogin is the JSON login used by scripts and the staff console.
// On success it also sets the session cookie.
func (h *Handlers) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, map[string]bool{"ok": true})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}
