package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
)

const loginPath = "/admin/login"

// HasSession reports whether r carries a live session cookie
func (a *Auth) HasSession(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	return err == nil && a.ValidateSession(c.Value)
}

// IsAuthorized accepts a session cookie or, for scripts, the admin key header
func (a *Auth) IsAuthorized(r *http.Request) bool {
	if a.HasSession(r) {
		return true
	}
	key := r.Header.Get(AdminKeyHeader)
	return key != "" && a.CheckPassword(key)
}

// LoginURL returns the login page address that returns to target afterwards
func LoginURL(target string) string {
	if target == "" || target == "/admin" {
		return loginPath
	}
	return loginPath + "?" + url.Values{"next": {target}}.Encode()
}

// RequireAuth guards admin pages. Only the session cookie counts here.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.HasSession(r) {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var unauthorizedBody = map[string]string{
	"code":  "UNAUTHORIZED",
	"error": "Unauthorized - please log in",
}

// RequireAuthAPI guards the JSON API and answers 401 in the API error shape
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.IsAuthorized(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(unauthorizedBody)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookie hands token to the browser for SessionExpiry
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, sessionCookie(token, int(SessionExpiry.Seconds())))
}

// ClearSessionCookie tells the browser to drop the session
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie("", -1))
}
