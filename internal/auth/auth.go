// Package auth guards the staff console: one shared admin password, in-memory
// sessions carried by a cookie, and an admin key header for scripted calls.
package auth

import (
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"lukechampine.com/frand"
)

const (
	CookieName    = "catlottery_session"
	SessionExpiry = 12 * time.Hour

	// AdminKeyHeader lets scripts call admin endpoints without a session
	AdminKeyHeader = "X-Admin-Key"
)

// Cat-themed words for password generation
var catWords = []string{
	"whisker", "paw", "tabby", "calico", "kitten",
	"purr", "meow", "tuxedo", "ginger", "mochi",
	"tuna", "yarn", "nap", "pounce", "catnip",
	"tiger", "velvet", "biscuit", "mittens",
}

// Auth handles admin authentication
type Auth struct {
	hash     []byte
	sessions map[string]time.Time
	mu       sync.RWMutex
	now      func() time.Time
}

// New creates a new Auth instance with the given password
func New(password string) (*Auth, error) {
	return NewWithCost(password, bcrypt.DefaultCost)
}

// NewWithCost is New with an explicit bcrypt cost. Tests use bcrypt.MinCost.
func NewWithCost(password string, cost int) (*Auth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &Auth{
		hash:     hash,
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}, nil
}

// SetClock replaces the time source used for session expiry
func (a *Auth) SetClock(now func() time.Time) {
	a.mu.Lock()
	a.now = now
	a.mu.Unlock()
}

// GeneratePassword creates a random 3-word password, e.g. "tabby-yarn-purr"
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = catWords[frand.Intn(len(catWords))]
	}
	return strings.Join(words, "-")
}

// CheckPassword reports whether password matches the admin password
func (a *Auth) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
}

// Login validates the password and returns a new session token
func (a *Auth) Login(password string) (string, bool) {
	if !a.CheckPassword(password) {
		return "", false
	}

	token := hex.EncodeToString(frand.Bytes(32))
	a.mu.Lock()
	a.pruneLocked()
	a.sessions[token] = a.now().Add(SessionExpiry)
	a.mu.Unlock()

	return token, true
}

// pruneLocked drops expired sessions. Caller holds a.mu.
func (a *Auth) pruneLocked() {
	now := a.now()
	for token, expiry := range a.sessions {
		if now.After(expiry) {
			delete(a.sessions, token)
		}
	}
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// SessionCount returns the number of live sessions
func (a *Auth) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked()
	return len(a.sessions)
}

// ValidateSession checks if a session token is valid
func (a *Auth) ValidateSession(token string) bool {
	a.mu.RLock()
	expiry, exists := a.sessions[token]
	now := a.now()
	a.mu.RUnlock()

	if !exists {
		return false
	}
	if now.After(expiry) {
		a.Logout(token)
		return false
	}
	return true
}
