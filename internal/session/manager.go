package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"bookvault/db"
	"bookvault/models"

	"github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the signed cookie holding the session token.
	CookieName = "bookvault-session"

	// TTL is absolute from session creation; it is not refreshed per
	// request. A client keeps the same expiry no matter how active it is.
	TTL = time.Hour

	sessionKeyID = "session_id"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Manager maintains server-side session state keyed by an opaque token.
// The client only ever holds the token, carried in a securecookie-signed
// cookie; all identity data stays in the session repository.
type Manager struct {
	store    *sessions.CookieStore
	sessions db.SessionRepository
}

// NewManager creates a session manager backed by the given repository and
// a cookie store signed with secret.
func NewManager(repo db.SessionRepository, secret []byte) *Manager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   false, // known gap: the cookie is not marked secure-only
		SameSite: http.SameSiteStrictMode,
	}
	return &Manager{store: store, sessions: repo}
}

// Create establishes a new session for the given user.
func (m *Manager) Create(ctx context.Context, userID, username string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:        db.GenerateID(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	return session, nil
}

// Load resolves a token to its session. Expired sessions are deleted on
// sight and reported as ErrExpired.
func (m *Manager) Load(ctx context.Context, token string) (*models.Session, error) {
	session, err := m.sessions.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		if err := m.Destroy(ctx, token); err != nil {
			log.Printf("Failed to delete expired session: %v", err)
		}
		return nil, ErrExpired
	}
	return session, nil
}

// Destroy removes the server-side session state. Destroying a session
// that no longer exists is not an error, so the operation is idempotent.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if err := m.sessions.Delete(ctx, token); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	return nil
}

// Attach writes the session token into the signed cookie on the response.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request, session *models.Session) error {
	cookie, _ := m.store.Get(r, CookieName)
	cookie.Values[sessionKeyID] = session.ID
	return cookie.Save(r, w)
}

// Current resolves the request's cookie to its server-side session.
// A missing, tampered, or expired cookie yields ErrNotFound/ErrExpired.
func (m *Manager) Current(r *http.Request) (*models.Session, error) {
	cookie, err := m.store.Get(r, CookieName)
	if err != nil {
		return nil, ErrNotFound
	}
	token, ok := cookie.Values[sessionKeyID].(string)
	if !ok || token == "" {
		return nil, ErrNotFound
	}
	return m.Load(r.Context(), token)
}

// Clear expires the cookie on the client.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	cookie, _ := m.store.Get(r, CookieName)
	delete(cookie.Values, sessionKeyID)
	cookie.Options.MaxAge = -1
	return cookie.Save(r, w)
}

// AddFlash queues a one-time message shown on the next rendered page.
// Flashes ride the same signed cookie as the session token.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	cookie, _ := m.store.Get(r, CookieName)
	cookie.AddFlash(message)
	return cookie.Save(r, w)
}

// Flashes drains and returns any queued flash messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	cookie, _ := m.store.Get(r, CookieName)
	raw := cookie.Flashes()
	if len(raw) > 0 {
		if err := cookie.Save(r, w); err != nil {
			log.Printf("Failed to clear flash messages: %v", err)
		}
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

// Sweep periodically deletes expired session rows until done is closed.
func (m *Manager) Sweep(interval time.Duration, done <-chan bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n, err := m.sessions.DeleteExpired(context.Background(), time.Now())
			if err != nil {
				log.Printf("Failed to sweep expired sessions: %v", err)
			} else if n > 0 {
				log.Printf("Removed %d expired sessions", n)
			}
		}
	}
}
