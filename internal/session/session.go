package session

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/config"
)

const (
	cookieName = "kaira_session"
	adminKey   = "admin_token"
	flashesKey = "_flash"
)

// Manager stores the admin session token and flash messages in a signed cookie.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager builds a Manager whose cookies are signed with cfg.Secret.
func NewManager(cfg *config.SessionConfig) *Manager {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// get never fails: a cookie that does not verify yields a fresh session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		log.Debug().Err(err).Msg("discarding unreadable session cookie")
	}
	return s
}

// AdminToken returns the admin token held by the session, or "".
func (m *Manager) AdminToken(r *http.Request) string {
	token, _ := m.get(r).Values[adminKey].(string)
	return token
}

// SetAdminToken stores token in the session.
func (m *Manager) SetAdminToken(w http.ResponseWriter, r *http.Request, token string) error {
	s := m.get(r)
	s.Values[adminKey] = token
	return s.Save(r, w)
}

// ClearAdmin removes the admin token. Flash messages survive.
func (m *Manager) ClearAdmin(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, adminKey)
	return s.Save(r, w)
}

// AddFlash queues a one-shot message for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	s := m.get(r)
	s.AddFlash(msg, flashesKey)
	return s.Save(r, w)
}

// Flashes pops all queued messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s := m.get(r)
	raw := s.Flashes(flashesKey)
	if len(raw) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if msg, ok := v.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	if err := s.Save(r, w); err != nil {
		log.Warn().Err(err).Msg("failed to persist consumed flashes")
	}
	return msgs
}
