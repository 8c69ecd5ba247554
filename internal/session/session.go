// Package session wraps Fiber's cookie session store with typed accessors
// for the two pieces of state this app carries across requests: the signed-in
// user and the site a user intended to check into before being diverted
// through login.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sebridge/checkin/internal/config"
)

const (
	keyUserEmail    = "user_email"
	keyUserName     = "user_name"
	keyIntendedSite = "intended_site"
	keyOAuthState   = "oauth_state"
)

// User is the identity stored after a successful login.
type User struct {
	Email string
	Name  string
}

type Manager struct {
	store *fibersession.Store
}

func NewManager(cfg *config.Config) *Manager {
	expiry := cfg.SessionExpiry
	if expiry <= 0 {
		expiry = 8 * time.Hour
	}
	store := fibersession.New(fibersession.Config{
		Expiration:     expiry,
		KeyLookup:      "cookie:checkin_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	return &Manager{store: store}
}

func (m *Manager) get(c *fiber.Ctx) (*fibersession.Session, error) {
	return m.store.Get(c)
}

// CurrentUser returns the signed-in user, if any.
func (m *Manager) CurrentUser(c *fiber.Ctx) (User, bool) {
	sess, err := m.get(c)
	if err != nil {
		return User{}, false
	}
	email, _ := sess.Get(keyUserEmail).(string)
	if email == "" {
		return User{}, false
	}
	name, _ := sess.Get(keyUserName).(string)
	return User{Email: email, Name: name}, true
}

func (m *Manager) SetUser(c *fiber.Ctx, u User) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	sess.Set(keyUserEmail, u.Email)
	sess.Set(keyUserName, u.Name)
	return sess.Save()
}

// IntendedSite returns and clears the site captured before a login redirect.
func (m *Manager) IntendedSite(c *fiber.Ctx) string {
	sess, err := m.get(c)
	if err != nil {
		return ""
	}
	site, _ := sess.Get(keyIntendedSite).(string)
	if site != "" {
		sess.Delete(keyIntendedSite)
		_ = sess.Save()
	}
	return site
}

func (m *Manager) SetIntendedSite(c *fiber.Ctx, site string) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	sess.Set(keyIntendedSite, site)
	return sess.Save()
}

// OAuthState returns and clears the anti-CSRF state for the SSO redirect.
func (m *Manager) OAuthState(c *fiber.Ctx) string {
	sess, err := m.get(c)
	if err != nil {
		return ""
	}
	state, _ := sess.Get(keyOAuthState).(string)
	if state != "" {
		sess.Delete(keyOAuthState)
		_ = sess.Save()
	}
	return state
}

func (m *Manager) SetOAuthState(c *fiber.Ctx, state string) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	sess.Set(keyOAuthState, state)
	return sess.Save()
}

// Destroy drops the whole session (logout).
func (m *Manager) Destroy(c *fiber.Ctx) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
