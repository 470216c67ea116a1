package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"driverhub/api/internal/models"
	"driverhub/api/internal/security"
)

type CookieOptions struct {
	Name   string
	Secure bool
}

// Manager owns session issuance, lookup, in-place mutation and teardown.
// Tokens are generated from crypto/rand and stored under an HMAC-derived key.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	cookie CookieOptions
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		secret: secret,
		ttl:    ttl,
		cookie: cookie,
		now:    time.Now,
	}
}

// Create issues a fresh session bound to the user's identity, role and
// current rotation flag. TTL is absolute from this moment.
func (m *Manager) Create(ctx context.Context, user models.User) (Session, error) {
	token, err := security.GenerateSessionToken()
	if err != nil {
		return Session{}, err
	}

	now := m.now()
	sess := Session{
		Token:              token,
		UserID:             user.ID,
		Username:           user.Username,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          now,
		LastSeenAt:         now,
		ExpiresAt:          now.Add(m.ttl),
	}

	if err := m.store.Put(ctx, m.key(token), sess, m.ttl); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Resolve returns the live session for token, or false for unknown or
// expired tokens. Expired entries are evicted lazily here.
func (m *Manager) Resolve(ctx context.Context, token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	sess, ok, err := m.store.Get(ctx, m.key(token))
	if err != nil || !ok {
		return Session{}, false
	}
	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, m.key(token))
		return Session{}, false
	}
	sess.Token = token
	return sess, true
}

// Touch applies an in-place update to the live session without reissuing the
// token. The rotation flow uses it to clear the must-change flag so the same
// login can proceed immediately.
func (m *Manager) Touch(ctx context.Context, token string, mutate func(*Session)) error {
	return m.store.Update(ctx, m.key(token), mutate)
}

// Destroy removes the session. Destroying an already-gone token is a no-op.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, m.key(token))
}

// SweepExpired evicts expired sessions eagerly; wired to the cron scheduler.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx)
}

// CookieName exposes the configured cookie name for request parsing.
func (m *Manager) CookieName() string {
	return m.cookie.Name
}

// TokenFromRequest extracts the opaque token, if any, from the cookie.
func (m *Manager) TokenFromRequest(c *gin.Context) string {
	token, err := c.Cookie(m.cookie.Name)
	if err != nil {
		return ""
	}
	return token
}

// SetCookie attaches the session cookie: HttpOnly, SameSite=Strict, Secure
// when the deployment is reachable over TLS, absolute MaxAge = TTL.
func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(m.cookie.Name, token, int(m.ttl.Seconds()), "/", "", m.cookie.Secure, true)
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

func (m *Manager) key(token string) string {
	return security.DeriveStorageKey(m.secret, token)
}
