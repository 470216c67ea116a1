package session

import (
	"context"
	"errors"
	"time"

	"driverhub/api/internal/models"
)

// ErrNotFound is returned by Store.Update when the keyed session is gone.
var ErrNotFound = errors.New("session not found")

// Session is the server-held state behind one opaque token. The client only
// ever sees the token; role and rotation state never leave the server.
type Session struct {
	Token              string           `json:"-"`
	UserID             string           `json:"userId"`
	Username           string           `json:"username"`
	Role               models.UserRole  `json:"role"`
	MustChangePassword bool             `json:"mustChangePassword"`
	CreatedAt          time.Time        `json:"createdAt"`
	LastSeenAt         time.Time        `json:"lastSeenAt"`
	ExpiresAt          time.Time        `json:"expiresAt"`
}

// Expired reports whether the session's absolute lifetime has passed. The
// TTL is absolute, not sliding, to bound the window of a leaked token.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store is the backing state for the Manager. Keys are storage keys derived
// from tokens, never raw tokens.
type Store interface {
	Put(ctx context.Context, key string, s Session, ttl time.Duration) error
	Get(ctx context.Context, key string) (Session, bool, error)
	// Update applies mutate atomically to the stored session, if present.
	Update(ctx context.Context, key string, mutate func(*Session)) error
	// Delete is idempotent; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// DeleteExpired evicts sessions whose lifetime has passed and reports
	// how many were removed. Backends with native expiry may return 0.
	DeleteExpired(ctx context.Context) (int, error)
}
