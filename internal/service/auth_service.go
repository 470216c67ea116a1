package service

import (
	"context"
	"errors"
	"unicode"

	"github.com/rs/zerolog"

	"driverhub/api/internal/models"
	"driverhub/api/internal/repository"
	"driverhub/api/internal/session"
)

var (
	// ErrInvalidCredentials covers every authentication failure. Callers get
	// no hint whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
)

// InvalidInputError carries a field-level validation message the user can act on.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string { return e.Reason }

// UserStore is the slice of the record store the auth core needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// UpdatePassword persists the new hash and clears the rotation flag.
	UpdatePassword(ctx context.Context, userID string, hash []byte) error
}

// PasswordHasher is the one-way adaptive hash contract.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(password string, digest []byte) bool
	// DummyVerify costs the same as a failed Verify, for unknown-user paths.
	DummyVerify(password string)
}

type AuthService struct {
	users    UserStore
	hasher   PasswordHasher
	sessions *session.Manager
	log      zerolog.Logger
}

func NewAuthService(users UserStore, hasher PasswordHasher, sessions *session.Manager, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		log:      log,
	}
}

// Login verifies credentials and issues a session bound to the user's id,
// username, role and current rotation flag. All failures collapse into
// ErrInvalidCredentials, and the unknown-user path burns a dummy hash
// comparison so its timing matches a wrong-password attempt.
func (s *AuthService) Login(ctx context.Context, username, password string) (session.Session, error) {
	if username == "" || password == "" {
		return session.Session{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.DummyVerify(password)
			return session.Session{}, ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("user lookup failed")
		return session.Session{}, ErrStoreUnavailable
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return session.Session{}, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("session create failed")
		return session.Session{}, ErrStoreUnavailable
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return sess, nil
}

// Logout destroys the session behind token; unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ChangePassword runs the rotation flow for the session's user: validate the
// new password, re-authenticate with the current one, persist the new hash
// with the rotation flag cleared, and propagate the cleared flag into the
// live session.
func (s *AuthService) ChangePassword(ctx context.Context, sess session.Session, current, newPassword, confirm string) error {
	if current == "" || newPassword == "" || confirm == "" {
		return InvalidInputError{Reason: "all fields are required"}
	}
	if newPassword != confirm {
		return InvalidInputError{Reason: "new password and confirmation do not match"}
	}
	if err := validatePasswordPolicy(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByUsername(ctx, sess.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		s.log.Error().Err(err).Msg("user lookup failed")
		return ErrStoreUnavailable
	}

	// Re-authentication: a hijacked session alone must not be enough to
	// take over the account.
	if !s.hasher.Verify(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.log.Error().Err(err).Msg("password hash failed")
		return ErrStoreUnavailable
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("password update failed")
		return ErrStoreUnavailable
	}

	// Explicit propagation: without this the stale snapshot would keep
	// forcing rotation until the next login.
	if err := s.sessions.Touch(ctx, sess.Token, func(live *session.Session) {
		live.MustChangePassword = false
	}); err != nil && !errors.Is(err, session.ErrNotFound) {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("session touch failed")
		return ErrStoreUnavailable
	}

	s.log.Info().Str("user_id", user.ID).Msg("password rotated")
	return nil
}

// validatePasswordPolicy enforces length and complexity: at least 8
// characters with one uppercase letter, one lowercase letter and one digit.
// Symbols are allowed but not required.
func validatePasswordPolicy(password string) error {
	if len(password) < 8 {
		return InvalidInputError{Reason: "new password must be at least 8 characters"}
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return InvalidInputError{Reason: "new password needs an uppercase letter, a lowercase letter and a digit"}
	}
	return nil
}
