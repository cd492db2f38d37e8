// Package session owns the single source of truth for the authenticated
// identity and orchestrates the token lifecycle: restore at startup, login,
// register, logout, and forced invalidation on credential rejection.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/apierr"
	"github.com/krosengr4/byteboard/internal/models"
	"github.com/krosengr4/byteboard/internal/token"
)

// Status is the session state. Initializing is entered exactly once, at
// startup, and left by Restore.
type Status int

const (
	StatusInitializing Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Store holds the current session. It is injected into every consumer; there
// is no package-level instance. Authenticated holds iff an identity and a
// stored token are both present.
type Store struct {
	client *api.Client
	tokens token.Store
	log    *slog.Logger

	mu            sync.Mutex
	status        Status
	user          *models.User
	onInvalidated []func()
}

// New wires a Store to the transport. The Store registers itself for the
// transport's credential-rejection signal so any 401, from any endpoint,
// collapses the session to Anonymous.
func New(client *api.Client, tokens token.Store, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		client: client,
		tokens: tokens,
		log:    log,
		status: StatusInitializing,
	}
	client.OnUnauthorized(s.invalidate)
	return s
}

// Status returns the current session state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns a copy of the authenticated identity, or ok=false when the
// session is not Authenticated.
func (s *Store) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Owns reports whether the authenticated identity owns the given user ID.
// This is a UX gate only; the service re-enforces ownership.
func (s *Store) Owns(userID uint) bool {
	u, ok := s.User()
	return ok && u.ID == userID
}

// OnInvalidated registers a callback fired when an Authenticated session is
// forcibly collapsed by a credential rejection. The application layer reacts
// by navigating to its login surface; nothing in this package or the
// transport does.
func (s *Store) OnInvalidated(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidated = append(s.onInvalidated, fn)
}

// Restore resolves the durable token, if any, into a session. Called once at
// startup; it is the only way out of Initializing.
//
// A token the service rejects as expired or invalid is the expected case and
// is not an error: the token is discarded and the session becomes Anonymous
// quietly. Any other lookup failure also ends Anonymous with the token
// discarded, but is returned for diagnostics.
func (s *Store) Restore(ctx context.Context) error {
	if _, ok := s.tokens.Load(); !ok {
		s.setAnonymous()
		return nil
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		if apierr.IsUnauthorized(err) {
			// Transport already cleared the token.
			s.log.Debug("stored token expired, starting anonymous")
			s.setAnonymous()
			return nil
		}
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.Warn("failed to clear token after restore failure", "error", clearErr)
		}
		s.setAnonymous()
		s.log.Warn("session restore failed", "error", err)
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	s.status = StatusAuthenticated
	s.user = user
	s.mu.Unlock()
	s.log.Debug("session restored", "user_id", user.ID, "username", user.Username)
	return nil
}

// Login exchanges credentials for a session. On failure the session remains
// Anonymous and the classified error is returned for display; no retry.
func (s *Store) Login(ctx context.Context, username, password string) error {
	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.setAnonymous()
		return err
	}
	return s.establish(resp.Token, resp.User)
}

// Register creates an account and behaves like Login on success. The
// top-level user record is the canonical source of the display name; the
// nested profile stub fills it only when the user record leaves it empty.
func (s *Store) Register(ctx context.Context, username, password, firstName, lastName string) error {
	resp, err := s.client.Register(ctx, models.RegisterRequest{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		s.setAnonymous()
		return err
	}
	if resp.User.FirstName == "" && resp.Profile != nil {
		resp.User.FirstName = resp.Profile.FirstName
	}
	return s.establish(resp.Token, resp.User)
}

// Logout discards the session unconditionally. No remote call is involved;
// it cannot fail into a half-logged-out state.
func (s *Store) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("failed to clear token on logout", "error", err)
	}
	s.setAnonymous()
}

func (s *Store) establish(tok string, user models.User) error {
	if err := s.tokens.Save(tok); err != nil {
		// Without a persisted token the session would not survive a
		// restart, but the in-memory session is still valid.
		s.log.Warn("failed to persist token", "error", err)
	}
	s.mu.Lock()
	s.status = StatusAuthenticated
	s.user = &user
	s.mu.Unlock()
	s.log.Info("session established", "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.status = StatusAnonymous
	s.user = nil
	s.mu.Unlock()
}

// invalidate is the transport's credential-rejection hook. Subscribers are
// only notified when an Authenticated session is torn down; denials during
// Initializing (an expired restore token) or while already Anonymous (a
// failed login) stay quiet.
func (s *Store) invalidate() {
	s.mu.Lock()
	wasAuthenticated := s.status == StatusAuthenticated
	s.status = StatusAnonymous
	s.user = nil
	subscribers := s.onInvalidated
	s.mu.Unlock()

	if !wasAuthenticated {
		return
	}
	s.log.Info("session invalidated by service")
	for _, fn := range subscribers {
		fn()
	}
}
