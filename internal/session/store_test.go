package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/apierr"
	"github.com/krosengr4/byteboard/internal/models"
	"github.com/krosengr4/byteboard/internal/token"
)

// fakeService is a minimal stand-in for the board service's auth surface.
type fakeService struct {
	validToken string
	user       models.User
	meCalls    int
	failMe     int // status to fail /auth/me with, 0 = honor validToken
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(models.AuthResponse{Token: f.validToken, User: f.user})
	})
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.AuthResponse{
			Token:   f.validToken,
			User:    models.User{ID: 9, Username: req.Username, Role: "user"},
			Profile: &models.RegisterProfile{FirstName: req.FirstName},
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.meCalls++
		if f.failMe != 0 {
			w.WriteHeader(f.failMe)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+f.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Invalid or expired token"})
			return
		}
		json.NewEncoder(w).Encode(models.MeResponse{User: f.user})
	})
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]models.Post{})
	})
	return mux
}

func newTestStore(t *testing.T, f *fakeService) (*Store, *api.Client, token.Store) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	tokens := token.NewMemStore()
	client := api.New(srv.URL, tokens)
	return New(client, tokens, nil), client, tokens
}

func testIdentity() models.User {
	return models.User{ID: 3, Username: "ada", Role: "user", FirstName: "Ada"}
}

func TestLoginLogoutRestoreEndsAnonymous(t *testing.T) {
	f := &fakeService{validToken: "good", user: testIdentity()}
	s, _, tokens := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "ada", "hunter2"))
	assert.Equal(t, StatusAuthenticated, s.Status())

	s.Logout()
	assert.Equal(t, StatusAnonymous, s.Status())
	_, ok := tokens.Load()
	assert.False(t, ok)

	require.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, StatusAnonymous, s.Status())
	_, ok = tokens.Load()
	assert.False(t, ok, "restore after logout must not resurrect a token")
}

func TestRestoreWithoutTokenSkipsLookup(t *testing.T) {
	f := &fakeService{validToken: "good", user: testIdentity()}
	s, _, _ := newTestStore(t, f)

	require.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, StatusAnonymous, s.Status())
	assert.Zero(t, f.meCalls, "no token means no identity lookup")
}

func TestRestoreValidToken(t *testing.T) {
	f := &fakeService{validToken: "good", user: testIdentity()}
	s, _, tokens := newTestStore(t, f)
	require.NoError(t, tokens.Save("good"))

	require.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, StatusAuthenticated, s.Status())

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, uint(3), u.ID)
	assert.Equal(t, "ada", u.Username)
}

func TestRestoreExpiredTokenIsQuiet(t *testing.T) {
	f := &fakeService{validToken: "good", user: testIdentity()}
	s, _, tokens := newTestStore(t, f)
	require.NoError(t, tokens.Save("expired"))

	notified := false
	s.OnInvalidated(func() { notified = true })

	err := s.Restore(context.Background())
	assert.NoError(t, err, "an expired restore token is expected, not exceptional")
	assert.Equal(t, StatusAnonymous, s.Status())

	_, ok := tokens.Load()
	assert.False(t, ok, "expired token must be removed")
	assert.False(t, notified, "quiet path must not fire the invalidation signal")
}

func TestRestoreOtherFailureIsDiagnosable(t *testing.T) {
	f := &fakeService{validToken: "good", user: testIdentity(), failMe: http.StatusInternalServerError}
	s, _, tokens := newTestStore(t, f)
	require.NoError(t, tokens.Save("good"))

	err := s.Restore(context.Background())
	require.Error(t, err, "non-expiry restore failures are distinguishable")
	assert.Equal(t, StatusAnonymous, s.Status())
	_, ok := tokens.Load()
	assert.False(t, ok)
}

func TestLoginPersistsToken(t *testing.T) {
	f := &fakeService{validToken: "issued", user: testIdentity()}
	s, _, tokens := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "ada", "hunter2"))
	got, ok := tokens.Load()
	require.True(t, ok)
	assert.Equal(t, "issued", got)
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	f := &fakeService{validToken: "good", user: testIdentity()}
	s, _, _ := newTestStore(t, f)
	require.NoError(t, s.Restore(context.Background()))

	notified := false
	s.OnInvalidated(func() { notified = true })

	err := s.Login(context.Background(), "ada", "wrong")
	require.Error(t, err)
	assert.True(t, apierr.IsUnauthorized(err), "invalid credentials surface for display")
	assert.Equal(t, StatusAnonymous, s.Status())
	assert.False(t, notified, "a failed login is not a session invalidation")
	_, ok := s.User()
	assert.False(t, ok)
}

func TestRegisterEstablishesSession(t *testing.T) {
	f := &fakeService{validToken: "fresh", user: testIdentity()}
	s, _, tokens := newTestStore(t, f)

	require.NoError(t, s.Register(context.Background(), "grace", "hunter2", "Grace", "Hopper"))
	assert.Equal(t, StatusAuthenticated, s.Status())

	got, ok := tokens.Load()
	require.True(t, ok)
	assert.Equal(t, "fresh", got)

	// The user record left first_name empty, so the profile stub fills it.
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Grace", u.FirstName)
}

func TestForcedInvalidationMidSession(t *testing.T) {
	f := &fakeService{validToken: "good", user: testIdentity()}
	s, client, tokens := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "ada", "hunter2"))

	notified := 0
	s.OnInvalidated(func() { notified++ })

	// Simulate server-side expiry: the stored token is no longer accepted.
	require.NoError(t, tokens.Save("revoked"))
	_, err := client.Posts(context.Background())
	require.Error(t, err)
	assert.True(t, apierr.IsUnauthorized(err))

	assert.Equal(t, StatusAnonymous, s.Status(), "any 401 collapses the session")
	assert.Equal(t, 1, notified)
	_, ok := tokens.Load()
	assert.False(t, ok)
}
