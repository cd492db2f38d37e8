package boardserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/apierr"
	"github.com/krosengr4/byteboard/internal/session"
	"github.com/krosengr4/byteboard/internal/store"
	"github.com/krosengr4/byteboard/internal/token"
)

// startService serves the board service on a loopback listener and returns
// its base URL.
func startService(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = s.App().Listener(ln)
	}()
	t.Cleanup(func() { _ = s.Shutdown() })

	// Fiber needs a moment to start accepting.
	base := "http://" + ln.Addr().String()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", ln.Addr().String(), 50*time.Millisecond)
		if err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	return base
}

func newStack(t *testing.T, base string) (*session.Store, *api.Client, token.Store) {
	t.Helper()
	tokens := token.NewMemStore()
	client := api.New(base, tokens)
	return session.New(client, tokens, nil), client, tokens
}

func TestEndToEndBoardFlow(t *testing.T) {
	base := startService(t, newTestServer(t))
	sess, client, tokens := newStack(t, base)

	ctx := context.Background()
	require.NoError(t, sess.Restore(ctx))
	require.Equal(t, session.StatusAnonymous, sess.Status())

	// Register and land authenticated.
	require.NoError(t, sess.Register(ctx, "ada", "hunter2hunter2", "Ada", "Lovelace"))
	require.Equal(t, session.StatusAuthenticated, sess.Status())
	user, ok := sess.User()
	require.True(t, ok)
	assert.Equal(t, "Ada", user.FirstName)

	// An empty feed is a successful load, not a failure.
	feed := store.NewPostFeed(client)
	require.NoError(t, feed.Load(ctx))
	state, loadErr := feed.State()
	assert.Equal(t, store.LoadOK, state)
	assert.NoError(t, loadErr)
	assert.Empty(t, feed.Posts())

	// Publish a post, then talk to its comment thread.
	post, err := feed.Create(ctx, "First post", "Hello, board")
	require.NoError(t, err)
	require.NotZero(t, post.ID)

	thread := store.NewCommentThread(client, post.ID)
	require.NoError(t, thread.Load(ctx))

	created, err := thread.Create(ctx, "hi")
	require.NoError(t, err)
	require.Len(t, thread.Comments(), 1)
	assert.Equal(t, user.ID, created.UserID)
	assert.True(t, sess.Owns(created.UserID), "owner gate lets the author edit")

	require.NoError(t, thread.BeginEdit(created.ID))
	thread.SetDraft("hi, edited")
	require.NoError(t, thread.SaveEdit(ctx))
	assert.Equal(t, "hi, edited", thread.Comments()[0].Content)

	// Profile round trip.
	profile := store.NewProfileView(client)
	require.NoError(t, profile.Load(ctx, user.ID))
	require.NoError(t, profile.BeginEdit())
	draft := profile.Draft()
	draft.City = "London"
	profile.SetDraft(draft)
	require.NoError(t, profile.SaveEdit(ctx))
	assert.Equal(t, "London", profile.Profile().City)

	require.NoError(t, thread.Delete(ctx, created.ID))
	assert.Empty(t, thread.Comments())

	// Logout, then a restore finds nothing.
	sess.Logout()
	_, ok = tokens.Load()
	require.False(t, ok)
	require.NoError(t, sess.Restore(ctx))
	assert.Equal(t, session.StatusAnonymous, sess.Status())
}

func TestEndToEndSessionPersistsAcrossClients(t *testing.T) {
	base := startService(t, newTestServer(t))

	// First "run": register, token lands in the shared store.
	tokens := token.NewMemStore()
	client := api.New(base, tokens)
	sess := session.New(client, tokens, nil)
	ctx := context.Background()
	require.NoError(t, sess.Register(ctx, "grace", "hunter2hunter2", "Grace", "Hopper"))

	// Second "run": a fresh stack over the same durable store restores the
	// identity from the token alone.
	client2 := api.New(base, tokens)
	sess2 := session.New(client2, tokens, nil)
	require.NoError(t, sess2.Restore(ctx))
	require.Equal(t, session.StatusAuthenticated, sess2.Status())
	user, ok := sess2.User()
	require.True(t, ok)
	assert.Equal(t, "grace", user.Username)
}

func TestEndToEndInvalidTokenRestoreIsQuiet(t *testing.T) {
	base := startService(t, newTestServer(t))
	sess, _, tokens := newStack(t, base)
	require.NoError(t, tokens.Save("not-a-jwt"))

	err := sess.Restore(context.Background())
	assert.NoError(t, err, "a rejected stored token is the expected case")
	assert.Equal(t, session.StatusAnonymous, sess.Status())
	_, ok := tokens.Load()
	assert.False(t, ok)
}

func TestEndToEndForcedInvalidation(t *testing.T) {
	base := startService(t, newTestServer(t))
	sess, client, tokens := newStack(t, base)
	ctx := context.Background()
	require.NoError(t, sess.Register(ctx, "ada", "hunter2hunter2", "Ada", "Lovelace"))

	invalidated := 0
	sess.OnInvalidated(func() { invalidated++ })

	// The token rots server-side (here: replaced with garbage). The next
	// cache fetch hits 401 and collapses the session regardless of which
	// cache initiated it.
	require.NoError(t, tokens.Save("rotten"))
	thread := store.NewCommentThread(client, 1)
	err := thread.Load(ctx)
	require.Error(t, err)
	assert.True(t, apierr.IsUnauthorized(err))

	state, loadErr := thread.State()
	assert.Equal(t, store.LoadFailed, state)
	assert.Error(t, loadErr)

	assert.Equal(t, session.StatusAnonymous, sess.Status())
	assert.Equal(t, 1, invalidated)
	_, ok := tokens.Load()
	assert.False(t, ok)
}

func TestEndToEndFetchFailureIsDistinctFromEmpty(t *testing.T) {
	srv := newTestServer(t)
	base := startService(t, srv)
	sess, client, _ := newStack(t, base)
	ctx := context.Background()
	require.NoError(t, sess.Register(ctx, "ada", "hunter2hunter2", "Ada", "Lovelace"))

	feed := store.NewPostFeed(client)
	require.NoError(t, feed.Load(ctx))
	state, _ := feed.State()
	require.Equal(t, store.LoadOK, state, `empty feed renders as "no posts yet"`)

	// Same fetch against a dead service is a load failure, not an empty
	// feed.
	require.NoError(t, srv.Shutdown())
	failed := store.NewPostFeed(client)
	require.Error(t, failed.Load(ctx))
	state, loadErr := failed.State()
	assert.Equal(t, store.LoadFailed, state)
	assert.True(t, apierr.IsTransport(loadErr))
}
