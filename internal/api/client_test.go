package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krosengr4/byteboard/internal/apierr"
	"github.com/krosengr4/byteboard/internal/models"
	"github.com/krosengr4/byteboard/internal/token"
)

func TestBearerAttachment(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Post{})
	}))
	defer srv.Close()

	tokens := token.NewMemStore()
	c := New(srv.URL, tokens)

	// No token stored: no Authorization header.
	_, err := c.Posts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	require.NoError(t, tokens.Save("tok-abc"))
	_, err = c.Posts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestUnauthorizedClearsTokenAndSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Invalid or expired token", Code: "UNAUTHORIZED"})
	}))
	defer srv.Close()

	tokens := token.NewMemStore()
	require.NoError(t, tokens.Save("stale"))

	c := New(srv.URL, tokens)
	signaled := 0
	c.OnUnauthorized(func() { signaled++ })

	// The denial can come from any endpoint; use a cache fetch.
	_, err := c.Comments(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, apierr.IsUnauthorized(err))

	_, ok := tokens.Load()
	assert.False(t, ok, "rejected token must be discarded")
	assert.Equal(t, 1, signaled, "session-invalidated signal fires once per denial")
}

func TestUnauthorizedStillPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, token.NewMemStore())
	err := c.DeleteComment(context.Background(), 3)
	require.Error(t, err, "interception must not swallow the failure")
	assert.True(t, apierr.IsUnauthorized(err))
}

func TestFailureClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   apierr.Kind
	}{
		{"validation", http.StatusBadRequest, apierr.KindValidation},
		{"forbidden", http.StatusForbidden, apierr.KindForbidden},
		{"not found", http.StatusNotFound, apierr.KindNotFound},
		{"conflict", http.StatusConflict, apierr.KindConflict},
		{"server error", http.StatusInternalServerError, apierr.KindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(models.ErrorResponse{Error: tt.name})
			}))
			defer srv.Close()

			c := New(srv.URL, token.NewMemStore())
			_, err := c.Post(context.Background(), 1)
			require.Error(t, err)

			var ae *apierr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.want, ae.Kind)
			assert.Equal(t, tt.status, ae.Status)
			assert.Equal(t, tt.name, ae.Message)
		})
	}
}

func TestNonAuthFailureKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tokens := token.NewMemStore()
	require.NoError(t, tokens.Save("still-good"))

	c := New(srv.URL, tokens)
	_, err := c.Post(context.Background(), 99)
	require.Error(t, err)

	got, ok := tokens.Load()
	require.True(t, ok)
	assert.Equal(t, "still-good", got)
}

func TestTransportFailure(t *testing.T) {
	// Point at a closed server to force a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, token.NewMemStore(), WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := c.Posts(context.Background())
	require.Error(t, err)
	assert.True(t, apierr.IsTransport(err))
}

func TestCreateCommentDecodesServerEntity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.CommentRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Comment{
			ID: 42, PostID: 7, UserID: 1, Content: req.Content, Author: "ada",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, token.NewMemStore())
	created, err := c.CreateComment(context.Background(), 7, "hi")
	require.NoError(t, err)
	assert.Equal(t, uint(42), created.ID)
	assert.Equal(t, "hi", created.Content)
}

func TestMalformedResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, token.NewMemStore())
	_, err := c.Posts(context.Background())
	require.Error(t, err)

	var ae *apierr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apierr.KindServer, ae.Kind)
}
