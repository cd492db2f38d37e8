package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/models"
	"github.com/krosengr4/byteboard/internal/token"
)

func seededProfile() models.Profile {
	return models.Profile{
		UserID:         3,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		GithubLink:     "https://github.com/ada",
		City:           "London",
		State:          "",
		DateRegistered: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
	}
}

func newProfileView(t *testing.T, failSave bool) *ProfileView {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /profiles/3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(seededProfile())
	})
	mux.HandleFunc("PUT /profiles/3", func(w http.ResponseWriter, r *http.Request) {
		if failSave {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewProfileView(api.New(srv.URL, token.NewMemStore()))
}

func TestProfileLoad(t *testing.T) {
	v := newProfileView(t, false)
	require.NoError(t, v.Load(context.Background(), 3))

	state, err := v.State()
	assert.Equal(t, LoadOK, state)
	assert.NoError(t, err)
	assert.Equal(t, seededProfile(), v.Profile())
}

func TestProfileEditSeededFromRecord(t *testing.T) {
	v := newProfileView(t, false)
	require.NoError(t, v.Load(context.Background(), 3))

	require.NoError(t, v.BeginEdit())
	d := v.Draft()
	assert.Equal(t, "Ada", d.FirstName)
	assert.Equal(t, "https://github.com/ada", d.GithubLink)
}

func TestProfileEditRequiresLoad(t *testing.T) {
	v := newProfileView(t, false)
	require.Error(t, v.BeginEdit())
}

func TestProfileSaveCommitsSentValues(t *testing.T) {
	v := newProfileView(t, false)
	require.NoError(t, v.Load(context.Background(), 3))
	require.NoError(t, v.BeginEdit())

	d := v.Draft()
	d.City = "Cambridge"
	d.State = "MA"
	v.SetDraft(d)
	require.NoError(t, v.SaveEdit(context.Background()))

	assert.False(t, v.Editing())
	got := v.Profile()
	assert.Equal(t, "Cambridge", got.City)
	assert.Equal(t, "MA", got.State)
	// Fields the draft carried unchanged stay unchanged.
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, seededProfile().DateRegistered, got.DateRegistered)
}

func TestProfileSaveFailureKeepsDraftAndRecord(t *testing.T) {
	v := newProfileView(t, true)
	require.NoError(t, v.Load(context.Background(), 3))
	require.NoError(t, v.BeginEdit())

	d := v.Draft()
	d.Email = "new@example.com"
	v.SetDraft(d)
	require.Error(t, v.SaveEdit(context.Background()))

	assert.True(t, v.Editing(), "failure stays in Editing")
	assert.Equal(t, "new@example.com", v.Draft().Email, "draft intact")
	assert.Equal(t, seededProfile(), v.Profile(), "record untouched")
}

func TestProfileCancelEdit(t *testing.T) {
	v := newProfileView(t, false)
	require.NoError(t, v.Load(context.Background(), 3))
	require.NoError(t, v.BeginEdit())

	d := v.Draft()
	d.FirstName = "Changed"
	v.SetDraft(d)
	v.CancelEdit()

	assert.False(t, v.Editing())
	assert.Equal(t, seededProfile(), v.Profile())
}

func TestProfileClosedDropsResults(t *testing.T) {
	v := newProfileView(t, false)
	require.NoError(t, v.Load(context.Background(), 3))
	require.NoError(t, v.BeginEdit())

	v.Close()
	require.NoError(t, v.SaveEdit(context.Background()))
	assert.Equal(t, seededProfile(), v.Profile(), "closed view is never merged into")
}
