package store

import (
	"context"
	"fmt"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/models"
)

// ProfileView caches one user's profile and runs the whole-record
// Viewing ⇄ Editing machine: the draft is seeded from the last-fetched
// record and committed wholesale on a confirmed save.
type ProfileView struct {
	client *api.Client

	closed  bool
	state   LoadState
	loadErr error
	record  models.Profile

	editing bool
	draft   models.ProfileRequest
}

func NewProfileView(client *api.Client) *ProfileView {
	return &ProfileView{client: client}
}

// State returns the load state and, when LoadFailed, the failure.
func (v *ProfileView) State() (LoadState, error) {
	return v.state, v.loadErr
}

// Profile returns the cached record.
func (v *ProfileView) Profile() models.Profile {
	return v.record
}

// Close marks the owning view as gone; in-flight results are discarded.
func (v *ProfileView) Close() {
	v.closed = true
}

// Load replaces the cached record with one user's profile.
func (v *ProfileView) Load(ctx context.Context, userID uint) error {
	profile, err := v.client.Profile(ctx, userID)
	if v.closed {
		return err
	}
	if err != nil {
		v.state = LoadFailed
		v.loadErr = err
		return err
	}
	v.state = LoadOK
	v.loadErr = nil
	v.record = *profile
	return nil
}

// Editing reports whether the record is in the Editing state.
func (v *ProfileView) Editing() bool {
	return v.editing
}

// Draft returns the pending edit.
func (v *ProfileView) Draft() models.ProfileRequest {
	return v.draft
}

// BeginEdit seeds the draft from the last-fetched record.
func (v *ProfileView) BeginEdit() error {
	if v.state != LoadOK {
		return fmt.Errorf("profile not loaded")
	}
	v.editing = true
	v.draft = models.ProfileRequest{
		FirstName:  v.record.FirstName,
		LastName:   v.record.LastName,
		Email:      v.record.Email,
		GithubLink: v.record.GithubLink,
		City:       v.record.City,
		State:      v.record.State,
	}
	return nil
}

// SetDraft replaces the pending edit wholesale.
func (v *ProfileView) SetDraft(d models.ProfileRequest) {
	if v.editing {
		v.draft = d
	}
}

// CancelEdit returns to viewing, discarding the draft.
func (v *ProfileView) CancelEdit() {
	v.editing = false
	v.draft = models.ProfileRequest{}
}

// SaveEdit sends the draft and, once confirmed, overwrites the cached record
// with the values just sent; the service echoes nothing back. On failure the
// record stays in Editing with the draft intact.
func (v *ProfileView) SaveEdit(ctx context.Context) error {
	if !v.editing {
		return fmt.Errorf("no edit in progress")
	}

	if err := v.client.UpdateProfile(ctx, v.record.UserID, v.draft); err != nil {
		return err
	}
	if v.closed {
		return nil
	}
	v.record.FirstName = v.draft.FirstName
	v.record.LastName = v.draft.LastName
	v.record.Email = v.draft.Email
	v.record.GithubLink = v.draft.GithubLink
	v.record.City = v.draft.City
	v.record.State = v.draft.State
	v.editing = false
	v.draft = models.ProfileRequest{}
	return nil
}
