package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/models"
)

// CommentThread caches the comments of one post, plus the single inline edit
// in progress, if any. At most one comment is in the Editing state at a time:
// starting an edit on a second comment abandons the first draft and reverts
// that comment to viewing.
type CommentThread struct {
	client *api.Client
	postID uint

	closed  bool
	state   LoadState
	loadErr error
	entries []models.Comment

	editing   bool
	editingID uint
	draft     string
}

func NewCommentThread(client *api.Client, postID uint) *CommentThread {
	return &CommentThread{client: client, postID: postID}
}

// PostID returns the post this thread belongs to.
func (t *CommentThread) PostID() uint {
	return t.postID
}

// State returns the load state and, when LoadFailed, the failure.
func (t *CommentThread) State() (LoadState, error) {
	return t.state, t.loadErr
}

// Comments returns the cached entries in server order.
func (t *CommentThread) Comments() []models.Comment {
	out := make([]models.Comment, len(t.entries))
	copy(out, t.entries)
	return out
}

// Close marks the owning view as gone; in-flight results are discarded.
func (t *CommentThread) Close() {
	t.closed = true
}

// Load replaces the cache with the post's comments.
func (t *CommentThread) Load(ctx context.Context) error {
	comments, err := t.client.Comments(ctx, t.postID)
	if t.closed {
		return err
	}
	if err != nil {
		t.state = LoadFailed
		t.loadErr = err
		return err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	t.state = LoadOK
	t.loadErr = nil
	t.entries = comments
	return nil
}

// Create submits a new comment and appends the server-assigned entity once
// confirmed.
func (t *CommentThread) Create(ctx context.Context, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("comment content is required")
	}

	created, err := t.client.CreateComment(ctx, t.postID, content)
	if err != nil {
		return models.Comment{}, err
	}
	if !t.closed {
		t.entries = append(t.entries, *created)
	}
	return *created, nil
}

// Delete removes a comment once the service confirms. A comment being edited
// when deleted also leaves the editing state. Deleting an already-absent ID
// changes nothing.
func (t *CommentThread) Delete(ctx context.Context, commentID uint) error {
	if err := t.client.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	if t.closed {
		return nil
	}
	kept := t.entries[:0]
	for _, c := range t.entries {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	t.entries = kept
	if t.editing && t.editingID == commentID {
		t.editing = false
		t.draft = ""
	}
	return nil
}

// Editing returns the ID of the comment currently being edited, if any.
func (t *CommentThread) Editing() (uint, bool) {
	return t.editingID, t.editing
}

// Draft returns the edit draft content.
func (t *CommentThread) Draft() string {
	return t.draft
}

// BeginEdit puts one comment into the Editing state, seeding the draft with
// its current content. Any edit already in progress on another comment is
// abandoned.
func (t *CommentThread) BeginEdit(commentID uint) error {
	for _, c := range t.entries {
		if c.ID == commentID {
			t.editing = true
			t.editingID = commentID
			t.draft = c.Content
			return nil
		}
	}
	return fmt.Errorf("comment %d not in thread", commentID)
}

// SetDraft replaces the pending draft content.
func (t *CommentThread) SetDraft(content string) {
	if t.editing {
		t.draft = content
	}
}

// CancelEdit returns the edited comment to viewing, discarding the draft.
func (t *CommentThread) CancelEdit() {
	t.editing = false
	t.editingID = 0
	t.draft = ""
}

// SaveEdit sends the draft and, once confirmed, commits it into the cache
// and returns the comment to viewing. The service echoes no body on update,
// so the entry takes the content just sent. On failure the comment stays in
// Editing with the draft intact so the user's input is not lost.
func (t *CommentThread) SaveEdit(ctx context.Context) error {
	if !t.editing {
		return fmt.Errorf("no edit in progress")
	}
	content := strings.TrimSpace(t.draft)
	if content == "" {
		return fmt.Errorf("comment content is required")
	}

	if err := t.client.UpdateComment(ctx, t.editingID, content); err != nil {
		return err
	}
	if t.closed {
		return nil
	}
	for i := range t.entries {
		if t.entries[i].ID == t.editingID {
			t.entries[i].Content = content
			break
		}
	}
	t.editing = false
	t.editingID = 0
	t.draft = ""
	return nil
}
