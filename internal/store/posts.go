package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/models"
)

// PostFeed caches one screen's worth of posts: the whole feed, a single
// user's posts, or one post opened in detail. Loads replace the cache
// wholesale; mutations merge confirmed results only.
type PostFeed struct {
	client *api.Client

	closed  bool
	state   LoadState
	loadErr error
	posts   []models.Post
}

func NewPostFeed(client *api.Client) *PostFeed {
	return &PostFeed{client: client}
}

// State returns the load state and, when LoadFailed, the failure.
func (f *PostFeed) State() (LoadState, error) {
	return f.state, f.loadErr
}

// Posts returns the cached entries in server order.
func (f *PostFeed) Posts() []models.Post {
	out := make([]models.Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// Get returns the cached post with the given ID.
func (f *PostFeed) Get(postID uint) (models.Post, bool) {
	for _, p := range f.posts {
		if p.ID == postID {
			return p, true
		}
	}
	return models.Post{}, false
}

// Close marks the owning view as gone. Results of requests still in flight
// are discarded instead of being merged.
func (f *PostFeed) Close() {
	f.closed = true
}

// Load replaces the cache with the full feed.
func (f *PostFeed) Load(ctx context.Context) error {
	posts, err := f.client.Posts(ctx)
	return f.replace(posts, err)
}

// LoadByUser replaces the cache with one user's posts.
func (f *PostFeed) LoadByUser(ctx context.Context, userID uint) error {
	posts, err := f.client.PostsByUser(ctx, userID)
	return f.replace(posts, err)
}

// LoadOne replaces the cache with a single post, for the detail screen.
func (f *PostFeed) LoadOne(ctx context.Context, postID uint) error {
	post, err := f.client.Post(ctx, postID)
	if err != nil {
		return f.replace(nil, err)
	}
	return f.replace([]models.Post{*post}, nil)
}

func (f *PostFeed) replace(posts []models.Post, err error) error {
	if f.closed {
		return err
	}
	if err != nil {
		f.state = LoadFailed
		f.loadErr = err
		return err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	f.state = LoadOK
	f.loadErr = nil
	f.posts = posts
	return nil
}

// Create submits a new post and, on confirmation, prepends the
// server-assigned entity. Titles are capped server-side at 255 characters;
// the gate here only spares a round trip for obviously invalid input.
func (f *PostFeed) Create(ctx context.Context, title, content string) (models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return models.Post{}, fmt.Errorf("title and content are required")
	}

	created, err := f.client.CreatePost(ctx, title, content)
	if err != nil {
		return models.Post{}, err
	}
	if !f.closed {
		f.posts = append([]models.Post{*created}, f.posts...)
	}
	return *created, nil
}

// Update overwrites a post's title and content once the service confirms.
// The service returns no body on update, so the cache entry takes the values
// just sent.
func (f *PostFeed) Update(ctx context.Context, postID uint, title, content string) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return fmt.Errorf("title and content are required")
	}

	if err := f.client.UpdatePost(ctx, postID, title, content); err != nil {
		return err
	}
	if f.closed {
		return nil
	}
	for i := range f.posts {
		if f.posts[i].ID == postID {
			f.posts[i].Title = title
			f.posts[i].Content = content
			break
		}
	}
	return nil
}

// Delete removes a post from the cache once the service confirms. Deleting
// an ID that is already absent leaves the cache as-is.
func (f *PostFeed) Delete(ctx context.Context, postID uint) error {
	if err := f.client.DeletePost(ctx, postID); err != nil {
		return err
	}
	if f.closed {
		return nil
	}
	kept := f.posts[:0]
	for _, p := range f.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	f.posts = kept
	return nil
}
