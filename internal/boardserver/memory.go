package boardserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/krosengr4/byteboard/internal/models"
)

// account couples an identity with its credential hash.
type account struct {
	user models.User
	hash []byte
}

// memory is the in-memory backing store. All access goes through the mutex;
// fiber serves requests concurrently.
type memory struct {
	mu         sync.Mutex
	accounts   map[uint]*account
	byUsername map[string]uint
	profiles   map[uint]models.Profile
	posts      map[uint]models.Post
	comments   map[uint]models.Comment

	nextUser    uint
	nextPost    uint
	nextComment uint
}

func newMemory() *memory {
	return &memory{
		accounts:   make(map[uint]*account),
		byUsername: make(map[string]uint),
		profiles:   make(map[uint]models.Profile),
		posts:      make(map[uint]models.Post),
		comments:   make(map[uint]models.Comment),
	}
}

func (m *memory) createUser(username string, hash []byte, role, firstName, lastName string) (models.User, models.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(username)
	if _, taken := m.byUsername[key]; taken {
		return models.User{}, models.Profile{}, false
	}

	m.nextUser++
	user := models.User{
		ID:        m.nextUser,
		Username:  username,
		Role:      role,
		FirstName: firstName,
	}
	profile := models.Profile{
		UserID:         user.ID,
		FirstName:      firstName,
		LastName:       lastName,
		DateRegistered: time.Now().UTC(),
	}
	m.accounts[user.ID] = &account{user: user, hash: hash}
	m.byUsername[key] = user.ID
	m.profiles[user.ID] = profile
	return user, profile, true
}

func (m *memory) userByUsername(username string) (models.User, []byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byUsername[strings.ToLower(username)]
	if !ok {
		return models.User{}, nil, false
	}
	acct := m.accounts[id]
	return acct.user, acct.hash, true
}

func (m *memory) userByID(id uint) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return acct.user, true
}

func (m *memory) profile(userID uint) (models.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	return p, ok
}

func (m *memory) profileList() []models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (m *memory) updateProfile(userID uint, req models.ProfileRequest) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return false
	}
	p.FirstName = req.FirstName
	p.LastName = req.LastName
	p.Email = req.Email
	p.GithubLink = req.GithubLink
	p.City = req.City
	p.State = req.State
	m.profiles[userID] = p
	return true
}

func (m *memory) createPost(userID uint, author, title, content string) models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPost++
	post := models.Post{
		ID:         m.nextPost,
		UserID:     userID,
		Title:      title,
		Content:    content,
		Author:     author,
		DatePosted: time.Now().UTC(),
	}
	m.posts[post.ID] = post
	return post
}

func (m *memory) post(id uint) (models.Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	return p, ok
}

// postList returns posts newest-first, the feed order.
func (m *memory) postList() []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sortPostsDesc(out)
	return out
}

func (m *memory) postsByUser(userID uint) []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, 0)
	for _, p := range m.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortPostsDesc(out)
	return out
}

func (m *memory) updatePost(id uint, title, content string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return false
	}
	p.Title = title
	p.Content = content
	m.posts[id] = p
	return true
}

// deletePost removes a post and its comments.
func (m *memory) deletePost(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return false
	}
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	return true
}

func (m *memory) createComment(postID, userID uint, author, content string) models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextComment++
	comment := models.Comment{
		ID:         m.nextComment,
		PostID:     postID,
		UserID:     userID,
		Content:    content,
		Author:     author,
		DatePosted: time.Now().UTC(),
	}
	m.comments[comment.ID] = comment
	return comment
}

func (m *memory) comment(id uint) (models.Comment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	return c, ok
}

// commentsForPost returns a post's comments oldest-first.
func (m *memory) commentsForPost(postID uint) []models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Comment, 0)
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memory) updateComment(id uint, content string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return false
	}
	c.Content = content
	m.comments[id] = c
	return true
}

func (m *memory) deleteComment(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return false
	}
	delete(m.comments, id)
	return true
}

func sortPostsDesc(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].DatePosted.Equal(posts[j].DatePosted) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].DatePosted.After(posts[j].DatePosted)
	})
}
