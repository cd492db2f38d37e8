package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/krosengr4/byteboard/internal/models"
)

// Login exchanges credentials for a token and identity. The caller persists
// the token; the transport only reads it back on later requests.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the same shape as Login, plus a
// nested profile stub.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me resolves the identity behind the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.MeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Posts lists the whole feed.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Post fetches a single post.
func (c *Client) Post(ctx context.Context, postID uint) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", postID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostsByUser lists every post authored by one user.
func (c *Client) PostsByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var out []models.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost submits a new post and returns the server-assigned entity.
func (c *Client) CreatePost(ctx context.Context, title, content string) (*models.Post, error) {
	var out models.Post
	req := models.PostRequest{Title: title, Content: content}
	if err := c.do(ctx, http.MethodPost, "/posts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost replaces a post's title and content. The service returns no body.
func (c *Client) UpdatePost(ctx context.Context, postID uint, title, content string) error {
	req := models.PostRequest{Title: title, Content: content}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", postID), req, nil)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, nil)
}

// Comments lists a post's comments.
func (c *Client) Comments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment adds a comment to a post and returns the created entity.
func (c *Client) CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	var out models.Comment
	req := models.CommentRequest{Content: content}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComment replaces a comment's content. The service returns no body.
func (c *Client) UpdateComment(ctx context.Context, commentID uint, content string) error {
	req := models.CommentRequest{Content: content}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/comments/%d", commentID), req, nil)
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", commentID), nil, nil)
}

// Profiles lists every profile.
func (c *Client) Profiles(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	if err := c.do(ctx, http.MethodGet, "/profiles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile fetches one user's profile.
func (c *Client) Profile(ctx context.Context, userID uint) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/profiles/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces a profile record wholesale.
func (c *Client) UpdateProfile(ctx context.Context, userID uint, req models.ProfileRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/profiles/%d", userID), req, nil)
}
