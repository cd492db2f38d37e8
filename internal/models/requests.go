package models

// LoginRequest carries credentials for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields for POST /register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PostRequest is the body for creating or updating a post.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CommentRequest is the body for creating or updating a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// ProfileRequest is the body for PUT /profiles/{id}. The record is replaced
// wholesale; every field is sent on each save.
type ProfileRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	GithubLink string `json:"github_link"`
	City       string `json:"city"`
	State      string `json:"state"`
}

// ErrorResponse is the standardized error body returned by the service.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
