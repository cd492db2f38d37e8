// Package models contains the wire-level data structures exchanged with the
// ByteBoard service.
package models

import "time"

// User is the authenticated identity returned by login, register and
// identity lookup. It is immutable for the lifetime of a session.
type User struct {
	ID        uint   `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
}

// Post is a feed entry. The author name is denormalized server-side.
type Post struct {
	ID         uint      `json:"post_id"`
	UserID     uint      `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	DatePosted time.Time `json:"date_posted"`
}

// Comment belongs to exactly one post; PostID never changes after creation.
type Comment struct {
	ID         uint      `json:"comment_id"`
	PostID     uint      `json:"post_id"`
	UserID     uint      `json:"user_id"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	DatePosted time.Time `json:"date_posted"`
}

// Profile is the extended per-user record, 1:1 with User by UserID.
type Profile struct {
	UserID         uint      `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	GithubLink     string    `json:"github_link"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	DateRegistered time.Time `json:"date_registered"`
}

// AuthResponse is the payload of a successful login or register call.
// Profile is only present on register.
type AuthResponse struct {
	Token   string           `json:"token"`
	User    User             `json:"user"`
	Profile *RegisterProfile `json:"profile,omitempty"`
}

// RegisterProfile is the nested profile stub the register endpoint returns.
type RegisterProfile struct {
	FirstName string `json:"first_name"`
}

// MeResponse is the payload of the identity-lookup endpoint.
type MeResponse struct {
	User User `json:"user"`
}
