package main

import (
	"fmt"
	"io"

	"github.com/krosengr4/byteboard/internal/models"
)

const timeLayout = "Jan 2 2006 15:04"

func renderPosts(w io.Writer, posts []models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts yet.")
		return
	}
	for _, p := range posts {
		fmt.Fprintf(w, "#%-4d %s\n", p.ID, p.Title)
		fmt.Fprintf(w, "      by %s on %s\n", p.Author, p.DatePosted.Local().Format(timeLayout))
	}
}

func renderPost(w io.Writer, p models.Post) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Title)
	fmt.Fprintf(w, "by %s on %s\n\n", p.Author, p.DatePosted.Local().Format(timeLayout))
	fmt.Fprintln(w, p.Content)
}

func renderComments(w io.Writer, comments []models.Comment) {
	fmt.Fprintf(w, "\n%d comment(s)\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(w, "  [%d] %s: %s\n", c.ID, c.Author, c.Content)
	}
}

func renderProfile(w io.Writer, p models.Profile) {
	fmt.Fprintf(w, "%s %s (user #%d)\n", p.FirstName, p.LastName, p.UserID)
	if p.Email != "" {
		fmt.Fprintf(w, "  email:  %s\n", p.Email)
	}
	if p.GithubLink != "" {
		fmt.Fprintf(w, "  github: %s\n", p.GithubLink)
	}
	if p.City != "" || p.State != "" {
		fmt.Fprintf(w, "  from:   %s %s\n", p.City, p.State)
	}
	fmt.Fprintf(w, "  member since %s\n", p.DateRegistered.Local().Format("Jan 2 2006"))
}
