package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/models"
	"github.com/krosengr4/byteboard/internal/session"
	"github.com/krosengr4/byteboard/internal/store"
)

// cli holds the view-controller layer: every command consumes the session
// store and entity caches, never the transport directly (reads excepted).
type cli struct {
	client  *api.Client
	session *session.Store
	out     io.Writer
}

func (a *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given, try `byteboard --help`")
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		a.session.Logout()
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	case "whoami":
		return a.whoami()
	case "posts":
		return a.feed(ctx)
	case "post":
		return a.postDetail(ctx, rest)
	case "post-create":
		return a.postCreate(ctx, rest)
	case "post-edit":
		return a.postEdit(ctx, rest)
	case "post-rm":
		return a.postRemove(ctx, rest)
	case "comment":
		return a.commentAdd(ctx, rest)
	case "comment-edit":
		return a.commentEdit(ctx, rest)
	case "comment-rm":
		return a.commentRemove(ctx, rest)
	case "profile":
		return a.profileShow(ctx, rest)
	case "profile-edit":
		return a.profileEdit(ctx, rest)
	case "user-posts":
		return a.userPosts(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *cli) requireAuth() error {
	if a.session.Status() != session.StatusAuthenticated {
		return fmt.Errorf("not logged in, run `byteboard login <username>`")
	}
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		defer fmt.Fprintln(os.Stderr)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: byteboard login <username>")
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, args[0], password); err != nil {
		return err
	}
	user, _ := a.session.User()
	fmt.Fprintf(a.out, "Welcome back, %s.\n", displayName(user))
	return nil
}

func (a *cli) register(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
	first := flags.String("first", "", "first name")
	last := flags.String("last", "", "last name")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: byteboard register <username> --first <name> [--last <name>]")
	}
	password, err := promptPassword("Choose a password: ")
	if err != nil {
		return err
	}
	if err := a.session.Register(ctx, flags.Arg(0), password, *first, *last); err != nil {
		return err
	}
	user, _ := a.session.User()
	fmt.Fprintf(a.out, "Welcome to ByteBoard, %s.\n", displayName(user))
	return nil
}

func (a *cli) whoami() error {
	user, ok := a.session.User()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s (#%d, %s)\n", user.Username, user.ID, user.Role)
	return nil
}

func (a *cli) feed(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	feed := store.NewPostFeed(a.client)
	defer feed.Close()

	if err := feed.Load(ctx); err != nil {
		return fmt.Errorf("the feed could not be loaded: %w", err)
	}
	renderPosts(a.out, feed.Posts())
	return nil
}

func (a *cli) userPosts(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	userID, err := parseUint(args, 0, "user ID")
	if err != nil {
		return err
	}
	feed := store.NewPostFeed(a.client)
	defer feed.Close()

	if err := feed.LoadByUser(ctx, userID); err != nil {
		return fmt.Errorf("the posts could not be loaded: %w", err)
	}
	renderPosts(a.out, feed.Posts())
	return nil
}

func (a *cli) postDetail(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	postID, err := parseUint(args, 0, "post ID")
	if err != nil {
		return err
	}

	feed := store.NewPostFeed(a.client)
	defer feed.Close()
	if err := feed.LoadOne(ctx, postID); err != nil {
		return fmt.Errorf("the post could not be loaded: %w", err)
	}
	post, _ := feed.Get(postID)
	renderPost(a.out, post)

	thread := store.NewCommentThread(a.client, postID)
	defer thread.Close()
	if err := thread.Load(ctx); err != nil {
		return fmt.Errorf("the comments could not be loaded: %w", err)
	}
	renderComments(a.out, thread.Comments())
	return nil
}

func (a *cli) postCreate(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	flags := pflag.NewFlagSet("post-create", pflag.ContinueOnError)
	title := flags.String("title", "", "post title")
	content := flags.String("content", "", "post body")
	if err := flags.Parse(args); err != nil {
		return err
	}

	feed := store.NewPostFeed(a.client)
	defer feed.Close()
	post, err := feed.Create(ctx, *title, *content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Published post #%d.\n", post.ID)
	return nil
}

func (a *cli) postEdit(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	flags := pflag.NewFlagSet("post-edit", pflag.ContinueOnError)
	title := flags.String("title", "", "new title")
	content := flags.String("content", "", "new body")
	if err := flags.Parse(args); err != nil {
		return err
	}
	postID, err := parseUint(flags.Args(), 0, "post ID")
	if err != nil {
		return err
	}

	feed := store.NewPostFeed(a.client)
	defer feed.Close()
	if err := feed.LoadOne(ctx, postID); err != nil {
		return fmt.Errorf("the post could not be loaded: %w", err)
	}
	post, _ := feed.Get(postID)
	if !a.session.Owns(post.UserID) {
		return fmt.Errorf("you can only edit your own posts")
	}

	newTitle, newContent := post.Title, post.Content
	if *title != "" {
		newTitle = *title
	}
	if *content != "" {
		newContent = *content
	}
	if err := feed.Update(ctx, postID, newTitle, newContent); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated post #%d.\n", postID)
	return nil
}

func (a *cli) postRemove(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	postID, err := parseUint(args, 0, "post ID")
	if err != nil {
		return err
	}

	feed := store.NewPostFeed(a.client)
	defer feed.Close()
	if err := feed.LoadOne(ctx, postID); err != nil {
		return fmt.Errorf("the post could not be loaded: %w", err)
	}
	post, _ := feed.Get(postID)
	if !a.session.Owns(post.UserID) {
		return fmt.Errorf("you can only delete your own posts")
	}

	if err := feed.Delete(ctx, postID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted post #%d.\n", postID)
	return nil
}

func (a *cli) commentAdd(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	postID, err := parseUint(args, 0, "post ID")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: byteboard comment <postID> <content>")
	}

	thread := store.NewCommentThread(a.client, postID)
	defer thread.Close()
	comment, err := thread.Create(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment #%d added.\n", comment.ID)
	return nil
}

func (a *cli) commentEdit(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	postID, err := parseUint(args, 0, "post ID")
	if err != nil {
		return err
	}
	commentID, err := parseUint(args, 1, "comment ID")
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("usage: byteboard comment-edit <postID> <commentID> <content>")
	}

	thread := store.NewCommentThread(a.client, postID)
	defer thread.Close()
	if err := thread.Load(ctx); err != nil {
		return fmt.Errorf("the comments could not be loaded: %w", err)
	}
	if err := a.ownComment(thread, commentID, "edit"); err != nil {
		return err
	}

	if err := thread.BeginEdit(commentID); err != nil {
		return err
	}
	thread.SetDraft(strings.Join(args[2:], " "))
	if err := thread.SaveEdit(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment #%d updated.\n", commentID)
	return nil
}

func (a *cli) commentRemove(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	postID, err := parseUint(args, 0, "post ID")
	if err != nil {
		return err
	}
	commentID, err := parseUint(args, 1, "comment ID")
	if err != nil {
		return err
	}

	thread := store.NewCommentThread(a.client, postID)
	defer thread.Close()
	if err := thread.Load(ctx); err != nil {
		return fmt.Errorf("the comments could not be loaded: %w", err)
	}
	if err := a.ownComment(thread, commentID, "delete"); err != nil {
		return err
	}

	if err := thread.Delete(ctx, commentID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment #%d deleted.\n", commentID)
	return nil
}

// ownComment applies the client-side ownership gate; the service re-enforces
// it regardless.
func (a *cli) ownComment(thread *store.CommentThread, commentID uint, verb string) error {
	for _, c := range thread.Comments() {
		if c.ID == commentID {
			if !a.session.Owns(c.UserID) {
				return fmt.Errorf("you can only %s your own comments", verb)
			}
			return nil
		}
	}
	return fmt.Errorf("comment %d not found on post %d", commentID, thread.PostID())
}

func (a *cli) profileShow(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	user, _ := a.session.User()
	userID := user.ID
	if len(args) > 0 {
		var err error
		userID, err = parseUint(args, 0, "user ID")
		if err != nil {
			return err
		}
	}

	view := store.NewProfileView(a.client)
	defer view.Close()
	if err := view.Load(ctx, userID); err != nil {
		return fmt.Errorf("the profile could not be loaded: %w", err)
	}
	renderProfile(a.out, view.Profile())
	return nil
}

func (a *cli) profileEdit(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	flags := pflag.NewFlagSet("profile-edit", pflag.ContinueOnError)
	first := flags.String("first", "", "first name")
	last := flags.String("last", "", "last name")
	email := flags.String("email", "", "email address")
	github := flags.String("github", "", "github link")
	city := flags.String("city", "", "city")
	state := flags.String("state", "", "state")
	if err := flags.Parse(args); err != nil {
		return err
	}

	user, _ := a.session.User()
	view := store.NewProfileView(a.client)
	defer view.Close()
	if err := view.Load(ctx, user.ID); err != nil {
		return fmt.Errorf("the profile could not be loaded: %w", err)
	}

	if err := view.BeginEdit(); err != nil {
		return err
	}
	draft := view.Draft()
	applyIfSet(&draft.FirstName, *first)
	applyIfSet(&draft.LastName, *last)
	applyIfSet(&draft.Email, *email)
	applyIfSet(&draft.GithubLink, *github)
	applyIfSet(&draft.City, *city)
	applyIfSet(&draft.State, *state)
	view.SetDraft(draft)

	if err := view.SaveEdit(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

func applyIfSet(field *string, value string) {
	if value != "" {
		*field = value
	}
}

func displayName(u models.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

func parseUint(args []string, idx int, what string) (uint, error) {
	if len(args) <= idx {
		return 0, fmt.Errorf("missing %s", what)
	}
	v, err := strconv.ParseUint(args[idx], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[idx])
	}
	return uint(v), nil
}
