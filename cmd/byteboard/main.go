// Command byteboard is a terminal client for a ByteBoard discussion-board
// service: log in, read the feed, comment, and manage your profile.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/krosengr4/byteboard/internal/api"
	"github.com/krosengr4/byteboard/internal/config"
	"github.com/krosengr4/byteboard/internal/session"
	"github.com/krosengr4/byteboard/internal/token"
)

const usage = `Usage: byteboard [flags] <command> [args]

Commands:
  register <username>          create an account and log in
  login <username>             log in
  logout                       log out
  whoami                       show the current identity
  posts                        show the feed
  post <id>                    show one post with its comments
  post-create                  publish a post (--title, --content)
  post-edit <id>               edit your post (--title, --content)
  post-rm <id>                 delete your post
  comment <postID> <content>   comment on a post
  comment-edit <postID> <commentID> <content>
  comment-rm <postID> <commentID>
  profile [userID]             show a profile (default: yours)
  profile-edit                 edit your profile
  user-posts <userID>          show one user's posts

Flags:
`

func main() {
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("byteboard", pflag.ExitOnError)
	verbose := flags.Bool("verbose", false, "enable debug logging")
	apiURL := flags.String("api", "", "service base URL (overrides config)")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	cfg := config.Load()
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	tokenPath := cfg.TokenFile
	if tokenPath == "" {
		var err error
		tokenPath, err = token.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot resolve token path: %v\n", err)
			os.Exit(1)
		}
	}
	tokens := token.NewFileStore(tokenPath)

	client := api.New(cfg.APIBaseURL, tokens,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithLogger(logger),
	)
	sess := session.New(client, tokens, logger)
	sess.OnInvalidated(func() {
		fmt.Fprintln(os.Stderr, "Your session has expired. Run `byteboard login` to continue.")
	})

	ctx := context.Background()
	if err := sess.Restore(ctx); err != nil {
		// Continue anonymous; the failure was already logged.
		fmt.Fprintln(os.Stderr, "Could not restore your session; continuing logged out.")
	}

	app := &cli{client: client, session: sess, out: os.Stdout}
	if err := app.run(ctx, flags.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "byteboard: %v\n", err)
		os.Exit(1)
	}
}
