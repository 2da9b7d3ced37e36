// Command forumctl is a command line front end for the forum API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/goccy/go-json"

	"forum/pkg/client"
	"forum/pkg/comment"
	"forum/pkg/post"
	"forum/pkg/user/api"
	"forum/pkg/voting"
)

const defaultURL = "http://localhost:5000"

var errUsage = errors.New("usage")

type cli struct {
	c    *client.Client
	out  io.Writer
	json bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `forumctl - command line client for the forum API

Usage: forumctl [-url URL] [-json] <command> [flags]

Commands:
  register  -username -email -password   create an account and sign in
  login     -email -password              sign in
  logout                                  forget the stored token
  whoami                                  show the signed-in user
  users                                   list users
  user      <id>                          show a user
  profile   [-username] [-email] [-bio] [-avatar]  update your profile
  posts     [-category] [-sort] [-user]   list posts
  post      <id>                          show a post with its comments
  submit    -title -content [-category] [-tags a,b]
  comment   -post <id> -text [-parent <id>]
  comments  <postId>                      list comments of a post
  thread    <postId>                      show the reply tree of a post
  replies   <commentId>                   list direct replies
  vote      (-post <id> | -comment <id>) (-up | -down | -clear)

Environment:
  FORUM_URL         server address (default http://localhost:5000)
  FORUM_TOKEN_FILE  where the session token is kept`)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("forumctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	baseURL := global.String("url", envOr("FORUM_URL", defaultURL), "server address")
	asJSON := global.Bool("json", false, "print raw JSON")
	if err := global.Parse(args); err != nil {
		return errUsage
	}
	if global.NArg() == 0 {
		return errUsage
	}

	store, err := tokenStore()
	if err != nil {
		return err
	}
	app := &cli{c: client.New(*baseURL, store), out: out, json: *asJSON}

	cmd, rest := global.Arg(0), global.Args()[1:]
	if cmd == "help" {
		printUsage(out)
		return nil
	}

	// Every command except the auth ones runs with the persisted session.
	if cmd != "register" && cmd != "login" && cmd != "logout" {
		if _, err := app.c.Restore(ctx); err != nil {
			return err
		}
	}

	switch cmd {
	case "register":
		return app.register(ctx, rest)
	case "login":
		return app.login(ctx, rest)
	case "logout":
		return app.c.Logout()
	case "whoami", "me":
		return app.whoami(ctx)
	case "users":
		return app.users(ctx)
	case "user":
		return app.user(ctx, rest)
	case "profile":
		return app.profile(ctx, rest)
	case "posts", "list":
		return app.posts(ctx, rest)
	case "post", "read":
		return app.post(ctx, rest)
	case "submit":
		return app.submit(ctx, rest)
	case "comment":
		return app.comment(ctx, rest)
	case "comments":
		return app.comments(ctx, rest)
	case "thread":
		return app.thread(ctx, rest)
	case "replies":
		return app.replies(ctx, rest)
	case "vote":
		return app.vote(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func tokenStore() (client.TokenStore, error) {
	if path := os.Getenv("FORUM_TOKEN_FILE"); path != "" {
		return &client.FileStore{Path: path}, nil
	}
	return client.DefaultFileStore()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (a *cli) requireLogin() error {
	if !a.c.LoggedIn() {
		return errors.New("not signed in, run `forumctl login` first")
	}
	return nil
}

func (a *cli) printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(raw))
	return err
}

// oneArg returns the single positional argument of a command.
func oneArg(args []string, name string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("expected exactly one %s: %w", name, errUsage)
	}
	return args[0], nil
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *cli) register(ctx context.Context, args []string) error {
	fs := newFlags("register")
	username := fs.String("username", "", "username (min 3 chars)")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 chars)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	u, err := a.c.Register(ctx, *username, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and signed in as %s (%s)\n", u.Username, u.Id.Hex())
	return nil
}

func (a *cli) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	u, err := a.c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", u.Username)
	return nil
}

func (a *cli) whoami(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	u := a.c.Session().User
	if a.json {
		return a.printJSON(u)
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", u.Username, u.Email, u.Id.Hex())
	return nil
}

func (a *cli) users(ctx context.Context) error {
	users, err := a.c.Users(ctx)
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(users)
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s  %-20s %d\n", u.Id.Hex(), u.Username, u.Reputation)
	}
	return nil
}

func (a *cli) user(ctx context.Context, args []string) error {
	id, err := oneArg(args, "user id")
	if err != nil {
		return err
	}
	u, err := a.c.User(ctx, id)
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(u)
	}
	fmt.Fprintf(a.out, "%s <%s>\n%s\n", u.Username, u.Email, u.Bio)
	return nil
}

func (a *cli) profile(ctx context.Context, args []string) error {
	fs := newFlags("profile")
	var upd api.ProfileUpdate
	fs.Func("username", "new username", func(s string) error { upd.Username = &s; return nil })
	fs.Func("email", "new email", func(s string) error { upd.Email = &s; return nil })
	fs.Func("bio", "new bio, empty clears it", func(s string) error { upd.Bio = &s; return nil })
	fs.Func("avatar", "new avatar URL, empty clears it", func(s string) error { upd.Avatar = &s; return nil })
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	u, err := a.c.UpdateProfile(ctx, a.c.Session().User.Id.Hex(), upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", u.Username)
	return nil
}

func (a *cli) posts(ctx context.Context, args []string) error {
	fs := newFlags("posts")
	category := fs.String("category", "", "General, Technology, Science, Arts, Sports or Other")
	sort := fs.String("sort", "", "latest, popular or trending")
	author := fs.String("user", "", "only posts by this user id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var (
		posts []*post.View
		err   error
	)
	if *author != "" {
		posts, err = a.c.UserPosts(ctx, *author)
	} else {
		posts, err = a.c.Posts(ctx, *category, *sort)
	}
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(posts)
	}
	for _, p := range posts {
		fmt.Fprintf(a.out, "%s  [%+d] %s (%s, %d views)\n", p.Id.Hex(), p.VoteCount, p.Title, p.Category, p.Views)
	}
	return nil
}

func (a *cli) post(ctx context.Context, args []string) error {
	id, err := oneArg(args, "post id")
	if err != nil {
		return err
	}
	p, err := a.c.Post(ctx, id)
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(p)
	}

	author := "unknown"
	if p.Author != nil {
		author = p.Author.Username
	}
	fmt.Fprintf(a.out, "%s\nby %s in %s, %+d votes, %d views\n\n%s\n", p.Title, author, p.Category, p.VoteCount, p.Views, p.Content)
	for _, c := range p.Comments {
		a.printComment(c, 1)
	}
	return nil
}

func (a *cli) submit(ctx context.Context, args []string) error {
	fs := newFlags("submit")
	title := fs.String("title", "", "post title (min 5 chars)")
	content := fs.String("content", "", "post body (min 20 chars)")
	category := fs.String("category", string(post.CategoryGeneral), "post category")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var tagList []string
	if *tags != "" {
		tagList = strings.Split(*tags, ",")
	}

	p, err := a.c.CreatePost(ctx, post.Input{
		Title:    *title,
		Content:  *content,
		Category: post.Category(*category),
		Tags:     tagList,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Posted %q\n  ID: %s\n", p.Title, p.Id.Hex())
	return nil
}

func (a *cli) comment(ctx context.Context, args []string) error {
	fs := newFlags("comment")
	postID := fs.String("post", "", "post id (required)")
	parent := fs.String("parent", "", "parent comment id, for replies")
	text := fs.String("text", "", "comment text (required)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *postID == "" || *text == "" {
		return fmt.Errorf("-post and -text are required: %w", errUsage)
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	c, err := a.c.Comment(ctx, *postID, comment.Input{Content: *text, ParentComment: *parent})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Commented on post %s\n  ID: %s\n", *postID, c.Id.Hex())
	return nil
}

func (a *cli) comments(ctx context.Context, args []string) error {
	id, err := oneArg(args, "post id")
	if err != nil {
		return err
	}
	comments, err := a.c.Comments(ctx, id)
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(comments)
	}
	for _, c := range comments {
		a.printComment(c, 0)
	}
	return nil
}

func (a *cli) thread(ctx context.Context, args []string) error {
	id, err := oneArg(args, "post id")
	if err != nil {
		return err
	}
	nodes, err := a.c.Thread(ctx, id)
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(nodes)
	}
	a.printThread(nodes, 0)
	return nil
}

func (a *cli) replies(ctx context.Context, args []string) error {
	id, err := oneArg(args, "comment id")
	if err != nil {
		return err
	}
	replies, err := a.c.Replies(ctx, id)
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(replies)
	}
	for _, c := range replies {
		a.printComment(c, 0)
	}
	return nil
}

func (a *cli) vote(ctx context.Context, args []string) error {
	fs := newFlags("vote")
	postID := fs.String("post", "", "post id")
	commentID := fs.String("comment", "", "comment id")
	up := fs.Bool("up", false, "upvote")
	down := fs.Bool("down", false, "downvote")
	unvote := fs.Bool("clear", false, "remove your vote")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if (*postID == "") == (*commentID == "") {
		return fmt.Errorf("provide exactly one of -post or -comment: %w", errUsage)
	}
	var t voting.Type
	switch {
	case *up && !*down && !*unvote:
		t = voting.Up
	case *down && !*up && !*unvote:
		t = voting.Down
	case *unvote && !*up && !*down:
		t = "none"
	default:
		return fmt.Errorf("provide exactly one of -up, -down or -clear: %w", errUsage)
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	if *postID != "" {
		p, err := a.c.VotePost(ctx, *postID, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Post %s now has %+d votes\n", p.Id.Hex(), p.VoteCount)
		return nil
	}

	c, err := a.c.VoteComment(ctx, *commentID, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment %s now has %+d votes\n", c.Id.Hex(), c.VoteCount)
	return nil
}

func (a *cli) printComment(c *comment.View, depth int) {
	author := "unknown"
	if c.Author != nil {
		author = c.Author.Username
	}
	fmt.Fprintf(a.out, "%s%s [%+d] %s: %s\n", strings.Repeat("  ", depth), c.Id.Hex(), c.VoteCount, author, c.Content)
}

func (a *cli) printThread(nodes []*comment.Node, depth int) {
	for _, n := range nodes {
		a.printComment(n.View, depth)
		a.printThread(n.Children, depth+1)
	}
}
