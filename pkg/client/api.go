package client

import (
	"context"
	"net/http"
	"net/url"

	"forum/pkg/comment"
	"forum/pkg/post"
	"forum/pkg/user"
	"forum/pkg/user/api"
	"forum/pkg/voting"
)

// Users

func (c *Client) Me(ctx context.Context) (*user.User, error) {
	return call[*user.User](ctx, c, http.MethodGet, "/api/users/me", nil, nil)
}

func (c *Client) Users(ctx context.Context) ([]*user.User, error) {
	return call[[]*user.User](ctx, c, http.MethodGet, "/api/users", nil, nil)
}

func (c *Client) User(ctx context.Context, id string) (*user.User, error) {
	return call[*user.User](ctx, c, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, nil)
}

// UpdateProfile changes the given user's profile. When it is the signed-in
// user the session copy is refreshed.
func (c *Client) UpdateProfile(ctx context.Context, id string, upd api.ProfileUpdate) (*user.User, error) {
	u := new(user.User)
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), nil, upd, u); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.session.User != nil && c.session.User.Id == u.Id {
		c.session.User = u
	}
	c.mu.Unlock()
	return u, nil
}

// Posts

// Posts lists posts. Empty category and sort use the server defaults.
func (c *Client) Posts(ctx context.Context, category, sort string) ([]*post.View, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if sort != "" {
		q.Set("sort", sort)
	}
	return call[[]*post.View](ctx, c, http.MethodGet, "/api/posts", q, nil)
}

func (c *Client) UserPosts(ctx context.Context, userID string) ([]*post.View, error) {
	return call[[]*post.View](ctx, c, http.MethodGet, "/api/posts/user/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) Post(ctx context.Context, id string) (*post.View, error) {
	return call[*post.View](ctx, c, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreatePost(ctx context.Context, in post.Input) (*post.View, error) {
	return call[*post.View](ctx, c, http.MethodPost, "/api/posts", nil, in)
}

func (c *Client) VotePost(ctx context.Context, id string, t voting.Type) (*post.View, error) {
	return call[*post.View](ctx, c, http.MethodPost, "/api/posts/"+url.PathEscape(id)+"/vote", nil, voting.Request{VoteType: t})
}

// Comments

// Comment adds a comment to a post. A non-empty in.ParentComment makes it a reply.
func (c *Client) Comment(ctx context.Context, postID string, in comment.Input) (*comment.View, error) {
	return call[*comment.View](ctx, c, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comments", nil, in)
}

func (c *Client) Comments(ctx context.Context, postID string) ([]*comment.View, error) {
	return call[[]*comment.View](ctx, c, http.MethodGet, "/api/comments/post/"+url.PathEscape(postID), nil, nil)
}

func (c *Client) Thread(ctx context.Context, postID string) ([]*comment.Node, error) {
	return call[[]*comment.Node](ctx, c, http.MethodGet, "/api/comments/post/"+url.PathEscape(postID)+"/thread", nil, nil)
}

func (c *Client) Replies(ctx context.Context, commentID string) ([]*comment.View, error) {
	return call[[]*comment.View](ctx, c, http.MethodGet, "/api/comments/"+url.PathEscape(commentID)+"/replies", nil, nil)
}

func (c *Client) VoteComment(ctx context.Context, id string, t voting.Type) (*comment.View, error) {
	return call[*comment.View](ctx, c, http.MethodPost, "/api/comments/"+url.PathEscape(id)+"/vote", nil, voting.Request{VoteType: t})
}

// call performs one request and decodes the response into a fresh T.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, in interface{}) (T, error) {
	var out T
	if err := c.do(ctx, method, path, query, in, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
