package client

import (
	"context"
	"net/http"

	"forum/pkg/user"
)

type authResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Restore loads the persisted token and fetches its user. A token the server
// rejects is removed from the store and the session stays empty. It reports
// whether a session was restored.
func (c *Client) Restore(ctx context.Context) (bool, error) {
	token, err := c.store.Load()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	u := new(user.User)
	if err := c.doWithToken(ctx, token, http.MethodGet, "/api/users/me", nil, nil, u); err != nil {
		if IsUnauthorized(err) {
			c.setSession(Session{})
			return false, c.store.Clear()
		}
		return false, err
	}

	c.setSession(Session{Token: token, User: u})
	return true, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	in := map[string]string{"username": username, "email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/register", in)
}

func (c *Client) Login(ctx context.Context, email, password string) (*user.User, error) {
	in := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", in)
}

// Logout forgets the session locally. Tokens are stateless, so the server is
// not contacted.
func (c *Client) Logout() error {
	c.setSession(Session{})
	return c.store.Clear()
}

func (c *Client) authenticate(ctx context.Context, path string, in interface{}) (*user.User, error) {
	res := new(authResult)
	if err := c.doWithToken(ctx, "", http.MethodPost, path, nil, in, res); err != nil {
		return nil, err
	}
	c.setSession(Session{Token: res.Token, User: res.User})
	if err := c.store.Save(res.Token); err != nil {
		return res.User, err
	}
	return res.User, nil
}
