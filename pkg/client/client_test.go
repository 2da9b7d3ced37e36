package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/comment"
	"forum/pkg/post"
	"forum/pkg/user"
	"forum/pkg/user/api"
	"forum/pkg/voting"
)

const goodToken = "good-token"

var aliceID = primitive.NewObjectID()

type fakeServer struct {
	*httptest.Server
	lastBody  map[string]interface{}
	lastQuery string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()

	alice := &user.User{Id: aliceID, Username: "Alice", Email: "alice@example.com"}

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+goodToken {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is not valid"})
				return
			}
			h(w, r)
		}
	}
	readBody := func(r *http.Request) {
		fs.lastBody = map[string]interface{}{}
		_ = json.NewDecoder(r.Body).Decode(&fs.lastBody)
	}

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		readBody(r)
		if fs.lastBody["password"] != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"token": goodToken, "user": alice})
	})
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		readBody(r)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"token": goodToken, "user": alice})
	})
	mux.HandleFunc("/api/users/me", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, alice)
	}))
	mux.HandleFunc("/api/users/"+aliceID.Hex(), authed(func(w http.ResponseWriter, r *http.Request) {
		readBody(r)
		updated := *alice
		updated.Bio = fs.lastBody["bio"].(string)
		writeJSON(w, http.StatusOK, &updated)
	}))
	mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		fs.lastQuery = r.URL.RawQuery
		if r.Method == http.MethodPost {
			authed(func(w http.ResponseWriter, r *http.Request) {
				readBody(r)
				writeJSON(w, http.StatusCreated, &post.View{Title: fs.lastBody["title"].(string), Tags: []string{}})
			})(w, r)
			return
		}
		writeJSON(w, http.StatusOK, []*post.View{{Title: "Hello world"}})
	})
	mux.HandleFunc("/api/posts/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Post not found"})
	})
	mux.HandleFunc("/api/comments/abc/vote", authed(func(w http.ResponseWriter, r *http.Request) {
		readBody(r)
		writeJSON(w, http.StatusOK, &comment.View{Content: "nice", VoteCount: 1})
	}))
	mux.HandleFunc("/api/comments/post/p1/thread", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []*comment.Node{{
			View:     &comment.View{Content: "root"},
			Children: []*comment.Node{{View: &comment.View{Content: "reply"}, Children: []*comment.Node{}}},
		}})
	})
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginPersistsSession(t *testing.T) {
	srv := newFakeServer(t)
	store := &FileStore{Path: filepath.Join(t.TempDir(), "forumctl", "token")}
	c := New(srv.URL+"/", store)

	u, err := c.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)
	assert.Equal(t, goodToken, c.Session().Token)
	assert.True(t, c.LoggedIn())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, goodToken, saved)

	// A new client picks the session up from the store.
	restored := New(srv.URL, store)
	ok, err := restored.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, aliceID, restored.Session().User.Id)

	require.NoError(t, restored.Logout())
	assert.False(t, restored.LoggedIn())
	saved, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := newFakeServer(t)
	c := New(srv.URL, nil)

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, &APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}, err)
	assert.False(t, c.LoggedIn())
}

func TestRestore(t *testing.T) {
	srv := newFakeServer(t)

	t.Run("no token", func(t *testing.T) {
		ok, err := New(srv.URL, &MemoryStore{}).Restore(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		store := &MemoryStore{}
		require.NoError(t, store.Save("expired"))
		c := New(srv.URL, store)

		ok, err := c.Restore(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, c.LoggedIn())

		saved, _ := store.Load()
		assert.Empty(t, saved)
	})
}

func TestRegister(t *testing.T) {
	srv := newFakeServer(t)
	c := New(srv.URL, nil)

	_, err := c.Register(context.Background(), "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"username": "alice", "email": "alice@example.com", "password": "secret1"}, srv.lastBody)
	assert.Equal(t, goodToken, c.Session().Token)
}

func TestAuthenticatedCalls(t *testing.T) {
	srv := newFakeServer(t)
	c := New(srv.URL, nil)
	ctx := context.Background()

	_, err := c.CreatePost(ctx, post.Input{Title: "Hello"})
	assert.True(t, IsUnauthorized(err))

	_, err = c.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	p, err := c.CreatePost(ctx, post.Input{Title: "Hello", Content: "Long enough content here", Category: post.CategoryGeneral})
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Title)

	v, err := c.VoteComment(ctx, "abc", voting.Up)
	require.NoError(t, err)
	assert.Equal(t, 1, v.VoteCount)
	assert.Equal(t, "up", srv.lastBody["voteType"])

	bio := "gopher"
	u, err := c.UpdateProfile(ctx, aliceID.Hex(), api.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "gopher", u.Bio)
	assert.Equal(t, "gopher", c.Session().User.Bio)
}

func TestPublicCalls(t *testing.T) {
	srv := newFakeServer(t)
	c := New(srv.URL, nil)
	ctx := context.Background()

	posts, err := c.Posts(ctx, "Science", "popular")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "category=Science&sort=popular", srv.lastQuery)

	_, err = c.Post(ctx, "missing")
	assert.Equal(t, &APIError{Status: http.StatusNotFound, Message: "Post not found"}, err)

	nodes, err := c.Thread(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "root", nodes[0].Content)
	assert.Equal(t, "reply", nodes[0].Children[0].Content)

	_, err = c.Users(ctx)
	assert.Equal(t, &APIError{Status: http.StatusBadGateway, Message: "upstream down"}, err)
}

func TestFileStoreMissingFile(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "nope")}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.NoError(t, store.Clear())
}
