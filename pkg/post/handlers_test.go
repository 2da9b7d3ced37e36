package post

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/apperr"
	"forum/pkg/comment"
	"forum/pkg/sessions"
	"forum/pkg/user"
	"forum/pkg/voting"
)

type memRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*Post
}

func newMemRepo(posts ...*Post) *memRepo {
	r := &memRepo{posts: map[primitive.ObjectID]*Post{}}
	for _, p := range posts {
		r.posts[p.Id] = p
	}
	return r
}

func (r *memRepo) Add(_ context.Context, p *Post) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Id = primitive.NewObjectID()
	r.posts[p.Id] = p
	return p.Id, nil
}

func (r *memRepo) GetById(_ context.Context, id primitive.ObjectID) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) IncrementViews(_ context.Context, id primitive.ObjectID) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Views++
	cp := *p
	return &cp, nil
}

func (r *memRepo) GetAll(context.Context, Query) ([]*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []*Post{}
	for _, p := range r.posts {
		res = append(res, p)
	}
	return res, nil
}

func (r *memRepo) GetUserPosts(_ context.Context, author primitive.ObjectID) ([]*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []*Post{}
	for _, p := range r.posts {
		if p.Author == author {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *memRepo) SaveVotes(_ context.Context, p *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.Id]
	if !ok {
		return ErrNotFound
	}
	stored.Ballot = p.Ballot
	return nil
}

type memAuthors map[primitive.ObjectID]*user.Summary

func (a memAuthors) GetSummaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*user.Summary, error) {
	res := map[primitive.ObjectID]*user.Summary{}
	for _, id := range ids {
		if s, ok := a[id]; ok {
			res[id] = s
		}
	}
	return res, nil
}

type stubComments struct {
	byID    map[primitive.ObjectID]*comment.View
	created []comment.Input
	err     error
}

func (s *stubComments) Create(_ context.Context, postID, authorID primitive.ObjectID, in comment.Input) (*comment.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, in)
	return &comment.View{Id: primitive.NewObjectID(), Content: in.Content, Post: postID}, nil
}

func (s *stubComments) ByIds(_ context.Context, ids []primitive.ObjectID) ([]*comment.View, error) {
	res := []*comment.View{}
	for _, id := range ids {
		if c, ok := s.byID[id]; ok {
			res = append(res, c)
		}
	}
	return res, nil
}

var (
	authorID = primitive.NewObjectID()
	authors  = memAuthors{authorID: {Id: authorID, Username: "Pike", Avatar: "https://a/p.png"}}
)

func newTestRouter(ph *PostHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/posts", ph.List).Methods("GET")
	r.HandleFunc("/api/posts", ph.Add).Methods("POST")
	r.HandleFunc("/api/posts/user/{userId}", ph.GetByUser).Methods("GET")
	r.HandleFunc("/api/posts/{id}", ph.Get).Methods("GET")
	r.HandleFunc("/api/posts/{id}/vote", ph.Vote).Methods("POST")
	r.HandleFunc("/api/posts/{id}/comments", ph.AddComment).Methods("POST")
	return r
}

func asUser(r *http.Request, id primitive.ObjectID) *http.Request {
	return r.WithContext(sessions.WithIdentity(r.Context(), &sessions.Identity{UserID: id}))
}

func decodeView(t *testing.T, body []byte) *View {
	v := new(View)
	require.NoError(t, json.Unmarshal(body, v))
	return v
}

func TestGetIncrementsViews(t *testing.T) {
	p := &Post{Id: primitive.NewObjectID(), Author: authorID, Views: 3}
	router := newTestRouter(NewPostHandler(newMemRepo(p), authors, &stubComments{}))

	const fetches = 5
	var last *View
	for i := 0; i < fetches; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/"+p.Id.Hex(), nil))
		require.Equal(t, http.StatusOK, w.Code)
		last = decodeView(t, w.Body.Bytes())
	}

	assert.Equal(t, 3+fetches, last.Views)
	assert.Equal(t, "Pike", last.Author.Username)
}

func TestGetNotFound(t *testing.T) {
	router := newTestRouter(NewPostHandler(newMemRepo(), authors, &stubComments{}))

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/"+id, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.JSONEq(t, `{"message":"Post not found"}`, w.Body.String())
	}
}

func TestGetPopulatesComments(t *testing.T) {
	c1, c2 := &comment.View{Id: primitive.NewObjectID(), Content: "a"}, &comment.View{Id: primitive.NewObjectID(), Content: "b"}
	p := &Post{Id: primitive.NewObjectID(), Author: authorID, Comments: []primitive.ObjectID{c1.Id, c2.Id}}
	comments := &stubComments{byID: map[primitive.ObjectID]*comment.View{c1.Id: c1, c2.Id: c2}}
	router := newTestRouter(NewPostHandler(newMemRepo(p), authors, comments))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/"+p.Id.Hex(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	v := decodeView(t, w.Body.Bytes())
	require.Len(t, v.Comments, 2)
	assert.Equal(t, "a", v.Comments[0].Content)
	assert.Equal(t, "b", v.Comments[1].Content)
}

func TestAdd(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(NewPostHandler(repo, authors, &stubComments{}))

	t.Run("created", func(t *testing.T) {
		body := `{"title":"  Gophers unite  ","content":"Let us talk about channels today.","category":"Technology","tags":[" go ",""]}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body)), authorID))

		require.Equal(t, http.StatusCreated, w.Code)
		v := decodeView(t, w.Body.Bytes())
		assert.Equal(t, "Gophers unite", v.Title)
		assert.Equal(t, []string{"go"}, v.Tags)
		assert.Equal(t, authorID, v.Author.Id)
		assert.Equal(t, 0, v.VoteCount)
		assert.Contains(t, repo.posts, v.Id)
	})

	t.Run("author in body is ignored", func(t *testing.T) {
		other := primitive.NewObjectID()
		body := `{"title":"Gophers unite","content":"Let us talk about channels today.","category":"Technology","author":"` + other.Hex() + `","tags":["go"]}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body)), authorID))

		require.Equal(t, http.StatusCreated, w.Code)
		v := decodeView(t, w.Body.Bytes())
		assert.Equal(t, authorID, v.Author.Id)
		assert.Equal(t, authorID, repo.posts[v.Id].Author)
	})

	t.Run("tags default to empty", func(t *testing.T) {
		body := `{"title":"Another one","content":"Twenty characters at the very least.","category":"Other"}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body)), authorID))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, []string{}, decodeView(t, w.Body.Bytes()).Tags)
	})

	t.Run("invalid", func(t *testing.T) {
		cases := map[string]string{
			"short title":   `{"title":"Hey","content":"Twenty characters at the very least.","category":"Other"}`,
			"short content": `{"title":"Long enough","content":"too short","category":"Other"}`,
			"bad category":  `{"title":"Long enough","content":"Twenty characters at the very least.","category":"Cooking"}`,
		}
		for name, body := range cases {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body)), authorID))
			assert.Equal(t, http.StatusBadRequest, w.Code, name)
		}
	})
}

func TestVote(t *testing.T) {
	voter := primitive.NewObjectID()
	p := &Post{Id: primitive.NewObjectID(), Author: authorID, Ballot: voting.NewBallot()}
	repo := newMemRepo(p)
	router := newTestRouter(NewPostHandler(repo, authors, &stubComments{}))

	vote := func(voteType string) *View {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/posts/"+p.Id.Hex()+"/vote", strings.NewReader(`{"voteType":"`+voteType+`"}`))
		router.ServeHTTP(w, asUser(r, voter))
		require.Equal(t, http.StatusOK, w.Code)
		return decodeView(t, w.Body.Bytes())
	}

	v := vote("up")
	assert.Equal(t, 1, v.VoteCount)

	v = vote("up")
	assert.Equal(t, 1, v.VoteCount, "repeated vote is idempotent")
	assert.Equal(t, []primitive.ObjectID{voter}, v.Upvotes)

	v = vote("down")
	assert.Equal(t, -1, v.VoteCount)
	assert.Empty(t, v.Upvotes)

	v = vote("meh")
	assert.Equal(t, 0, v.VoteCount)
	assert.Empty(t, v.Upvotes)
	assert.Empty(t, v.Downvotes)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/posts/"+primitive.NewObjectID().Hex()+"/vote", strings.NewReader(`{"voteType":"up"}`))
	router.ServeHTTP(w, asUser(r, voter))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddComment(t *testing.T) {
	p := &Post{Id: primitive.NewObjectID(), Author: authorID}
	comments := &stubComments{}
	router := newTestRouter(NewPostHandler(newMemRepo(p), authors, comments))

	w := httptest.NewRecorder()
	body := `{"content":"reply","parentComment":"` + primitive.NewObjectID().Hex() + `"}`
	router.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/api/posts/"+p.Id.Hex()+"/comments", strings.NewReader(body)), authorID))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, comments.created, 1)
	assert.NotEmpty(t, comments.created[0].ParentComment)

	comments.err = apperr.NotFound("Parent comment not found")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/api/posts/"+p.Id.Hex()+"/comments", strings.NewReader(body)), authorID))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Parent comment not found"}`, w.Body.String())
}

func TestGetByUser(t *testing.T) {
	other := primitive.NewObjectID()
	router := newTestRouter(NewPostHandler(newMemRepo(&Post{Id: primitive.NewObjectID(), Author: authorID}), authors, &stubComments{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/user/"+authorID.Hex(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var views []*View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Pike", views[0].Author.Username)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/user/"+other.Hex(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/user/undefined", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid user ID format"}`, w.Body.String())
}
