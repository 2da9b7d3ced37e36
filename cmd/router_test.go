package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"forum/pkg/comment"
	"forum/pkg/common"
	"forum/pkg/middleware"
	"forum/pkg/post"
	"forum/pkg/sessions"
	"forum/pkg/user"
	"forum/pkg/user/api"
)

func newTestRouter(t *testing.T, repo api.UserRepo) http.Handler {
	t.Helper()

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>forum</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.js"), []byte("console.log(1)"), 0o644))

	return newRouter(routes{
		users:      api.NewUserHandler(nil, repo),
		posts:      post.NewPostHandler(nil, nil, nil),
		comments:   comment.NewCommentHandler(nil),
		auth:       middleware.NewAuthMiddleware(sessions.NewSessionManager("test-secret", sessions.DefaultTTL)),
		logs:       middleware.NewLoggingMiddleware(zap.NewNop().Sugar()),
		metrics:    middleware.NewMetrics(nil),
		health:     func(w http.ResponseWriter, r *http.Request) { common.WriteRespJSON(w, map[string]string{"status": "ok"}) },
		staticPath: static,
		origins:    []string{"http://localhost:3000"},
	})
}

func TestRouterProtectedRoutes(t *testing.T) {
	h := newTestRouter(t, nil)
	id := primitive.NewObjectID().Hex()

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodPut, "/api/users/" + id},
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/posts/" + id + "/vote"},
		{http.MethodPost, "/api/posts/" + id + "/comments"},
		{http.MethodPost, "/api/comments/" + id},
		{http.MethodPost, "/api/comments/" + id + "/vote"},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(c.method, c.path, strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusUnauthorized, w.Code, c.method+" "+c.path)
		assert.JSONEq(t, `{"message":"No token, authorization denied"}`, w.Body.String())
	}
}

func TestRouterPublicRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := api.NewMockUserRepo(ctrl)
	repo.EXPECT().GetAll(gomock.Any()).Return([]*user.User{{Id: primitive.NewObjectID(), Username: "alice"}}, nil)

	h := newTestRouter(t, repo)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set(middleware.RequestIDHeader, "req-42")
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"Alice"`)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `forum_http_requests_total{method="GET",route="/api/users",status="200"} 1`)
}

func TestRouterHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouterCORSPreflight(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.Header.Set("Access-Control-Request-Headers", "Authorization")

	newTestRouter(t, nil).ServeHTTP(w, r)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSPAHandler(t *testing.T) {
	h := newTestRouter(t, nil)

	get := func(path string) string {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		body, err := io.ReadAll(w.Body)
		require.NoError(t, err)
		return string(body)
	}

	assert.Equal(t, "console.log(1)", get("/app.js"))
	assert.Equal(t, "<html>forum</html>", get("/posts/123"))
	assert.Equal(t, "<html>forum</html>", get("/"))
}
