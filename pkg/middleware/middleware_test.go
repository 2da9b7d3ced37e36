package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"forum/pkg/logger"
	"forum/pkg/sessions"
)

type stubVerifier struct {
	identity *sessions.Identity
	err      error
	got      string
}

func (s *stubVerifier) Identity(token string) (*sessions.Identity, error) {
	s.got = token
	return s.identity, s.err
}

func TestAuthRequire(t *testing.T) {
	userID := primitive.NewObjectID()

	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := sessions.GetIdentity(r.Context())
		require.NoError(t, err)
		_, _ = w.Write([]byte(id.UserID.Hex()))
	})

	t.Run("valid token", func(t *testing.T) {
		verifier := &stubVerifier{identity: &sessions.Identity{UserID: userID}}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		r.Header.Set("Authorization", "Bearer abc")

		NewAuthMiddleware(verifier).Require(protected).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.Hex(), w.Body.String())
		assert.Equal(t, "Bearer abc", verifier.got)
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/posts", nil)

		NewAuthMiddleware(&stubVerifier{}).Require(protected).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"No token, authorization denied"}`, w.Body.String())
	})

	t.Run("bare bearer prefix", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		r.Header.Set("Authorization", "Bearer ")

		NewAuthMiddleware(&stubVerifier{err: sessions.ErrNoAuth}).Require(protected).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"No token, authorization denied"}`, w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		r.Header.Set("Authorization", "Bearer expired")

		err := errors.Join(sessions.ErrInvalidToken, errors.New("token is expired"))
		NewAuthMiddleware(&stubVerifier{err: err}).Require(protected).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Token is not valid"}`, w.Body.String())
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	lm := NewLoggingMiddleware(zap.New(core).Sugar())

	var seenID string
	h := lm.SetupTracing(lm.SetupLogging(lm.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		logger.Log(r.Context()).Info("inside")
		w.WriteHeader(http.StatusCreated)
	}))))

	t.Run("generates request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/posts", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotEmpty(t, seenID)
		assert.Equal(t, seenID, w.Header().Get(RequestIDHeader))

		entries := logs.TakeAll()
		require.Len(t, entries, 2)
		assert.Equal(t, "inside", entries[0].Message)
		assert.Equal(t, seenID, entries[0].ContextMap()["request_id"])
		assert.Equal(t, "access", entries[1].Message)
		assert.EqualValues(t, http.StatusCreated, entries[1].ContextMap()["status"])
	})

	t.Run("propagates request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		r.Header.Set(RequestIDHeader, "req-42")
		h.ServeHTTP(w, r)

		assert.Equal(t, "req-42", seenID)
		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
		logs.TakeAll()
	})
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server Error"}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := mux.NewRouter()
	r.Use(m.Instrument)
	r.HandleFunc("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/posts/"+strings.Repeat("a", 24), nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/posts/{id}", "404")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "forum_http_requests_total")
}
