package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum/pkg/apperr"
)

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"alice": "Alice",
		"Alice": "Alice",
		"bOB":   "BOB",
		"élan":  "Élan",
		"1abc":  "1abc",
		"":      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Capitalize(in), in)
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("5f1d7a2b3c4d5e6f7a8b9c0d")
	assert.True(t, ok)
	assert.Equal(t, "5f1d7a2b3c4d5e6f7a8b9c0d", id.Hex())

	for _, bad := range []string{"", "undefined", "5f1d7a2b3c4d5e6f7a8b9c0", "zz1d7a2b3c4d5e6f7a8b9c0d", "5f1d7a2b3c4d5e6f7a8b9c0d00"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseReqBody(t *testing.T) {
	type in struct {
		Content string `json:"content"`
	}

	t.Run("ok", func(t *testing.T) {
		v := new(in)
		require.NoError(t, ParseReqBody(strings.NewReader(`{"content":"hi"}`), v))
		assert.Equal(t, "hi", v.Content)
	})

	t.Run("empty body", func(t *testing.T) {
		v := new(in)
		require.NoError(t, ParseReqBody(strings.NewReader(``), v))
		assert.Equal(t, "", v.Content)
	})

	t.Run("unknown field", func(t *testing.T) {
		err := ParseReqBody(strings.NewReader(`{"content":"hi","user":"x"}`), new(in))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("malformed", func(t *testing.T) {
		err := ParseReqBody(strings.NewReader(`{"content":`), new(in))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestTrimAll(t *testing.T) {
	assert.Equal(t, []string{}, TrimAll(nil))
	assert.Equal(t, []string{"go", "mongo"}, TrimAll([]string{" go ", "", "mongo"}))
}

func TestWriteError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, r, apperr.NotFound("Post not found"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Post not found"}`, w.Body.String())
	})

	t.Run("store error surfaces cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, r, apperr.Store("Server Error", errors.New("socket closed")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Server Error","error":"socket closed"}`, w.Body.String())
	})

	t.Run("foreign error", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, r, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Server Error","error":"boom"}`, w.Body.String())
	})
}
