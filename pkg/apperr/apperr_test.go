package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("Missing required fields"), http.StatusBadRequest},
		{Conflict("User already exists"), http.StatusBadRequest},
		{Auth("Invalid credentials"), http.StatusUnauthorized},
		{NotFound("Post not found"), http.StatusNotFound},
		{Store("failed saving post", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("User not found")), http.StatusNotFound},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Status(c.err), c.err.Error())
	}
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store("failed loading posts", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed loading posts: connection reset", err.Error())
	assert.Equal(t, "store", KindOf(err).String())
}
