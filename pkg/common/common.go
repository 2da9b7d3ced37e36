package common

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/apperr"
	"forum/pkg/logger"
)

type Msg struct {
	Message string `json:"message"`
}

type ErrMsg struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func WriteMsg(w http.ResponseWriter, msg string, code int) {
	WriteJSON(w, code, Msg{msg})
}

// WriteError renders err with the status of its kind. Store errors carry the
// underlying cause in the "error" field.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Store("Server Error", err)
	}

	if status >= http.StatusInternalServerError {
		logger.Log(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Log(r.Context()).Debugf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	body := ErrMsg{Message: appErr.Message}
	if appErr.Kind == apperr.KindStore && appErr.Err != nil {
		body.Error = appErr.Err.Error()
	}
	WriteJSON(w, status, body)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ParseID parses a 24-character hex identifier.
func ParseID(hex string) (primitive.ObjectID, bool) {
	if len(hex) != 24 {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// ParseReqBody decodes a JSON body into ptr. Unknown fields are rejected; an
// empty body leaves ptr untouched.
func ParseReqBody(body io.Reader, ptr interface{}) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "Invalid request body", Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ptr); err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "Invalid request body", Err: err}
	}
	return nil
}

// TrimAll trims every element of ss and drops empty ones. A nil slice
// becomes an empty one.
func TrimAll(ss []string) []string {
	res := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func WriteJSON(w http.ResponseWriter, code int, data interface{}) {
	resp, err := json.Marshal(data)
	if err != nil {
		logger.Log(context.Background()).Errorf("common: JSON marshaling failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"response failed"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(resp); err != nil {
		logger.Log(context.Background()).Errorf("common: failed writing response: %v", err)
	}
}

func WriteRespJSON(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}
