package middleware

import (
	"errors"
	"net/http"

	"forum/pkg/common"
	"forum/pkg/logger"
	"forum/pkg/sessions"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

type (
	ITokenVerifier interface {
		Identity(string) (*sessions.Identity, error)
	}

	Auth struct {
		SessionManager ITokenVerifier
	}
)

func NewAuthMiddleware(sm ITokenVerifier) *Auth {
	return &Auth{
		SessionManager: sm,
	}
}

// Require rejects requests without a valid bearer token. The verified
// identity is stored in the request context for the wrapped handler.
func (auth *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			common.WriteMsg(w, msgNoToken, http.StatusUnauthorized)
			return
		}

		identity, err := auth.SessionManager.Identity(authHeader)
		if errors.Is(err, sessions.ErrNoAuth) {
			common.WriteMsg(w, msgNoToken, http.StatusUnauthorized)
			return
		}
		if err != nil {
			logger.Log(r.Context()).Debugf("auth: rejected token: %v", err)
			common.WriteMsg(w, msgInvalidToken, http.StatusUnauthorized)
			return
		}

		ctx := sessions.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (auth *Auth) RequireFunc(next http.HandlerFunc) http.Handler {
	return auth.Require(next)
}
