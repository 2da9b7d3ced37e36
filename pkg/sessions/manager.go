package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultTTL = 7 * 24 * time.Hour

type (
	sessionKey string

	// Manager signs and verifies stateless bearer tokens. Tokens can't be
	// revoked before they expire.
	Manager struct {
		secret []byte
		ttl    time.Duration
		now    func() time.Time
	}

	// Identity is what a verified token says about the caller.
	Identity struct {
		UserID primitive.ObjectID
	}

	jwtClaims struct {
		UserID string `json:"userId"`
		jwt.RegisteredClaims
	}
)

const SessionKey sessionKey = "authenticatedUser"

var (
	ErrNoAuth       = errors.New("sessions: no session found")
	ErrInvalidToken = errors.New("sessions: token is not valid")
)

func NewSessionManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (sm *Manager) CreateToken(userID primitive.ObjectID) (string, error) {
	now := sm.now()
	claims := jwtClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.secret)
	if err != nil {
		return "", fmt.Errorf("sessions: failed signing token: %w", err)
	}
	return token, nil
}

// Identity verifies a token (with or without the "Bearer " prefix) and
// returns the identity it carries.
func (sm *Manager) Identity(tokenString string) (*Identity, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrNoAuth
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return sm.secret, nil
		},
		jwt.WithTimeFunc(sm.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user id: %v", ErrInvalidToken, err)
	}
	return &Identity{UserID: userID}, nil
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, SessionKey, id)
}

func GetIdentity(ctx context.Context) (*Identity, error) {
	id, ok := ctx.Value(SessionKey).(*Identity)
	if !ok || id == nil {
		return nil, ErrNoAuth
	}
	return id, nil
}
