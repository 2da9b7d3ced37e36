// Package auth implements registration, login and current-user lookup on top
// of the user store and the token manager.
package auth

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"forum/pkg/apperr"
	"forum/pkg/common"
	"forum/pkg/logger"
	"forum/pkg/user"
	"forum/pkg/validation"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=auth

const msgInvalidCredentials = "Invalid credentials"

type (
	UserRepo interface {
		Add(context.Context, *user.User) (primitive.ObjectID, error)
		GetById(context.Context, primitive.ObjectID) (*user.User, error)
		GetByEmail(context.Context, string) (*user.User, error)
		Taken(ctx context.Context, username, email string, except primitive.ObjectID) (bool, error)
		SetUsername(context.Context, primitive.ObjectID, string) error
	}

	TokenIssuer interface {
		CreateToken(primitive.ObjectID) (string, error)
	}

	Service struct {
		Users  UserRepo
		Tokens TokenIssuer
		// Cost is the bcrypt cost used for new password hashes.
		Cost int
	}

	RegisterInput struct {
		Username string `json:"username" validate:"min=3"`
		Email    string `json:"email" validate:"email"`
		Password string `json:"password" validate:"min=6"`
	}

	LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// Result is returned by Register and Login.
	Result struct {
		Token string     `json:"token"`
		User  *user.User `json:"user"`
	}
)

func NewService(users UserRepo, tokens TokenIssuer) *Service {
	return &Service{
		Users:  users,
		Tokens: tokens,
		Cost:   bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("Missing required fields")
	}
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	username := common.Capitalize(in.Username)
	taken, err := s.Users.Taken(ctx, username, in.Email, primitive.NilObjectID)
	if err != nil {
		return nil, apperr.Store("Error creating user", err)
	}
	if taken {
		logger.Log(ctx).Infof("auth: user already exists: %s / %s", username, in.Email)
		return nil, apperr.Conflict("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.Cost)
	if err != nil {
		return nil, apperr.Store("Error saving user", err)
	}

	u := &user.User{
		Username: username,
		Email:    in.Email,
		Password: string(hash),
		Role:     user.RoleUser,
	}
	if _, err := s.Users.Add(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Store("Error saving user", err)
	}
	logger.Log(ctx).Infof("auth: user %s registered", u.Id.Hex())

	return s.issue(u)
}

// Login doesn't tell an unknown email apart from a wrong password.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("Missing required fields")
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, apperr.Auth(msgInvalidCredentials)
	}
	if err != nil {
		return nil, apperr.Store("Error logging in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return nil, apperr.Auth(msgInvalidCredentials)
	}

	if normalized := common.Capitalize(u.Username); normalized != u.Username {
		if err := s.Users.SetUsername(ctx, u.Id, normalized); err != nil {
			return nil, apperr.Store("Error logging in", err)
		}
		u.Username = normalized
	}

	return s.issue(u)
}

// CurrentUser loads the user behind a verified identity. The username is
// normalized for the response only.
func (s *Service) CurrentUser(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	u, err := s.Users.GetById(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Store("Error fetching user", err)
	}
	return u.Normalize(), nil
}

func (s *Service) issue(u *user.User) (*Result, error) {
	token, err := s.Tokens.CreateToken(u.Id)
	if err != nil {
		return nil, apperr.Store("Error generating authentication token", err)
	}
	return &Result{Token: token, User: u}, nil
}
