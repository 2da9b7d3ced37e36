package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/apperr"
	"forum/pkg/auth"
	"forum/pkg/common"
	"forum/pkg/logger"
	"forum/pkg/sessions"
	"forum/pkg/user"
	"forum/pkg/validation"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=api

const (
	msgInvalidUserID = "Invalid user ID format"
	msgUserNotFound  = "User not found"
	msgNotOwner      = "Not authorized to update this profile"
)

type (
	AuthService interface {
		Register(context.Context, auth.RegisterInput) (*auth.Result, error)
		Login(context.Context, auth.LoginInput) (*auth.Result, error)
		CurrentUser(context.Context, primitive.ObjectID) (*user.User, error)
	}

	UserRepo interface {
		GetById(context.Context, primitive.ObjectID) (*user.User, error)
		GetAll(context.Context) ([]*user.User, error)
		Taken(ctx context.Context, username, email string, except primitive.ObjectID) (bool, error)
		Update(context.Context, *user.User) error
	}

	UserHandler struct {
		Auth AuthService
		Repo UserRepo
	}

	// ProfileUpdate holds the optional fields of a profile update. Absent
	// fields are left unchanged.
	ProfileUpdate struct {
		Username *string `json:"username" validate:"omitempty,min=3"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}
)

func NewUserHandler(a AuthService, r UserRepo) *UserHandler {
	return &UserHandler{
		Auth: a,
		Repo: r,
	}
}

func (uh *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	in := auth.RegisterInput{}
	if err := common.ParseReqBody(r.Body, &in); err != nil {
		common.WriteError(w, r, err)
		return
	}

	res, err := uh.Auth.Register(r.Context(), in)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	common.WriteJSON(w, http.StatusCreated, res)
}

func (uh *UserHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	in := auth.LoginInput{}
	if err := common.ParseReqBody(r.Body, &in); err != nil {
		common.WriteError(w, r, err)
		return
	}

	res, err := uh.Auth.Login(r.Context(), in)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	common.WriteRespJSON(w, res)
}

func (uh *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := sessions.GetIdentity(r.Context())
	if err != nil {
		common.WriteError(w, r, apperr.Auth("Token is not valid"))
		return
	}

	u, err := uh.Auth.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	common.WriteRespJSON(w, u)
}

func (uh *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := uh.Repo.GetAll(r.Context())
	if err != nil {
		common.WriteError(w, r, apperr.Store("Server Error", err))
		return
	}

	for _, u := range users {
		u.Normalize()
	}
	common.WriteRespJSON(w, users)
}

func (uh *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := common.ParseID(mux.Vars(r)["id"])
	if !ok {
		common.WriteError(w, r, apperr.Validation(msgInvalidUserID))
		return
	}

	u, err := uh.load(r.Context(), id)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}

	common.WriteRespJSON(w, u.Normalize())
}

// Update handles PUT /api/users/{id}. Only the owner may change a profile.
func (uh *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := sessions.GetIdentity(r.Context())
	if err != nil {
		common.WriteError(w, r, apperr.Auth("Token is not valid"))
		return
	}

	id, ok := common.ParseID(mux.Vars(r)["id"])
	if !ok {
		common.WriteError(w, r, apperr.Validation(msgInvalidUserID))
		return
	}

	u, err := uh.load(r.Context(), id)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	if u.Id != identity.UserID {
		common.WriteError(w, r, apperr.Auth(msgNotOwner))
		return
	}

	in := ProfileUpdate{}
	if err := common.ParseReqBody(r.Body, &in); err != nil {
		common.WriteError(w, r, err)
		return
	}
	in.normalize()
	if err := validation.Struct(&in); err != nil {
		common.WriteError(w, r, err)
		return
	}

	if in.Username != nil && *in.Username != u.Username {
		taken, err := uh.Repo.Taken(r.Context(), *in.Username, "", u.Id)
		if err != nil {
			common.WriteError(w, r, apperr.Store("Server Error", err))
			return
		}
		if taken {
			common.WriteError(w, r, apperr.Conflict("Username already exists"))
			return
		}
		u.Username = *in.Username
	}
	if in.Email != nil && *in.Email != u.Email {
		taken, err := uh.Repo.Taken(r.Context(), "", *in.Email, u.Id)
		if err != nil {
			common.WriteError(w, r, apperr.Store("Server Error", err))
			return
		}
		if taken {
			common.WriteError(w, r, apperr.Conflict("Email already exists"))
			return
		}
		u.Email = *in.Email
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}

	if err := uh.Repo.Update(r.Context(), u); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicate):
			common.WriteError(w, r, apperr.Conflict("User already exists"))
		case errors.Is(err, user.ErrNotFound):
			common.WriteError(w, r, apperr.NotFound(msgUserNotFound))
		default:
			common.WriteError(w, r, apperr.Store("Server Error", err))
		}
		return
	}
	logger.Log(r.Context()).Infof("user: profile %s updated", u.Id.Hex())

	common.WriteRespJSON(w, u.Normalize())
}

func (uh *UserHandler) load(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	u, err := uh.Repo.GetById(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}
	return u, nil
}

// normalize drops empty username and email, capitalizes the username and
// lowercases the email. Empty bio and avatar are kept: they clear the field.
func (in *ProfileUpdate) normalize() {
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			in.Username = nil
		} else {
			name = common.Capitalize(name)
			in.Username = &name
		}
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			in.Email = nil
		} else {
			in.Email = &email
		}
	}
}
