package user

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/common"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var (
	ErrNotFound  = errors.New("user: not found")
	ErrDuplicate = errors.New("user: username or email already taken")
)

type User struct {
	Id         primitive.ObjectID `json:"_id" bson:"_id"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"`
	Avatar     string             `json:"avatar" bson:"avatar"`
	Bio        string             `json:"bio" bson:"bio"`
	Reputation int                `json:"reputation" bson:"reputation"`
	Role       Role               `json:"role" bson:"role"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the author information embedded in posts and comments.
type Summary struct {
	Id       primitive.ObjectID `json:"_id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}

// Normalize upper-cases the first letter of the username in place.
func (u *User) Normalize() *User {
	u.Username = common.Capitalize(u.Username)
	return u
}

func (u *User) Summary() *Summary {
	return &Summary{
		Id:       u.Id,
		Username: common.Capitalize(u.Username),
		Avatar:   u.Avatar,
	}
}
