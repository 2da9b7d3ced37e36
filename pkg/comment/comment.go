package comment

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/user"
	"forum/pkg/voting"
)

var ErrNotFound = errors.New("comment: not found")

type Comment struct {
	voting.Ballot `bson:",inline"`

	Id            primitive.ObjectID   `bson:"_id"`
	Content       string               `bson:"content"`
	Author        primitive.ObjectID   `bson:"author"`
	Post          primitive.ObjectID   `bson:"post"`
	IsAccepted    bool                 `bson:"isAccepted"`
	ParentComment *primitive.ObjectID  `bson:"parentComment,omitempty"`
	Replies       []primitive.ObjectID `bson:"replies"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

// View is a comment as rendered to clients, with its author resolved and
// the vote count derived.
type View struct {
	Id            primitive.ObjectID   `json:"_id"`
	Content       string               `json:"content"`
	Author        *user.Summary        `json:"author"`
	Post          primitive.ObjectID   `json:"post"`
	Upvotes       []primitive.ObjectID `json:"upvotes"`
	Downvotes     []primitive.ObjectID `json:"downvotes"`
	VoteCount     int                  `json:"voteCount"`
	IsAccepted    bool                 `json:"isAccepted"`
	ParentComment *primitive.ObjectID  `json:"parentComment,omitempty"`
	Replies       []primitive.ObjectID `json:"replies"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Input is the request body accepted by both comment creation routes.
type Input struct {
	Content       string `json:"content" validate:"required"`
	ParentComment string `json:"parentComment"`
}

// IsReply reports whether c was posted under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentComment != nil && !c.ParentComment.IsZero()
}

func (c *Comment) View(author *user.Summary) *View {
	v := &View{
		Id:            c.Id,
		Content:       c.Content,
		Author:        author,
		Post:          c.Post,
		Upvotes:       c.Upvotes,
		Downvotes:     c.Downvotes,
		VoteCount:     c.Count(),
		IsAccepted:    c.IsAccepted,
		ParentComment: c.ParentComment,
		Replies:       c.Replies,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if v.Upvotes == nil {
		v.Upvotes = []primitive.ObjectID{}
	}
	if v.Downvotes == nil {
		v.Downvotes = []primitive.ObjectID{}
	}
	if v.Replies == nil {
		v.Replies = []primitive.ObjectID{}
	}
	return v
}
