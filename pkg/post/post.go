package post

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/comment"
	"forum/pkg/user"
	"forum/pkg/voting"
)

type Category string

const (
	CategoryGeneral    Category = "General"
	CategoryTechnology Category = "Technology"
	CategoryScience    Category = "Science"
	CategoryArts       Category = "Arts"
	CategorySports     Category = "Sports"
	CategoryOther      Category = "Other"
)

var Categories = []Category{
	CategoryGeneral,
	CategoryTechnology,
	CategoryScience,
	CategoryArts,
	CategorySports,
	CategoryOther,
}

// Sort orders accepted by the post listing.
const (
	SortLatest   = "latest"
	SortPopular  = "popular"
	SortTrending = "trending"
)

var ErrNotFound = errors.New("post: not found")

type Post struct {
	voting.Ballot `bson:",inline"`

	Id        primitive.ObjectID   `bson:"_id"`
	Title     string               `bson:"title"`
	Content   string               `bson:"content"`
	Author    primitive.ObjectID   `bson:"author"`
	Tags      []string             `bson:"tags"`
	Category  Category             `bson:"category"`
	Views     int                  `bson:"views"`
	IsSolved  bool                 `bson:"isSolved"`
	Comments  []primitive.ObjectID `bson:"comments"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// View is a post as rendered to clients: author and top-level comments
// resolved, vote count derived.
type View struct {
	Id        primitive.ObjectID   `json:"_id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	Author    *user.Summary        `json:"author"`
	Tags      []string             `json:"tags"`
	Category  Category             `json:"category"`
	Upvotes   []primitive.ObjectID `json:"upvotes"`
	Downvotes []primitive.ObjectID `json:"downvotes"`
	VoteCount int                  `json:"voteCount"`
	Views     int                  `json:"views"`
	IsSolved  bool                 `json:"isSolved"`
	Comments  []*comment.View      `json:"comments"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Query narrows and orders the post listing. An empty or "all" category
// matches every post.
type Query struct {
	Category string
	Sort     string
}

type Input struct {
	Title    string   `json:"title" validate:"min=5"`
	Content  string   `json:"content" validate:"min=20"`
	Category Category `json:"category" validate:"oneof=General Technology Science Arts Sports Other"`
	Tags     []string `json:"tags"`

	// Author is accepted for compatibility with clients that send it and is
	// never read: the author always comes from the token.
	Author string `json:"author"`
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if string(known) == c {
			return true
		}
	}
	return false
}

func (p *Post) View(author *user.Summary, comments []*comment.View) *View {
	v := &View{
		Id:        p.Id,
		Title:     p.Title,
		Content:   p.Content,
		Author:    author,
		Tags:      p.Tags,
		Category:  p.Category,
		Upvotes:   p.Upvotes,
		Downvotes: p.Downvotes,
		VoteCount: p.Count(),
		Views:     p.Views,
		IsSolved:  p.IsSolved,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if v.Upvotes == nil {
		v.Upvotes = []primitive.ObjectID{}
	}
	if v.Downvotes == nil {
		v.Downvotes = []primitive.ObjectID{}
	}
	if v.Comments == nil {
		v.Comments = []*comment.View{}
	}
	return v
}
