package post

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forum/pkg/mongodb"
	"forum/pkg/voting"
)

type Repo struct {
	posts mongodb.ICollection
	now   func() time.Time
}

func NewPostRepo(postsCol *mongo.Collection) *Repo {
	return &Repo{
		posts: mongodb.NewCollection(postsCol),
		now:   time.Now,
	}
}

func (r *Repo) Add(ctx context.Context, p *Post) (primitive.ObjectID, error) {
	if p.Id.IsZero() {
		p.Id = primitive.NewObjectID()
	}
	if p.Upvotes == nil || p.Downvotes == nil {
		p.Ballot = voting.NewBallot()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Comments == nil {
		p.Comments = []primitive.ObjectID{}
	}
	now := r.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	if _, err := r.posts.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, fmt.Errorf("post/repo: failed inserting a post: %w", err)
	}
	return p.Id, nil
}

func (r *Repo) GetById(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	p := new(Post)
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding post %s: %w", id.Hex(), err)
	}
	return p, nil
}

func (r *Repo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.posts.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("post/repo: failed counting posts: %w", err)
	}
	return n > 0, nil
}

// IncrementViews atomically adds one view and returns the updated post.
func (r *Repo) IncrementViews(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := new(Post)
	err := r.posts.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed incrementing views of %s: %w", id.Hex(), err)
	}
	return p, nil
}

func (r *Repo) GetAll(ctx context.Context, q Query) ([]*Post, error) {
	filter := bson.M{}
	if ValidCategory(q.Category) {
		filter["category"] = q.Category
	}

	sortBy := bson.D{{Key: "createdAt", Value: -1}}
	if q.Sort == SortTrending {
		sortBy = bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}
	}

	posts, err := r.find(ctx, filter, options.Find().SetSort(sortBy))
	if err != nil {
		return nil, err
	}

	// vote count is derived, so it can't be sorted on by the store
	if q.Sort == SortPopular {
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Count() > posts[j].Count()
		})
	}
	return posts, nil
}

func (r *Repo) GetUserPosts(ctx context.Context, authorID primitive.ObjectID) ([]*Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"author": authorID}, opts)
}

func (r *Repo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*Post, error) {
	cursor, err := r.posts.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("post/repo: failed geting posts from cursor: %w", err)
	}
	return posts, nil
}

// SaveVotes overwrites both vote sets of p.
func (r *Repo) SaveVotes(ctx context.Context, p *Post) error {
	p.UpdatedAt = r.now().UTC()
	update := bson.M{"$set": bson.M{
		"upvotes":   p.Upvotes,
		"downvotes": p.Downvotes,
		"updatedAt": p.UpdatedAt,
	}}
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": p.Id}, update)
	if err != nil {
		return fmt.Errorf("post/repo: failed saving votes of %s: %w", p.Id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	update := bson.M{
		"$push": bson.M{"comments": commentID},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	}
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return fmt.Errorf("post/repo: failed appending comment to %s: %w", postID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
