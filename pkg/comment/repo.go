package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forum/pkg/mongodb"
	"forum/pkg/voting"
)

type CommentRepo struct {
	comments mongodb.ICollection
	now      func() time.Time
}

func NewCommentRepo(commentsCol *mongo.Collection) *CommentRepo {
	return &CommentRepo{
		comments: mongodb.NewCollection(commentsCol),
		now:      time.Now,
	}
}

func (r *CommentRepo) Add(ctx context.Context, c *Comment) (primitive.ObjectID, error) {
	if c.Id.IsZero() {
		c.Id = primitive.NewObjectID()
	}
	if c.Upvotes == nil || c.Downvotes == nil {
		c.Ballot = voting.NewBallot()
	}
	if c.Replies == nil {
		c.Replies = []primitive.ObjectID{}
	}
	now := r.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	if _, err := r.comments.InsertOne(ctx, c); err != nil {
		return primitive.NilObjectID, fmt.Errorf("comment/repo: failed inserting comment: %w", err)
	}
	return c.Id, nil
}

func (r *CommentRepo) GetById(ctx context.Context, id primitive.ObjectID) (*Comment, error) {
	c := new(Comment)
	err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("comment/repo: failed finding comment %s: %w", id.Hex(), err)
	}
	return c, nil
}

// GetByPost returns every comment of the post, replies included, newest
// first.
func (r *CommentRepo) GetByPost(ctx context.Context, postID primitive.ObjectID) ([]*Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"post": postID}, opts)
}

// GetByParent returns the direct replies of a comment, oldest first.
func (r *CommentRepo) GetByParent(ctx context.Context, parentID primitive.ObjectID) ([]*Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"parentComment": parentID}, opts)
}

// GetByIds returns the comments in the order of ids. Unknown ids are
// skipped.
func (r *CommentRepo) GetByIds(ctx context.Context, ids []primitive.ObjectID) ([]*Comment, error) {
	if len(ids) == 0 {
		return []*Comment{}, nil
	}

	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*Comment, len(found))
	for _, c := range found {
		byID[c.Id] = c
	}
	res := make([]*Comment, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			res = append(res, c)
		}
	}
	return res, nil
}

func (r *CommentRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*Comment, error) {
	cursor, err := r.comments.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("comment/repo: failed finding comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []*Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("comment/repo: failed getting comments from cursor: %w", err)
	}
	return comments, nil
}

// SaveVotes overwrites both vote sets of c.
func (r *CommentRepo) SaveVotes(ctx context.Context, c *Comment) error {
	c.UpdatedAt = r.now().UTC()
	update := bson.M{"$set": bson.M{
		"upvotes":   c.Upvotes,
		"downvotes": c.Downvotes,
		"updatedAt": c.UpdatedAt,
	}}
	res, err := r.comments.UpdateOne(ctx, bson.M{"_id": c.Id}, update)
	if err != nil {
		return fmt.Errorf("comment/repo: failed saving votes of %s: %w", c.Id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepo) AppendReply(ctx context.Context, parentID, replyID primitive.ObjectID) error {
	update := bson.M{
		"$push": bson.M{"replies": replyID},
		"$set":  bson.M{"updatedAt": r.now().UTC()},
	}
	res, err := r.comments.UpdateOne(ctx, bson.M{"_id": parentID}, update)
	if err != nil {
		return fmt.Errorf("comment/repo: failed appending reply to %s: %w", parentID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comment. It only undoes an insert whose linking failed;
// comments are otherwise never deleted.
func (r *CommentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.comments.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("comment/repo: failed deleting %s: %w", id.Hex(), err)
	}
	return nil
}
