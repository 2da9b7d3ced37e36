//go:build integration

package comment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/apperr"
	"forum/pkg/comment"
	"forum/pkg/mongodb"
	"forum/pkg/mongodb/mongotest"
	"forum/pkg/post"
	"forum/pkg/user"
	"forum/pkg/voting"
)

func TestDiscussionAgainstMongo(t *testing.T) {
	db := mongotest.Start(t)
	ctx := context.Background()

	users := user.NewUserRepo(db.Collection(mongodb.UsersCollection))
	posts := post.NewPostRepo(db.Collection(mongodb.PostsCollection))
	svc := comment.NewService(comment.NewCommentRepo(db.Collection(mongodb.CommentsCollection)), posts, users)

	aliceID, err := users.Add(ctx, &user.User{Username: "Alice", Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)
	_, err = users.Add(ctx, &user.User{Username: "Alice", Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, user.ErrDuplicate)

	postID, err := posts.Add(ctx, &post.Post{
		Title:    "Hello gophers",
		Content:  "A post long enough to pass validation",
		Author:   aliceID,
		Category: post.CategoryTechnology,
	})
	require.NoError(t, err)

	t.Run("views increment atomically", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			p, err := posts.IncrementViews(ctx, postID)
			require.NoError(t, err)
			assert.Equal(t, i, p.Views)
		}
		_, err := posts.IncrementViews(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, post.ErrNotFound)
	})

	root, err := svc.Create(ctx, postID, aliceID, comment.Input{Content: "first"})
	require.NoError(t, err)
	reply, err := svc.Create(ctx, postID, aliceID, comment.Input{Content: "reply", ParentComment: root.Id.Hex()})
	require.NoError(t, err)

	t.Run("top-level comments are linked to the post only", func(t *testing.T) {
		p, err := posts.GetById(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{root.Id}, p.Comments)

		replies, err := svc.Replies(ctx, root.Id)
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, reply.Id, replies[0].Id)
		assert.Equal(t, "Alice", replies[0].Author.Username)
	})

	t.Run("thread", func(t *testing.T) {
		nodes, err := svc.Thread(ctx, postID)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, root.Id, nodes[0].Id)
		require.Len(t, nodes[0].Children, 1)
		assert.Equal(t, reply.Id, nodes[0].Children[0].Id)
	})

	t.Run("votes are exclusive and idempotent", func(t *testing.T) {
		voter := primitive.NewObjectID()
		v, err := svc.Vote(ctx, root.Id, voter, voting.Up)
		require.NoError(t, err)
		assert.Equal(t, 1, v.VoteCount)

		v, err = svc.Vote(ctx, root.Id, voter, voting.Up)
		require.NoError(t, err)
		assert.Equal(t, 1, v.VoteCount)

		v, err = svc.Vote(ctx, root.Id, voter, voting.Down)
		require.NoError(t, err)
		assert.Equal(t, -1, v.VoteCount)
		assert.Empty(t, v.Upvotes)
	})

	t.Run("parent on another post", func(t *testing.T) {
		otherID, err := posts.Add(ctx, &post.Post{Title: "Other post", Content: "Some other content here", Author: aliceID, Category: post.CategoryOther})
		require.NoError(t, err)

		_, err = svc.Create(ctx, otherID, aliceID, comment.Input{Content: "x", ParentComment: root.Id.Hex()})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("popular sort", func(t *testing.T) {
		p, err := posts.GetById(ctx, postID)
		require.NoError(t, err)
		p.Cast(primitive.NewObjectID(), voting.Up)
		require.NoError(t, posts.SaveVotes(ctx, p))

		all, err := posts.GetAll(ctx, post.Query{Sort: post.SortPopular})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, postID, all[0].Id)
	})
}
