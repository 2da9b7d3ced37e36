package comment

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/apperr"
	"forum/pkg/common"
	"forum/pkg/logger"
	"forum/pkg/user"
	"forum/pkg/validation"
	"forum/pkg/voting"
)

//go:generate mockgen -source=service.go -destination=mock_service.go -package=comment

type (
	ICommentRepo interface {
		Add(context.Context, *Comment) (primitive.ObjectID, error)
		GetById(context.Context, primitive.ObjectID) (*Comment, error)
		GetByPost(context.Context, primitive.ObjectID) ([]*Comment, error)
		GetByParent(context.Context, primitive.ObjectID) ([]*Comment, error)
		GetByIds(context.Context, []primitive.ObjectID) ([]*Comment, error)
		SaveVotes(context.Context, *Comment) error
		AppendReply(ctx context.Context, parentID, replyID primitive.ObjectID) error
		Delete(context.Context, primitive.ObjectID) error
	}

	// IPostLinker is the part of the post store comments need: an existence
	// check and the post's list of top-level comments.
	IPostLinker interface {
		Exists(context.Context, primitive.ObjectID) (bool, error)
		AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	}

	IAuthorRepo interface {
		GetSummaries(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]*user.Summary, error)
	}

	Service struct {
		Comments ICommentRepo
		Posts    IPostLinker
		Authors  IAuthorRepo
	}
)

const (
	msgPostNotFound    = "Post not found"
	msgParentNotFound  = "Parent comment not found"
	msgCommentNotFound = "Comment not found"
)

func NewService(comments ICommentRepo, posts IPostLinker, authors IAuthorRepo) *Service {
	return &Service{
		Comments: comments,
		Posts:    posts,
		Authors:  authors,
	}
}

// Create adds a comment to a post. A comment with a parent is appended to
// the parent's replies, otherwise to the post's comments.
func (s *Service) Create(ctx context.Context, postID, authorID primitive.ObjectID, in Input) (*View, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	exists, err := s.Posts.Exists(ctx, postID)
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}
	if !exists {
		return nil, apperr.NotFound(msgPostNotFound)
	}

	c := &Comment{
		Content: in.Content,
		Author:  authorID,
		Post:    postID,
		Ballot:  voting.NewBallot(),
		Replies: []primitive.ObjectID{},
	}

	if in.ParentComment != "" {
		parentID, ok := common.ParseID(in.ParentComment)
		if !ok {
			return nil, apperr.NotFound(msgParentNotFound)
		}
		parent, err := s.Comments.GetById(ctx, parentID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(msgParentNotFound)
		}
		if err != nil {
			return nil, apperr.Store("Server Error", err)
		}
		if parent.Post != postID {
			return nil, apperr.NotFound(msgParentNotFound)
		}
		c.ParentComment = &parent.Id
	}

	if _, err := s.Comments.Add(ctx, c); err != nil {
		return nil, apperr.Store("Server Error", err)
	}

	if c.IsReply() {
		err = s.Comments.AppendReply(ctx, *c.ParentComment, c.Id)
	} else {
		err = s.Posts.AppendComment(ctx, postID, c.Id)
	}
	if err != nil {
		// an unlinked comment would still show up in the post's comment list
		if delErr := s.Comments.Delete(ctx, c.Id); delErr != nil {
			logger.Log(ctx).Errorf("comment: failed removing unlinked %s: %v", c.Id.Hex(), delErr)
		}
		return nil, apperr.Store("Server Error", err)
	}
	logger.Log(ctx).Infof("comment: %s added to post %s", c.Id.Hex(), postID.Hex())

	views, err := s.populate(ctx, []*Comment{c})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ForPost lists every comment of a post, newest first.
func (s *Service) ForPost(ctx context.Context, postID primitive.ObjectID) ([]*View, error) {
	comments, err := s.Comments.GetByPost(ctx, postID)
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}
	return s.populate(ctx, comments)
}

// Thread returns the comments of a post arranged as a reply tree.
func (s *Service) Thread(ctx context.Context, postID primitive.ObjectID) ([]*Node, error) {
	views, err := s.ForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildThread(views), nil
}

func (s *Service) Replies(ctx context.Context, id primitive.ObjectID) ([]*View, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	replies, err := s.Comments.GetByParent(ctx, id)
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}
	return s.populate(ctx, replies)
}

// ByIds renders the comments with the given ids, keeping their order.
func (s *Service) ByIds(ctx context.Context, ids []primitive.ObjectID) ([]*View, error) {
	comments, err := s.Comments.GetByIds(ctx, ids)
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}
	return s.populate(ctx, comments)
}

func (s *Service) Vote(ctx context.Context, id, userID primitive.ObjectID, t voting.Type) (*View, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Cast(userID, t)
	if err := s.Comments.SaveVotes(ctx, c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(msgCommentNotFound)
		}
		return nil, apperr.Store("Server Error", err)
	}

	views, err := s.populate(ctx, []*Comment{c})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) get(ctx context.Context, id primitive.ObjectID) (*Comment, error) {
	c, err := s.Comments.GetById(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound(msgCommentNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}
	return c, nil
}

func (s *Service) populate(ctx context.Context, comments []*Comment) ([]*View, error) {
	ids := make([]primitive.ObjectID, 0, len(comments))
	seen := make(map[primitive.ObjectID]bool, len(comments))
	for _, c := range comments {
		if !seen[c.Author] {
			seen[c.Author] = true
			ids = append(ids, c.Author)
		}
	}

	authors, err := s.Authors.GetSummaries(ctx, ids)
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}

	views := make([]*View, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View(authors[c.Author]))
	}
	return views, nil
}
