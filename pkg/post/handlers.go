package post

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/apperr"
	"forum/pkg/comment"
	. "forum/pkg/common"
	"forum/pkg/logger"
	"forum/pkg/sessions"
	"forum/pkg/user"
	"forum/pkg/validation"
	"forum/pkg/voting"
)

const (
	msgPostNotFound  = "Post not found"
	msgInvalidUserID = "Invalid user ID format"
)

type (
	IPostRepo interface {
		Add(context.Context, *Post) (primitive.ObjectID, error)
		GetById(context.Context, primitive.ObjectID) (*Post, error)
		IncrementViews(context.Context, primitive.ObjectID) (*Post, error)
		GetAll(context.Context, Query) ([]*Post, error)
		GetUserPosts(context.Context, primitive.ObjectID) ([]*Post, error)
		SaveVotes(context.Context, *Post) error
	}

	IAuthorRepo interface {
		GetSummaries(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]*user.Summary, error)
	}

	ICommentService interface {
		Create(ctx context.Context, postID, authorID primitive.ObjectID, in comment.Input) (*comment.View, error)
		ByIds(context.Context, []primitive.ObjectID) ([]*comment.View, error)
	}

	PostHandler struct {
		PostRepo IPostRepo
		Authors  IAuthorRepo
		Comments ICommentService
	}
)

func NewPostHandler(postRepo IPostRepo, authors IAuthorRepo, comments ICommentService) *PostHandler {
	return &PostHandler{
		PostRepo: postRepo,
		Authors:  authors,
		Comments: comments,
	}
}

// List handles GET /api/posts?category=&sort=.
func (ph *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Category: r.URL.Query().Get("category"),
		Sort:     r.URL.Query().Get("sort"),
	}

	posts, err := ph.PostRepo.GetAll(r.Context(), q)
	if err != nil {
		WriteError(w, r, apperr.Store("Server Error", err))
		return
	}

	views, err := ph.render(r.Context(), posts...)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteRespJSON(w, views)
}

func (ph *PostHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseID(mux.Vars(r)["userId"])
	if !ok {
		WriteError(w, r, apperr.Validation(msgInvalidUserID))
		return
	}

	posts, err := ph.PostRepo.GetUserPosts(r.Context(), userID)
	if err != nil {
		WriteError(w, r, apperr.Store("Server Error", err))
		return
	}

	views, err := ph.render(r.Context(), posts...)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteRespJSON(w, views)
}

// Get returns a single post and counts the fetch as a view.
func (ph *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := ParseID(mux.Vars(r)["id"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}

	post, err := ph.PostRepo.IncrementViews(r.Context(), postID)
	if errors.Is(err, ErrNotFound) {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}
	if err != nil {
		WriteError(w, r, apperr.Store("Server Error", err))
		return
	}

	ph.writeOne(w, r, http.StatusOK, post)
}

func (ph *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, err := sessions.GetIdentity(r.Context())
	if err != nil {
		WriteError(w, r, apperr.Auth("Token is not valid"))
		return
	}

	in := Input{}
	if err := ParseReqBody(r.Body, &in); err != nil {
		WriteError(w, r, err)
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(&in); err != nil {
		WriteError(w, r, err)
		return
	}

	post := &Post{
		Title:    in.Title,
		Content:  in.Content,
		Author:   identity.UserID,
		Category: in.Category,
		Tags:     TrimAll(in.Tags),
		Ballot:   voting.NewBallot(),
		Comments: []primitive.ObjectID{},
	}
	if _, err := ph.PostRepo.Add(r.Context(), post); err != nil {
		WriteError(w, r, apperr.Store("Server Error", err))
		return
	}
	logger.Log(r.Context()).Infof("post: %s created by %s", post.Id.Hex(), identity.UserID.Hex())

	ph.writeOne(w, r, http.StatusCreated, post)
}

func (ph *PostHandler) Vote(w http.ResponseWriter, r *http.Request) {
	identity, err := sessions.GetIdentity(r.Context())
	if err != nil {
		WriteError(w, r, apperr.Auth("Token is not valid"))
		return
	}

	postID, ok := ParseID(mux.Vars(r)["id"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}

	in := voting.Request{}
	if err := ParseReqBody(r.Body, &in); err != nil {
		WriteError(w, r, err)
		return
	}

	post, err := ph.PostRepo.GetById(r.Context(), postID)
	if errors.Is(err, ErrNotFound) {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}
	if err != nil {
		WriteError(w, r, apperr.Store("Server Error", err))
		return
	}

	post.Cast(identity.UserID, in.VoteType)
	err = ph.PostRepo.SaveVotes(r.Context(), post)
	if errors.Is(err, ErrNotFound) {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}
	if err != nil {
		WriteError(w, r, apperr.Store("Server Error", err))
		return
	}

	ph.writeOne(w, r, http.StatusOK, post)
}

// AddComment handles POST /api/posts/{id}/comments. Replies carry a
// parentComment id in the body.
func (ph *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity, err := sessions.GetIdentity(r.Context())
	if err != nil {
		WriteError(w, r, apperr.Auth("Token is not valid"))
		return
	}

	postID, ok := ParseID(mux.Vars(r)["id"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}

	in := comment.Input{}
	if err := ParseReqBody(r.Body, &in); err != nil {
		WriteError(w, r, err)
		return
	}

	c, err := ph.Comments.Create(r.Context(), postID, identity.UserID, in)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, c)
}

func (ph *PostHandler) writeOne(w http.ResponseWriter, r *http.Request, code int, p *Post) {
	views, err := ph.render(r.Context(), p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, code, views[0])
}

// render resolves authors and top-level comments of posts with one lookup
// each.
func (ph *PostHandler) render(ctx context.Context, posts ...*Post) ([]*View, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	commentIDs := make([]primitive.ObjectID, 0)
	for _, p := range posts {
		if !seen[p.Author] {
			seen[p.Author] = true
			authorIDs = append(authorIDs, p.Author)
		}
		commentIDs = append(commentIDs, p.Comments...)
	}

	authors, err := ph.Authors.GetSummaries(ctx, authorIDs)
	if err != nil {
		return nil, apperr.Store("Server Error", err)
	}

	commentsByID := make(map[primitive.ObjectID]*comment.View, len(commentIDs))
	if len(commentIDs) > 0 {
		comments, err := ph.Comments.ByIds(ctx, commentIDs)
		if err != nil {
			return nil, err
		}
		for _, c := range comments {
			commentsByID[c.Id] = c
		}
	}

	views := make([]*View, 0, len(posts))
	for _, p := range posts {
		comments := make([]*comment.View, 0, len(p.Comments))
		for _, id := range p.Comments {
			if c, ok := commentsByID[id]; ok {
				comments = append(comments, c)
			}
		}
		views = append(views, p.View(authors[p.Author], comments))
	}
	return views, nil
}
