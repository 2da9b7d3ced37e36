package comment

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/apperr"
	. "forum/pkg/common"
	"forum/pkg/sessions"
	"forum/pkg/voting"
)

type (
	ICommentService interface {
		Create(ctx context.Context, postID, authorID primitive.ObjectID, in Input) (*View, error)
		ForPost(context.Context, primitive.ObjectID) ([]*View, error)
		Thread(context.Context, primitive.ObjectID) ([]*Node, error)
		Replies(context.Context, primitive.ObjectID) ([]*View, error)
		Vote(ctx context.Context, id, userID primitive.ObjectID, t voting.Type) (*View, error)
	}

	CommentHandler struct {
		Service ICommentService
	}
)

func NewCommentHandler(s ICommentService) *CommentHandler {
	return &CommentHandler{
		Service: s,
	}
}

// Add handles POST /api/comments/{postId}.
func (ch *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, err := sessions.GetIdentity(r.Context())
	if err != nil {
		WriteError(w, r, apperr.Auth("Token is not valid"))
		return
	}

	postID, ok := ParseID(mux.Vars(r)["postId"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}

	in := Input{}
	if err := ParseReqBody(r.Body, &in); err != nil {
		WriteError(w, r, err)
		return
	}

	c, err := ch.Service.Create(r.Context(), postID, identity.UserID, in)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, c)
}

func (ch *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := ParseID(mux.Vars(r)["postId"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}

	comments, err := ch.Service.ForPost(r.Context(), postID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteRespJSON(w, comments)
}

func (ch *CommentHandler) Thread(w http.ResponseWriter, r *http.Request) {
	postID, ok := ParseID(mux.Vars(r)["postId"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgPostNotFound))
		return
	}

	thread, err := ch.Service.Thread(r.Context(), postID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteRespJSON(w, thread)
}

func (ch *CommentHandler) Replies(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(mux.Vars(r)["id"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgCommentNotFound))
		return
	}

	replies, err := ch.Service.Replies(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteRespJSON(w, replies)
}

func (ch *CommentHandler) Vote(w http.ResponseWriter, r *http.Request) {
	identity, err := sessions.GetIdentity(r.Context())
	if err != nil {
		WriteError(w, r, apperr.Auth("Token is not valid"))
		return
	}

	id, ok := ParseID(mux.Vars(r)["id"])
	if !ok {
		WriteError(w, r, apperr.NotFound(msgCommentNotFound))
		return
	}

	in := voting.Request{}
	if err := ParseReqBody(r.Body, &in); err != nil {
		WriteError(w, r, err)
		return
	}

	c, err := ch.Service.Vote(r.Context(), id, identity.UserID, in.VoteType)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteRespJSON(w, c)
}
