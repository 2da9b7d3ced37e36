package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"forum/pkg/comment"
	"forum/pkg/common"
	"forum/pkg/logger"
	"forum/pkg/post"
	"forum/pkg/user"
)

const (
	seedPassword = "sdfsdfsdf"
	seedUsers    = 5
	seedPosts    = 8
)

type (
	ISeedUsers interface {
		Add(context.Context, *user.User) (primitive.ObjectID, error)
		GetAll(context.Context) ([]*user.User, error)
	}

	ISeedPosts interface {
		Add(context.Context, *post.Post) (primitive.ObjectID, error)
		GetAll(context.Context, post.Query) ([]*post.Post, error)
	}

	ISeedComments interface {
		Create(ctx context.Context, postID, authorID primitive.ObjectID, in comment.Input) (*comment.View, error)
	}
)

var f = faker.New()

// seed fills an empty database with fake users, posts and comment threads.
func seed(ctx context.Context, users ISeedUsers, posts ISeedPosts, comments ISeedComments) error {
	existing, err := posts.GetAll(ctx, post.Query{})
	if err != nil {
		return fmt.Errorf("seed: can't list posts: %w", err)
	}
	if len(existing) > 0 {
		logger.Log(ctx).Debugf("seed: %d posts found, skipping", len(existing))
		return nil
	}

	authors, err := seedAuthors(ctx, users)
	if err != nil {
		return err
	}

	for i := 0; i < seedPosts; i++ {
		p := genPost(authors)
		postID, err := posts.Add(ctx, p)
		if err != nil {
			return fmt.Errorf("seed: can't add post: %w", err)
		}
		if err := genThread(ctx, comments, postID, authors); err != nil {
			return err
		}
	}

	logger.Log(ctx).Infof("seed: created %d posts for %d authors", seedPosts, len(authors))
	return nil
}

func seedAuthors(ctx context.Context, users ISeedUsers) ([]*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed: can't hash password: %w", err)
	}

	// User for experiments (not random)
	candidates := []*user.User{{
		Username: "Pike",
		Email:    "pike@example.com",
		Password: string(hash),
	}}
	for i := 0; i < seedUsers; i++ {
		candidates = append(candidates, genUser(string(hash)))
	}

	for _, u := range candidates {
		if _, err := users.Add(ctx, u); err != nil && !errors.Is(err, user.ErrDuplicate) {
			return nil, fmt.Errorf("seed: can't add user: %w", err)
		}
	}

	authors, err := users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: can't get all authors: %w", err)
	}
	if len(authors) == 0 {
		return nil, errors.New("seed: no authors available")
	}
	return authors, nil
}

func genUser(hash string) *user.User {
	person := f.Person()
	username := strings.ToLower(person.FirstName()) + fmt.Sprint(rand.Intn(1000))
	return &user.User{
		Username: common.Capitalize(username),
		Email:    username + "@" + f.Internet().FreeEmailDomain(),
		Password: hash,
		Bio:      f.Lorem().Sentence(8),
	}
}

func genPost(authors []*user.User) *post.Post {
	return &post.Post{
		Author:   randUser(authors).Id,
		Title:    genTitle(),
		Content:  genText(),
		Category: post.Categories[rand.Intn(len(post.Categories))],
		Tags:     f.Lorem().Words(rand.Intn(3) + 1),
		Views:    rand.Intn(100),
	}
}

// genThread adds a few top-level comments to a post, each with a couple of replies.
func genThread(ctx context.Context, comments ISeedComments, postID primitive.ObjectID, authors []*user.User) error {
	for i := rand.Intn(4); i >= 0; i-- {
		root, err := comments.Create(ctx, postID, randUser(authors).Id, comment.Input{Content: genText()})
		if err != nil {
			return fmt.Errorf("seed: can't add comment: %w", err)
		}
		for j := rand.Intn(3); j > 0; j-- {
			reply := comment.Input{Content: f.Lorem().Sentence(10), ParentComment: root.Id.Hex()}
			if _, err := comments.Create(ctx, postID, randUser(authors).Id, reply); err != nil {
				return fmt.Errorf("seed: can't add reply: %w", err)
			}
		}
	}
	return nil
}

func genTitle() string {
	return common.Capitalize(strings.Join(f.Lorem().Words(rand.Intn(5)+3), " "))
}

func genText() string {
	return f.Lorem().Paragraph(rand.Intn(3) + 2)
}

func randUser(users []*user.User) *user.User {
	return users[rand.Intn(len(users))]
}
