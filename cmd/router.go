package main

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"forum/pkg/comment"
	"forum/pkg/middleware"
	"forum/pkg/post"
	"forum/pkg/user/api"
)

type routes struct {
	users    *api.UserHandler
	posts    *post.PostHandler
	comments *comment.CommentHandler

	auth    *middleware.Auth
	logs    *middleware.LoggingMiddleware
	metrics *middleware.Metrics
	health  http.HandlerFunc

	staticPath string
	origins    []string
}

func newRouter(rt routes) http.Handler {
	r := mux.NewRouter()
	protect := rt.auth.RequireFunc

	r.Handle("/metrics", rt.metrics.Handler()).Methods("GET")
	r.HandleFunc("/healthz", rt.health).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()

	// Auth
	apiRouter.HandleFunc("/auth/register", rt.users.Register).Methods("POST")
	apiRouter.HandleFunc("/auth/login", rt.users.LogIn).Methods("POST")

	// Users
	apiRouter.Handle("/users/me", protect(rt.users.Me)).Methods("GET")
	apiRouter.HandleFunc("/users", rt.users.List).Methods("GET")
	apiRouter.HandleFunc("/users/{id}", rt.users.Get).Methods("GET")
	apiRouter.Handle("/users/{id}", protect(rt.users.Update)).Methods("PUT")

	// Posts
	apiRouter.HandleFunc("/posts", rt.posts.List).Methods("GET")
	apiRouter.Handle("/posts", protect(rt.posts.Add)).Methods("POST")
	apiRouter.HandleFunc("/posts/user/{userId}", rt.posts.GetByUser).Methods("GET")
	apiRouter.HandleFunc("/posts/{id}", rt.posts.Get).Methods("GET")
	apiRouter.Handle("/posts/{id}/comments", protect(rt.posts.AddComment)).Methods("POST")
	apiRouter.Handle("/posts/{id}/vote", protect(rt.posts.Vote)).Methods("POST")

	// Comments
	apiRouter.HandleFunc("/comments/post/{postId}", rt.comments.ListForPost).Methods("GET")
	apiRouter.HandleFunc("/comments/post/{postId}/thread", rt.comments.Thread).Methods("GET")
	apiRouter.HandleFunc("/comments/{id}/replies", rt.comments.Replies).Methods("GET")
	apiRouter.Handle("/comments/{id}/vote", protect(rt.comments.Vote)).Methods("POST")
	apiRouter.Handle("/comments/{postId}", protect(rt.comments.Add)).Methods("POST")

	r.Use(rt.logs.SetupTracing)
	r.Use(rt.logs.SetupLogging)
	r.Use(rt.logs.AccessLog)
	r.Use(rt.metrics.Instrument)

	spa := spaHandler{staticPath: rt.staticPath, indexPath: "index.html"}
	r.PathPrefix("/").Handler(spa)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   rt.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return middleware.Recover(corsHandler(r))
}
