package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"forum/pkg/auth"
	"forum/pkg/comment"
	"forum/pkg/common"
	"forum/pkg/config"
	"forum/pkg/logger"
	"forum/pkg/middleware"
	"forum/pkg/mongodb"
	"forum/pkg/post"
	"forum/pkg/sessions"
	"forum/pkg/user"
	"forum/pkg/user/api"
)

const shutdownTimeout = 10 * time.Second

// usersStore is satisfied by both the MongoDB and the PostgreSQL user repos.
type usersStore interface {
	auth.UserRepo
	api.UserRepo
	GetSummaries(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]*user.Summary, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("main:", err)
	}

	zapLogger := logger.Run(cfg.LogLevel)
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		zapLogger.Fatalf("main: can't connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			zapLogger.Errorf("main: failed disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		zapLogger.Fatalf("main: %v", err)
	}

	usersRepo, closeUsers, err := openUsers(ctx, cfg, db)
	if err != nil {
		zapLogger.Fatalf("main: %v", err)
	}
	defer closeUsers()

	postsRepo := post.NewPostRepo(db.Collection(mongodb.PostsCollection))
	commentsRepo := comment.NewCommentRepo(db.Collection(mongodb.CommentsCollection))
	sessionManager := sessions.NewSessionManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := auth.NewService(usersRepo, sessionManager)
	commentService := comment.NewService(commentsRepo, postsRepo, usersRepo)

	if cfg.Seed {
		// Generate fake content to have better UI experience
		if err := seed(ctx, usersRepo, postsRepo, commentService); err != nil {
			zapLogger.Errorf("main: seeding failed: %v", err)
		}
	}

	handler := newRouter(routes{
		users:      api.NewUserHandler(authService, usersRepo),
		posts:      post.NewPostHandler(postsRepo, usersRepo, commentService),
		comments:   comment.NewCommentHandler(commentService),
		auth:       middleware.NewAuthMiddleware(sessionManager),
		logs:       middleware.NewLoggingMiddleware(zapLogger),
		metrics:    middleware.NewMetrics(nil),
		health:     healthHandler(mongoClient),
		staticPath: cfg.StaticPath,
		origins:    cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLogger.Infof("Serving at http://localhost%s/", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatalf("main: server failed: %v", err)
		}
	}()

	<-ctx.Done()
	zapLogger.Info("main: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Errorf("main: graceful shutdown failed: %v", err)
	}
}

// openUsers picks the user store configured by USERS_BACKEND.
func openUsers(ctx context.Context, cfg *config.Config, db *mongo.Database) (usersStore, func(), error) {
	if cfg.UsersBackend != config.UsersBackendPostgres {
		return user.NewUserRepo(db.Collection(mongodb.UsersCollection)), func() {}, nil
	}

	pg, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.PingContext(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}

	repo := user.NewPgUserRepo(pg)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	return repo, func() { _ = pg.Close() }, nil
}

func healthHandler(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			logger.Log(r.Context()).Errorf("health: mongo ping failed: %v", err)
			common.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		common.WriteRespJSON(w, map[string]string{"status": "ok"})
	}
}
