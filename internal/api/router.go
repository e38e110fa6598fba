package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/social-be/internal/api/handlers"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/services"
	"github.com/isdelr/social-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	authenticator *auth.Authenticator,
	healthService services.HealthServiceProvider,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	commentService services.CommentServiceProvider,
	likeService services.LikeServiceProvider,
	recentEvents handlers.RecentEventsProvider,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(healthService)
	authHandler := handlers.NewAuthHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	commentHandler := handlers.NewCommentHandler(commentService)
	likeHandler := handlers.NewLikeHandler(likeService)
	eventHandler := handlers.NewEventHandler(recentEvents)
	wsHandler := handlers.NewWebSocketHandler(hub, allowedOrigins)

	r.NotFound(healthHandler.NotFound)
	r.MethodNotAllowed(healthHandler.NotFound)

	r.Get("/", healthHandler.Root)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", healthHandler.Ping)
		r.Get("/test-db", healthHandler.TestDB)

		// Live event feed and recent activity
		r.Get("/ws", wsHandler.Serve)
		r.Get("/events", eventHandler.GetRecent)

		r.Get("/login", handlers.Usage("Use POST /api/login with JSON {username, password}"))
		r.Post("/login", authHandler.Login)

		r.Get("/posts", postHandler.List)
		r.With(authenticator.Middleware).Post("/posts", postHandler.Create)

		r.Get("/comments", handlers.Usage("Use POST /api/comments with JSON {post_id, content} and a Bearer token"))
		r.With(authenticator.Middleware).Post("/comments", commentHandler.Create)
		r.Get("/comments/{postId}", commentHandler.ListForPost)

		r.Get("/likes", handlers.Usage("Use POST /api/likes with JSON {post_id} and a Bearer token"))
		r.With(authenticator.Middleware).Post("/likes", likeHandler.Create)
		r.Get("/likes/{postId}", likeHandler.ListForPost)
	})

	return r
}
