/*
Package handler provides the HTTP handlers and routing setup for the social hub server.

This file defines the main Router, applying middleware like logging, CORS, and
IP-based rate limiting before delegating requests to specific handlers (API and
WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"socialhub/internal/pkg/auth/jwt"
	"socialhub/internal/pkg/errs"
	"socialhub/internal/pkg/limiter"
	"socialhub/internal/pkg/logx"
	"socialhub/internal/pkg/resp"
)

const (
	AuthRate   = 0.2
	AuthBurst  = 5
	WriteRate  = 1.0
	WriteBurst = 10
	WsRate     = 0.5
	WsBurst    = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global
// and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	writeLimiter := limiter.NewIPRateLimiter(rate.Limit(WriteRate), WriteBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WsRate), WsBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "Social Hub Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(authLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.Post("/refresh", HandleRefresh(deps))
			auth.Post("/logout", HandleLogout(deps))
			auth.Get("/me", HandleMe(deps))
			auth.Get("/users", HandleListUsers(deps))
		})

		api.Route("/posts", func(posts chi.Router) {
			posts.Get("/", HandleListPosts(deps))
			posts.Get("/sample", HandleSamplePosts(deps))
			posts.With(writeLimiter.Middleware).Post("/", HandleCreatePost(deps))
			posts.Get("/{id}", HandleGetPost(deps))
			posts.Put("/{id}", HandleUpdatePost(deps))
			posts.Delete("/{id}", HandleDeletePost(deps))
			posts.Post("/{id}/like", HandleTogglePostLike(deps))
			posts.Get("/{id}/reactions", HandleListReactions(deps))
			posts.Post("/{id}/reactions", HandleSetPostReaction(deps))
			posts.Get("/{id}/comments", HandleListComments(deps))
			posts.With(writeLimiter.Middleware).Post("/{id}/comments", HandleCreateComment(deps))
		})

		api.Route("/stories", func(stories chi.Router) {
			stories.Get("/", HandleListStories(deps))
			stories.With(writeLimiter.Middleware).Post("/", HandleCreateStory(deps))
			stories.Post("/{id}/view", HandleViewStory(deps))
		})

		api.Route("/messages", func(messages chi.Router) {
			messages.Get("/chats", HandleListChats(deps))
			messages.Get("/{other_user_id}", HandleConversation(deps))
			messages.With(writeLimiter.Middleware).Post("/{receiver_id}", HandleSendMessage(deps))
			messages.Post("/{other_user_id}/mark-read", HandleMarkRead(deps))
		})

		api.Route("/media", func(media chi.Router) {
			media.Post("/presign-upload", HandlePresignUpload(deps))
			media.Get("/presign-download", HandlePresignDownload(deps))
			media.With(writeLimiter.Middleware).Post("/avatar", HandleUploadAvatar(deps))
		})

		api.Post("/init-sample-data", HandleInitSampleData(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, wsLimiter, deps))
	r.Get("/ws/online-users", HandleOnlineUsers(deps))

	return r
}

// HandleInitSampleData loads the demo data set. Idempotent; development runs
// it at startup as well.
func HandleInitSampleData(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.SeedSampleData(r.Context()); err != nil {
			logx.Error(err, "Sample data seeding failed.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"status": "seeded"})
	}
}
