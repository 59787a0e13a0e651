package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docgenius-ai/docgenius/internal/api"
	"github.com/docgenius-ai/docgenius/internal/api/handlers"
	"github.com/docgenius-ai/docgenius/internal/api/middleware"
)

type RouterConfig struct {
	TokenParser    middleware.TokenParser
	AuthHandler    *handlers.AuthHandler
	ChatHandler    *handlers.ChatHandler
	MessageHandler *handlers.MessageHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 20 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/signup", cfg.AuthHandler.SignUp)
	r.Post("/auth/login", cfg.AuthHandler.Login)
	r.Get("/verify/{token}", cfg.AuthHandler.Verify)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.TokenParser))

		r.Route("/chats", func(r chi.Router) {
			r.Post("/", cfg.ChatHandler.Create)
			r.Get("/", cfg.ChatHandler.List)
			r.Get("/{chatID}", cfg.ChatHandler.Get)
			r.Delete("/{chatID}", cfg.ChatHandler.Delete)

			r.Post("/{chatID}/messages", cfg.MessageHandler.Send)
			r.Get("/{chatID}/messages", cfg.MessageHandler.List)
		})
	})

	return r
}
