package api

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/mcoot/taptext/internal/api/handler"
	"github.com/mcoot/taptext/internal/api/middleware"
	"github.com/mcoot/taptext/internal/api/response"
	"github.com/mcoot/taptext/internal/relay"
	"github.com/mcoot/taptext/internal/services/auth"
	"github.com/mcoot/taptext/internal/services/moderation"
	"github.com/mcoot/taptext/internal/services/social"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	SocialService     *social.Service
	ModerationService *moderation.Service
	Hub               *relay.Hub

	// StaticDir is served at / when it exists
	StaticDir string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	// Route on the escaped path so a %2F inside a username stays in its segment
	r := mux.NewRouter().UseEncodedPath()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService, cfg.SocialService, cfg.Logger)
	moderationHandler := handler.NewModerationHandler(cfg.ModerationService)
	wsHandler := relay.NewHandler(cfg.Hub, cfg.Logger)

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Accounts
	r.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/update-profile", userHandler.UpdateProfile).Methods(http.MethodPost)
	r.HandleFunc("/users/{username}", userHandler.Get).Methods(http.MethodGet)

	// Social graph
	r.HandleFunc("/follow", userHandler.Follow).Methods(http.MethodPost)

	// Moderation
	r.HandleFunc("/warn", moderationHandler.Warn).Methods(http.MethodPost)
	r.HandleFunc("/warnings/{user}", moderationHandler.Warnings).Methods(http.MethodGet)
	r.HandleFunc("/promote", moderationHandler.Promote).Methods(http.MethodPost)
	r.HandleFunc("/demote", moderationHandler.Demote).Methods(http.MethodPost)

	// Live relay
	r.Handle("/ws", wsHandler).Methods(http.MethodGet)

	r.HandleFunc("/health", healthHandler(cfg.Hub)).Methods(http.MethodGet)

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods(http.MethodGet, http.MethodHead)
		} else {
			cfg.Logger.Info("static directory not found, not serving assets", slog.String("dir", cfg.StaticDir))
		}
	}

	return r
}

func healthHandler(hub *relay.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, response.HealthResponse{
			Status:   "ok",
			Sessions: hub.SessionCount(),
		})
	}
}
