package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2exd/suit-streak-server/internal/api/handler"
	"github.com/2exd/suit-streak-server/internal/api/middleware"
	"github.com/2exd/suit-streak-server/internal/services/identity"
	"github.com/2exd/suit-streak-server/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	IdentityService *identity.Service
	RoomController  *room.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.IdentityService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.IdentityService)
	requireLoginMiddleware := middleware.RequireLogin(cfg.IdentityService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User creation needs no auth
	api.HandleFunc("/users", userHandler.Create).Methods(http.MethodPost)

	// Protected user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)
	users.HandleFunc("/me/username", userHandler.SetUsername).Methods(http.MethodPut)
	users.HandleFunc("/me/avatar", userHandler.SetAvatar).Methods(http.MethodPut)
	users.HandleFunc("/me/logout", userHandler.Logout).Methods(http.MethodPost)

	// Room routes require auth and a set username
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.Use(requireLoginMiddleware)
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/current", roomHandler.GetCurrent).Methods(http.MethodGet)
	rooms.HandleFunc("/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/ready", roomHandler.ToggleReady).Methods(http.MethodPost)
	rooms.HandleFunc("/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/join", roomHandler.Join).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
