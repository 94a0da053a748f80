package api

import (
	"github.com/gorilla/mux"

	"github.com/campushub/backend/internal/api/recovery"
	"github.com/campushub/backend/internal/services"
)

// Deps bundles the services the router wires into handlers.
type Deps struct {
	Submissions *services.SubmissionService
	Users       *services.UserService
	Notify      *services.NotifyService
	Health      HealthPinger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(d.Health)
	uploadHandler := NewUploadHandler(d.Submissions)
	complaintHandler := NewComplaintHandler(d.Submissions)
	musicHandler := NewMusicHandler(d.Submissions)
	userHandler := NewUserHandler(d.Users)
	notifyHandler := NewNotifyHandler(d.Notify)

	// Liveness & health
	router.HandleFunc("/", healthHandler.Root).Methods("GET")
	router.HandleFunc("/api/health", healthHandler.Check).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStore).Methods("GET")

	// Artifact upload
	router.HandleFunc("/api/upload", uploadHandler.Upload).Methods("POST")

	// Complaints
	router.HandleFunc("/api/register/complaint/student", complaintHandler.Register).Methods("POST")

	// Users
	router.HandleFunc("/api/create/user", userHandler.Create).Methods("POST")
	router.HandleFunc("/api/login/user", userHandler.Login).Methods("POST")
	router.HandleFunc("/api/show/user", userHandler.List).Methods("GET")

	// Music
	router.HandleFunc("/api/upload/music", musicHandler.Upload).Methods("POST")
	router.HandleFunc("/api/upload/youtube/url", musicHandler.ImportYouTube).Methods("POST")
	router.HandleFunc("/api/get/music_data", musicHandler.List).Methods("GET")

	// Favourites
	router.HandleFunc("/api/fetch/favourite/user/song", userHandler.FavouriteSongs).Methods("GET")
	router.HandleFunc("/api/update/favourite/user/song", userHandler.ToggleFavouriteSong).Methods("POST")

	// Notifications
	router.HandleFunc("/api/send/email", notifyHandler.Send).Methods("POST")

	return router
}
