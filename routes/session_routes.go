package routes

import (
	"golfmatch_server/controllers"
	"golfmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes sets up login routes under /api/session
func RegisterSessionRoutes(r *mux.Router, sessions *services.SessionService, profiles *services.UserProfileService) {
	controller := controllers.NewSessionController(sessions, profiles)

	sessionRouter := r.PathPrefix("/api/session").Subrouter()
	sessionRouter.HandleFunc("/login", controller.Login).Methods("POST")
}
