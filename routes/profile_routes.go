package routes

import (
	"golfmatch_server/controllers"
	"golfmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes sets up golfer profile routes under /api/profile
func RegisterProfileRoutes(r *mux.Router, profiles *services.UserProfileService, interactions *services.InteractionService) {
	controller := controllers.NewUserProfileController(profiles, interactions)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.HandleFunc("", controller.CreateProfile).Methods("POST")
	profileRouter.HandleFunc("/candidates", controller.GetCandidates).Methods("POST")
	profileRouter.HandleFunc("/{userId}", controller.GetProfile).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.UpdateProfile).Methods("PUT")
	profileRouter.HandleFunc("/{userId}", controller.DeleteProfile).Methods("DELETE")
}
