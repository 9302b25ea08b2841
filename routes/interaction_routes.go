package routes

import (
	"golfmatch_server/controllers"
	"golfmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up like/pass routes under /api/interaction
func RegisterInteractionRoutes(r *mux.Router, interactions *services.InteractionService) {
	controller := controllers.NewInteractionController(interactions)

	interactionRouter := r.PathPrefix("/api/interaction").Subrouter()
	interactionRouter.HandleFunc("/like", controller.Like).Methods("POST")
	interactionRouter.HandleFunc("/pass", controller.Pass).Methods("POST")
	interactionRouter.HandleFunc("/sent", controller.ListSent).Methods("GET")
}
