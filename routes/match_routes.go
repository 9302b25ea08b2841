package routes

import (
	"golfmatch_server/controllers"
	"golfmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up match routes under /api/match
func RegisterMatchRoutes(r *mux.Router, matches *services.MatchService) {
	controller := controllers.NewMatchController(matches)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("/list", controller.List).Methods("GET")
	matchRouter.HandleFunc("/unseen", controller.Unseen).Methods("GET")
	matchRouter.HandleFunc("/seen", controller.MarkSeen).Methods("POST")
	matchRouter.HandleFunc("/{matchId}", controller.Get).Methods("GET")
}
