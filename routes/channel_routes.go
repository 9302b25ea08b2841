package routes

import (
	"golfmatch_server/controllers"
	"golfmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterChannelRoutes sets up DM channel routes under /api/channel
func RegisterChannelRoutes(r *mux.Router, channels *services.ChannelService) {
	controller := controllers.NewChannelController(channels)

	channelRouter := r.PathPrefix("/api/channel").Subrouter()
	channelRouter.HandleFunc("/resolve", controller.Resolve).Methods("POST")
}
