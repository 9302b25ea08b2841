package routes

import (
	"golfmatch_server/controllers"
	"golfmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up DM message routes under /api/chat
func RegisterChatRoutes(r *mux.Router, chat *services.ChatService) {
	controller := controllers.NewChatController(chat)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/message", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/mark-read", controller.MarkRead).Methods("POST")
}
