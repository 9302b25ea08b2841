package routes

import (
	"golfmatch_server/controllers"
	"golfmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterPhotoRoutes sets up presigned photo URL routes under /api/photo
func RegisterPhotoRoutes(r *mux.Router, photos *services.PhotoService) {
	controller := controllers.NewPhotoController(photos)

	photoRouter := r.PathPrefix("/api/photo").Subrouter()
	photoRouter.HandleFunc("/upload-url", controller.UploadURL).Methods("POST")
	photoRouter.HandleFunc("/read-url", controller.ReadURL).Methods("GET")
}
