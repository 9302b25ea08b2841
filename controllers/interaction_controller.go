package controllers

import (
	"encoding/json"
	"net/http"

	"golfmatch_server/services"

	"github.com/rs/zerolog/log"
)

// InteractionController handles like and pass requests
type InteractionController struct {
	Interactions *services.InteractionService
}

func NewInteractionController(interactions *services.InteractionService) *InteractionController {
	return &InteractionController{Interactions: interactions}
}

type interactionRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

// Like records a like; the response carries the match when this like
// completed one
func (c *InteractionController) Like(w http.ResponseWriter, r *http.Request) {
	var request interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.SenderID == "" || request.ReceiverID == "" {
		http.Error(w, `{"error": "senderId and receiverId are required"}`, http.StatusBadRequest)
		return
	}

	match, err := c.Interactions.SaveLike(r.Context(), request.SenderID, request.ReceiverID)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to save like %s -> %s", request.SenderID, request.ReceiverID)
		http.Error(w, `{"error": "Failed to save like"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"message": "Like recorded",
		"matched": match != nil,
	}
	if match != nil {
		response["match"] = match
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Pass records a pass
func (c *InteractionController) Pass(w http.ResponseWriter, r *http.Request) {
	var request interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.SenderID == "" || request.ReceiverID == "" {
		http.Error(w, `{"error": "senderId and receiverId are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Interactions.SavePass(r.Context(), request.SenderID, request.ReceiverID); err != nil {
		log.Error().Err(err).Msgf("❌ Failed to save pass %s -> %s", request.SenderID, request.ReceiverID)
		http.Error(w, `{"error": "Failed to save pass"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Pass recorded",
	})
}

// ListSent returns every interaction the user has sent
func (c *InteractionController) ListSent(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	interactions, err := c.Interactions.ListSent(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch interactions"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(interactions)
}
