package controllers

import (
	"encoding/json"
	"net/http"

	"golfmatch_server/services"

	"github.com/rs/zerolog/log"
)

// SessionController issues the tokens the realtime handshake runs on
type SessionController struct {
	Sessions *services.SessionService
	Profiles *services.UserProfileService
}

func NewSessionController(sessions *services.SessionService, profiles *services.UserProfileService) *SessionController {
	return &SessionController{Sessions: sessions, Profiles: profiles}
}

// Login checks the user exists and returns a signed session token
func (c *SessionController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	if _, err := c.Profiles.GetProfile(r.Context(), request.UserID); err != nil {
		http.Error(w, `{"error": "Unknown user"}`, http.StatusUnauthorized)
		return
	}

	token, err := c.Sessions.IssueToken(request.UserID)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to issue token for %s", request.UserID)
		http.Error(w, `{"error": "Failed to issue token"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token":  token,
		"userId": request.UserID,
	})
}
