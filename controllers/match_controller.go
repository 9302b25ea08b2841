package controllers

import (
	"encoding/json"
	"net/http"

	"golfmatch_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// MatchController handles match list and seen-state requests
type MatchController struct {
	Matches *services.MatchService
}

func NewMatchController(matches *services.MatchService) *MatchController {
	return &MatchController{Matches: matches}
}

// List returns every match the user participates in
func (c *MatchController) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	matches, err := c.Matches.GetMatchesByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to fetch matches for %s", userID)
		http.Error(w, `{"error": "Failed to fetch matches"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// Unseen returns the user's unseen matches with display data, oldest first
func (c *MatchController) Unseen(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	matches, err := c.Matches.GetUnseenMatches(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to fetch unseen matches for %s", userID)
		http.Error(w, `{"error": "Failed to fetch unseen matches"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// Get returns one match with both participants' display data
func (c *MatchController) Get(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	match, err := c.Matches.GetMatchWithProfiles(r.Context(), matchID)
	if err != nil {
		http.Error(w, `{"error": "Match not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(match)
}

// MarkSeen flips the caller's seen flag on a match
func (c *MatchController) MarkSeen(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" || request.UserID == "" {
		http.Error(w, `{"error": "matchId and userId are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Matches.MarkMatchSeen(r.Context(), request.MatchID, request.UserID); err != nil {
		log.Error().Err(err).Msgf("❌ Failed to mark match %s seen", request.MatchID)
		http.Error(w, `{"error": "Failed to mark match seen"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Match marked seen",
	})
}
