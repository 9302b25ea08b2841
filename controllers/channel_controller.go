package controllers

import (
	"encoding/json"
	"net/http"

	"golfmatch_server/services"

	"github.com/rs/zerolog/log"
)

// ChannelController resolves DM channels for matches
type ChannelController struct {
	Channels *services.ChannelService
}

func NewChannelController(channels *services.ChannelService) *ChannelController {
	return &ChannelController{Channels: channels}
}

// Resolve returns the match's DM channel, creating it on first use
func (c *ChannelController) Resolve(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
		UserA   string `json:"userA"`
		UserB   string `json:"userB"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" {
		http.Error(w, `{"error": "matchId is required"}`, http.StatusBadRequest)
		return
	}

	channel, err := c.Channels.ResolveOrCreateChannel(r.Context(), request.MatchID, request.UserA, request.UserB)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to resolve channel for match %s", request.MatchID)
		http.Error(w, `{"error": "Failed to resolve channel"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(channel)
}
