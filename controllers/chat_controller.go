package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"golfmatch_server/services"

	"github.com/rs/zerolog/log"
)

// ChatController handles DM message requests
type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// SendMessage stores a new message on a channel
func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChannelID string `json:"channelId"`
		SenderID  string `json:"senderId"`
		Content   string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	message, err := c.Chat.SendMessage(r.Context(), request.ChannelID, request.SenderID, request.Content)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to send message on channel %s", request.ChannelID)
		http.Error(w, `{"error": "Failed to send message"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(message)
}

// GetMessages returns a channel's recent messages, oldest first
func (c *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		http.Error(w, `{"error": "channelId is required"}`, http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, `{"error": "limit must be a positive number"}`, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	messages, err := c.Chat.GetMessages(r.Context(), channelID, limit)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to fetch messages for channel %s", channelID)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// MarkRead flips the unread flag on the messages the reader received
func (c *ChatController) MarkRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChannelID string `json:"channelId"`
		ReaderID  string `json:"readerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ChannelID == "" || request.ReaderID == "" {
		http.Error(w, `{"error": "channelId and readerId are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Chat.MarkMessagesRead(r.Context(), request.ChannelID, request.ReaderID); err != nil {
		http.Error(w, `{"error": "Failed to mark messages read"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Messages marked read",
	})
}
