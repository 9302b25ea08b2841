package realtime

import (
	"context"

	"golfmatch_server/models"
	"golfmatch_server/notify"

	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
)

// TokenVerifier checks a session token and returns the user it belongs to
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// MessageStore persists DM messages sent over the socket
type MessageStore interface {
	SendMessage(ctx context.Context, channelID, senderID, content string) (*models.Message, error)
}

type authPayload struct {
	Token string `json:"token"`
}

type popupActionPayload struct {
	MatchID string `json:"matchId"`
}

type joinChannelPayload struct {
	ChannelID string `json:"channelId"`
}

type chatMessagePayload struct {
	ChannelID string `json:"channelId"`
	Content   string `json:"content"`
}

// NewSocketServer builds a bare socket.io server. RegisterHandlers wires the
// session glue once the notification manager exists; the split is needed
// because the manager's presenter emits through this server.
func NewSocketServer() *socketio.Server {
	return socketio.NewServer(nil)
}

// RegisterHandlers attaches the realtime protocol: clients authenticate with
// a session token, join their user room, and from then on receive match
// popups and chat traffic. Popup actions and DM sends come back over the
// same connection.
func RegisterHandlers(server *socketio.Server, verifier TokenVerifier, store MessageStore, manager *notify.Manager) {
	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		log.Info().Msgf("✅ Socket connected: %s", s.ID())
		return nil
	})

	server.OnEvent("/", "authenticate", func(s socketio.Conn, payload authPayload) {
		userID, err := verifier.VerifyToken(payload.Token)
		if err != nil {
			log.Warn().Msgf("🚫 Socket %s failed authentication", s.ID())
			s.Emit("authError", map[string]string{"error": "invalid token"})
			return
		}

		previous := connUserID(s)
		if previous == userID {
			s.Emit("authenticated", map[string]string{"userId": userID})
			return
		}
		if previous != "" {
			s.Leave(UserRoom(previous))
			manager.Detach(previous)
		}

		s.SetContext(userID)
		s.Join(UserRoom(userID))
		manager.Attach(userID)
		s.Emit("authenticated", map[string]string{"userId": userID})
		log.Info().Msgf("🔐 Socket %s authenticated as %s", s.ID(), userID)
	})

	server.OnEvent("/", "popupChat", func(s socketio.Conn, payload popupActionPayload) {
		userID := connUserID(s)
		if userID == "" {
			return
		}
		if ctrl := manager.Controller(userID); ctrl != nil {
			ctrl.OnSendMessage(payload.MatchID)
		}
	})

	server.OnEvent("/", "popupDismiss", func(s socketio.Conn, payload popupActionPayload) {
		userID := connUserID(s)
		if userID == "" {
			return
		}
		if ctrl := manager.Controller(userID); ctrl != nil {
			ctrl.OnClose(payload.MatchID)
		}
	})

	server.OnEvent("/", "joinChannel", func(s socketio.Conn, payload joinChannelPayload) {
		if connUserID(s) == "" || payload.ChannelID == "" {
			return
		}
		s.Join(ChannelRoom(payload.ChannelID))
	})

	server.OnEvent("/", "sendMessage", func(s socketio.Conn, payload chatMessagePayload) {
		userID := connUserID(s)
		if userID == "" {
			return
		}

		message, err := store.SendMessage(context.Background(), payload.ChannelID, userID, payload.Content)
		if err != nil {
			log.Error().Err(err).Msgf("❌ Failed to store message on channel %s", payload.ChannelID)
			return
		}
		server.BroadcastToRoom("/", ChannelRoom(payload.ChannelID), models.EventNewMessage, message)
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Err(e).Msg("❌ Socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if userID := connUserID(s); userID != "" {
			manager.Detach(userID)
		}
		log.Info().Msgf("👋 Socket disconnected: %s (%s)", s.ID(), reason)
	})
}

// StartFeedBridge relays raw insert rows to both participants' rooms so list
// screens can refresh; display data stays out, clients fetch the joined
// record. Returns the subscription's cancel.
func StartFeedBridge(server *socketio.Server, feed *Feed) func() {
	events, cancel := feed.Subscribe(0)
	go func() {
		for event := range events {
			server.BroadcastToRoom("/", UserRoom(event.User1ID), models.EventMatchInserted, event)
			server.BroadcastToRoom("/", UserRoom(event.User2ID), models.EventMatchInserted, event)
		}
	}()
	return cancel
}

func connUserID(s socketio.Conn) string {
	if userID, ok := s.Context().(string); ok {
		return userID
	}
	return ""
}
