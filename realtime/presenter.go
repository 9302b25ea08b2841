package realtime

import (
	"golfmatch_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// UserRoom is the per-user room every authenticated connection joins
func UserRoom(userID string) string {
	return "user:" + userID
}

// ChannelRoom is the room a DM channel's participants chat in
func ChannelRoom(channelID string) string {
	return "channel:" + channelID
}

// SocketPresenter drives the popup surface by emitting to the user's room,
// reaching every device on the session
type SocketPresenter struct {
	Server *socketio.Server
}

func (p *SocketPresenter) ShowMatch(userID string, match models.MatchWithProfile) {
	p.Server.BroadcastToRoom("/", UserRoom(userID), models.EventMatchPopup, match)
}

func (p *SocketPresenter) ClearMatch(userID string) {
	p.Server.BroadcastToRoom("/", UserRoom(userID), models.EventMatchPopupClear)
}

func (p *SocketPresenter) NavigateToChat(userID string, nav models.ChatNavigation) {
	p.Server.BroadcastToRoom("/", UserRoom(userID), models.EventNavigateToChat, nav)
}
