package models

// MatchInsertEvent is the raw row delivered on the realtime feed when a match
// is created. It deliberately carries no display data: consumers fetch the
// joined record before rendering anything.
type MatchInsertEvent struct {
	MatchID   string `json:"matchId"`
	User1ID   string `json:"user1Id"`
	User2ID   string `json:"user2Id"`
	CreatedAt string `json:"createdAt"`
}

// Involves reports whether userID is one of the two participants. The pair is
// unordered for relevance checks.
func (e MatchInsertEvent) Involves(userID string) bool {
	return e.User1ID == userID || e.User2ID == userID
}

// ChatNavigation is the payload of a navigation signal to the message screen
// after the user opens chat from a match popup.
type ChatNavigation struct {
	ChannelID string `json:"channelId"`
	MatchID   string `json:"matchId"`
	OtherUser string `json:"otherUser"`
	Name      string `json:"name"`
	Photo     string `json:"photo,omitempty"`
}
