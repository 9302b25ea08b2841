package models

// ParticipantProfile is the display data joined onto a match for one slot:
// just what the popup renders.
type ParticipantProfile struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Photo  string `json:"photo,omitempty"`
}

// MatchWithProfile combines Match details with both participants' display
// data. This joined record is the only trusted source for rendering — raw
// insert events never carry display fields.
type MatchWithProfile struct {
	MatchID   string             `json:"matchId"`
	User1ID   string             `json:"user1Id"`
	User2ID   string             `json:"user2Id"`
	CreatedAt string             `json:"createdAt"`
	User1     ParticipantProfile `json:"user1"`
	User2     ParticipantProfile `json:"user2"`
}

// HasUser reports whether userID occupies either participant slot.
func (m *MatchWithProfile) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherParticipant returns the display data for the participant opposite
// userID. The zero value is returned when userID is not part of the match.
func (m *MatchWithProfile) OtherParticipant(userID string) ParticipantProfile {
	switch userID {
	case m.User1ID:
		return m.User2
	case m.User2ID:
		return m.User1
	}
	return ParticipantProfile{}
}
