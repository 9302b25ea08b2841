package models

type Match struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"`     // Unique matchId
	User1ID   string `dynamodbav:"user1Id" json:"user1Id"`     // Indexed via user1Id-index
	User2ID   string `dynamodbav:"user2Id" json:"user2Id"`     // Indexed via user2Id-index
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"` // Timestamp of creation
	User1Seen bool   `dynamodbav:"user1Seen" json:"user1Seen"` // Popup shown to user1
	User2Seen bool   `dynamodbav:"user2Seen" json:"user2Seen"` // Popup shown to user2
}

// HasUser reports whether userID occupies either participant slot.
func (m *Match) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUser returns the participant opposite userID, or "" if userID is not
// part of the match.
func (m *Match) OtherUser(userID string) string {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return ""
}

// SeenBy reports whether the popup was already presented to userID according
// to the server-side flags.
func (m *Match) SeenBy(userID string) bool {
	switch userID {
	case m.User1ID:
		return m.User1Seen
	case m.User2ID:
		return m.User2Seen
	}
	return false
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// GSI names used to find matches from either participant slot
const (
	User1Index = "user1Id-index"
	User2Index = "user2Id-index"
)
