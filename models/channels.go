package models

// Channel is the direct-message channel between two matched golfers. One
// channel per match, keyed by matchId so resolve-or-create is idempotent.
type Channel struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"` // Partition Key
	ChannelID string `dynamodbav:"channelId" json:"channelId"`
	User1ID   string `dynamodbav:"user1Id" json:"user1Id"`
	User2ID   string `dynamodbav:"user2Id" json:"user2Id"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// ChannelsTable is the DynamoDB table name for DM channels
const ChannelsTable = "Channels"
