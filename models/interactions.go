package models

type Interaction struct {
	PK          string  `dynamodbav:"PK" json:"-"` // USER#<senderId>
	SK          string  `dynamodbav:"SK" json:"-"` // INTERACTION#<receiverId>
	SenderID    string  `dynamodbav:"senderId" json:"senderId"`
	ReceiverID  string  `dynamodbav:"receiverId" json:"receiverId"`
	Type        string  `dynamodbav:"type" json:"type"`     // like, pass
	Status      string  `dynamodbav:"status" json:"status"` // pending, match, declined
	MatchID     *string `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"`
	CreatedAt   string  `dynamodbav:"createdAt" json:"createdAt"`
	LastUpdated string  `dynamodbav:"lastUpdated" json:"lastUpdated"`
}

// InteractionPK builds the partition key for a sender.
func InteractionPK(senderID string) string { return "USER#" + senderID }

// InteractionSK builds the sort key for a receiver.
func InteractionSK(receiverID string) string { return "INTERACTION#" + receiverID }

// InteractionsTable is the DynamoDB table name for like/pass interactions
const InteractionsTable = "Interactions"
