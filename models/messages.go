package models

type Message struct {
	ChannelID string `dynamodbav:"channelId" json:"channelId"` // Partition Key
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"` // Sort Key
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	IsUnread  bool   `dynamodbav:"isUnread" json:"isUnread"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
