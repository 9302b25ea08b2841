package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golfmatch_server/models"
	"golfmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// messageTimeFormat keeps a fixed-width fraction so the sort key orders
// lexicographically.
const messageTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ChatService stores and reads DM messages
type ChatService struct {
	Dynamo *DynamoService
}

// SendMessage stores a new message on a channel and returns the stored row
func (s *ChatService) SendMessage(ctx context.Context, channelID, senderID, content string) (*models.Message, error) {
	if channelID == "" || senderID == "" {
		return nil, errors.New("channelId and senderId are required")
	}
	if content == "" {
		return nil, errors.New("message content cannot be empty")
	}

	message := models.Message{
		ChannelID: channelID,
		CreatedAt: time.Now().UTC().Format(messageTimeFormat),
		MessageID: uuid.New().String(),
		SenderID:  senderID,
		Content:   content,
		IsUnread:  true,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	log.Info().Msgf("📩 Message stored on channel %s from %s", channelID, senderID)
	return &message, nil
}

// GetMessages returns the newest messages on a channel, oldest first, capped
// at limit
func (s *ChatService) GetMessages(ctx context.Context, channelID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	keyCondition := "channelId = :channelId"
	expressionValues := map[string]types.AttributeValue{
		":channelId": &types.AttributeValueMemberS{Value: channelID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	// The query runs newest first to honor the cap; flip back to display order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkMessagesRead flips the unread flag on every message the reader
// received on the channel
func (s *ChatService) MarkMessagesRead(ctx context.Context, channelID, readerID string) error {
	keyCondition := "channelId = :channelId"
	expressionValues := map[string]types.AttributeValue{
		":channelId": &types.AttributeValueMemberS{Value: channelID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	for _, item := range items {
		if utils.ExtractString(item, "senderId") == readerID {
			continue
		}
		if !utils.ExtractBool(item, "isUnread") {
			continue
		}

		key := map[string]types.AttributeValue{
			"channelId": &types.AttributeValueMemberS{Value: channelID},
			"createdAt": &types.AttributeValueMemberS{Value: utils.ExtractString(item, "createdAt")},
		}
		updateExpression := "SET isUnread = :read"
		updateValues := map[string]types.AttributeValue{
			":read": &types.AttributeValueMemberBOOL{Value: false},
		}

		if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, updateValues, nil); err != nil {
			log.Warn().Err(err).Msgf("⚠️ Failed to mark message read on channel %s", channelID)
		}
	}
	return nil
}
