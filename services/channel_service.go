package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golfmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChannelService manages the one DM channel each match owns
type ChannelService struct {
	Dynamo *DynamoService
}

// ResolveOrCreateChannel returns the DM channel for a match, creating it on
// first use. Repeated calls, including concurrent ones, resolve to the same
// channel.
func (s *ChannelService) ResolveOrCreateChannel(ctx context.Context, matchID, userA, userB string) (*models.Channel, error) {
	if matchID == "" {
		return nil, errors.New("matchId is required")
	}

	existing, err := s.getChannel(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	channel := models.Channel{
		MatchID:   matchID,
		ChannelID: uuid.New().String(),
		User1ID:   userA,
		User2ID:   userB,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	err = s.Dynamo.PutItemIfAbsent(ctx, models.ChannelsTable, channel, "matchId")
	if errors.Is(err, ErrItemExists) {
		// Lost a creation race, the winner's channel is the real one.
		existing, err = s.getChannel(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("channel for match '%s' vanished after creation race", matchID)
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("💬 Channel %s created for match: %s", channel.ChannelID, matchID)
	return &channel, nil
}

func (s *ChannelService) getChannel(ctx context.Context, matchID string) (*models.Channel, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.ChannelsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel for match '%s': %w", matchID, err)
	}
	if item == nil {
		return nil, nil
	}

	var channel models.Channel
	if err := attributevalue.UnmarshalMap(item, &channel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel: %w", err)
	}
	return &channel, nil
}
