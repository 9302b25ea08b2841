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

// MatchFeed receives newly created match rows for realtime delivery.
type MatchFeed interface {
	Publish(event models.MatchInsertEvent)
}

// InteractionService handles likes, passes, and the match rows a mutual like
// produces.
type InteractionService struct {
	Dynamo *DynamoService
	Feed   MatchFeed
}

// GetInteraction retrieves the interaction sent from sender to receiver, or
// nil when none exists
func (s *InteractionService) GetInteraction(ctx context.Context, sender, receiver string) (*models.Interaction, error) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.InteractionPK(sender)},
		"SK": &types.AttributeValueMemberS{Value: models.InteractionSK(receiver)},
	}

	item, err := s.Dynamo.GetItem(ctx, models.InteractionsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var interaction models.Interaction
	if err := attributevalue.UnmarshalMap(item, &interaction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
	}
	return &interaction, nil
}

// ListSent fetches every interaction the user has sent
func (s *InteractionService) ListSent(ctx context.Context, userID string) ([]models.Interaction, error) {
	keyCondition := "PK = :user"
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: models.InteractionPK(userID)},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.InteractionsTable, keyCondition, expressionValues, nil, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return interactions, nil
}

// SaveLike records a like from sender to receiver. When the receiver already
// has a pending like on the sender, both interactions flip to matched, a match
// row is created, and the insert event goes out on the feed. The returned
// match is nil when no new match was created. A repeated like is a no-op.
func (s *InteractionService) SaveLike(ctx context.Context, sender, receiver string) (*models.Match, error) {
	if sender == receiver {
		return nil, errors.New("cannot like yourself")
	}
	log.Info().Msgf("🔄 Processing like from %s -> %s", sender, receiver)

	existing, err := s.GetInteraction(ctx, sender, receiver)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == models.InteractionStatusMatch {
		log.Info().Msgf("ℹ️ %s and %s already matched, ignoring duplicate like", sender, receiver)
		return nil, nil
	}
	if existing != nil && existing.Type == models.InteractionTypeLike && existing.Status == models.InteractionStatusPending {
		return nil, nil
	}

	reverse, err := s.GetInteraction(ctx, receiver, sender)
	if err != nil {
		return nil, err
	}

	// Mutual like: the receiver liked the sender first and is still waiting.
	if reverse != nil && reverse.Type == models.InteractionTypeLike && reverse.Status == models.InteractionStatusPending {
		return s.createMatch(ctx, sender, receiver, existing)
	}

	if existing == nil {
		return nil, s.createInteraction(ctx, sender, receiver, models.InteractionTypeLike, models.InteractionStatusPending, nil)
	}
	// Like after pass overwrites the earlier decision.
	return nil, s.updateInteraction(ctx, sender, receiver, models.InteractionTypeLike, models.InteractionStatusPending, nil)
}

// SavePass records a pass from sender to receiver
func (s *InteractionService) SavePass(ctx context.Context, sender, receiver string) error {
	if sender == receiver {
		return errors.New("cannot pass on yourself")
	}
	log.Info().Msgf("🔄 Processing pass from %s -> %s", sender, receiver)

	existing, err := s.GetInteraction(ctx, sender, receiver)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.createInteraction(ctx, sender, receiver, models.InteractionTypePass, models.InteractionStatusDeclined, nil)
	}
	return s.updateInteraction(ctx, sender, receiver, models.InteractionTypePass, models.InteractionStatusDeclined, nil)
}

// createMatch writes the match row, flips both interactions to matched, and
// announces the insert on the feed. sender is the user whose like completed
// the match; the first liker becomes user1.
func (s *InteractionService) createMatch(ctx context.Context, sender, receiver string, existing *models.Interaction) (*models.Match, error) {
	matchID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	match := models.Match{
		MatchID:   matchID,
		User1ID:   receiver,
		User2ID:   sender,
		CreatedAt: now,
		User1Seen: false,
		User2Seen: false,
	}
	if err := s.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if existing == nil {
		if err := s.createInteraction(ctx, sender, receiver, models.InteractionTypeLike, models.InteractionStatusMatch, &matchID); err != nil {
			return nil, err
		}
	} else {
		if err := s.updateInteraction(ctx, sender, receiver, models.InteractionTypeLike, models.InteractionStatusMatch, &matchID); err != nil {
			return nil, err
		}
	}
	if err := s.updateInteraction(ctx, receiver, sender, models.InteractionTypeLike, models.InteractionStatusMatch, &matchID); err != nil {
		return nil, err
	}

	log.Info().Msgf("🎉 Match created: %s (%s + %s)", matchID, receiver, sender)

	if s.Feed != nil {
		s.Feed.Publish(models.MatchInsertEvent{
			MatchID:   matchID,
			User1ID:   match.User1ID,
			User2ID:   match.User2ID,
			CreatedAt: now,
		})
	}
	return &match, nil
}

func (s *InteractionService) createInteraction(ctx context.Context, sender, receiver, interactionType, status string, matchID *string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	interaction := models.Interaction{
		PK:          models.InteractionPK(sender),
		SK:          models.InteractionSK(receiver),
		SenderID:    sender,
		ReceiverID:  receiver,
		Type:        interactionType,
		Status:      status,
		MatchID:     matchID,
		CreatedAt:   now,
		LastUpdated: now,
	}

	if err := s.Dynamo.PutItem(ctx, models.InteractionsTable, interaction); err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}

func (s *InteractionService) updateInteraction(ctx context.Context, sender, receiver, interactionType, status string, matchID *string) error {
	updateExpression := "SET #type = :type, #status = :status, #lastUpdated = :lastUpdated"
	expressionValues := map[string]types.AttributeValue{
		":type":        &types.AttributeValueMemberS{Value: interactionType},
		":status":      &types.AttributeValueMemberS{Value: status},
		":lastUpdated": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	expressionNames := map[string]string{
		"#type":        "type",
		"#status":      "status",
		"#lastUpdated": "lastUpdated",
	}

	if matchID != nil {
		updateExpression += ", #matchId = :matchId"
		expressionValues[":matchId"] = &types.AttributeValueMemberS{Value: *matchID}
		expressionNames["#matchId"] = "matchId"
	}

	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.InteractionPK(sender)},
		"SK": &types.AttributeValueMemberS{Value: models.InteractionSK(receiver)},
	}

	_, err := s.Dynamo.UpdateItem(ctx, models.InteractionsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}
