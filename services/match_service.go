package services

import (
	"context"
	"fmt"
	"sort"

	"golfmatch_server/models"
	"golfmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// MatchService reads and updates match rows
type MatchService struct {
	Dynamo *DynamoService
}

// GetMatchesByUser fetches every match the user participates in, querying
// both participant GSIs
func (s *MatchService) GetMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match

	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	user1Items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.User1Index, "user1Id = :userId", expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}
	for _, item := range user1Items {
		var match models.Match
		if err := attributevalue.UnmarshalMap(item, &match); err != nil {
			log.Warn().Err(err).Msg("⚠️ Skipping unreadable match row")
			continue
		}
		matches = append(matches, match)
	}

	user2Items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.User2Index, "user2Id = :userId", expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}
	for _, item := range user2Items {
		var match models.Match
		if err := attributevalue.UnmarshalMap(item, &match); err != nil {
			log.Warn().Err(err).Msg("⚠️ Skipping unreadable match row")
			continue
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// GetUnseenMatches returns the user's matches they have not seen yet, oldest
// first, with both participants' display data attached. This is the backlog
// the notification surface drains on sign-in.
func (s *MatchService) GetUnseenMatches(ctx context.Context, userID string) ([]models.MatchWithProfile, error) {
	matches, err := s.GetMatchesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var unseen []models.Match
	for _, match := range matches {
		if !match.SeenBy(userID) {
			unseen = append(unseen, match)
		}
	}

	// RFC3339 strings order lexicographically, oldest first.
	sort.Slice(unseen, func(i, j int) bool {
		return unseen[i].CreatedAt < unseen[j].CreatedAt
	})

	enriched := make([]models.MatchWithProfile, 0, len(unseen))
	for _, match := range unseen {
		withProfiles, err := s.enrichMatch(ctx, match)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, *withProfiles)
	}

	log.Info().Msgf("✅ Found %d unseen matches for user: %s", len(enriched), userID)
	return enriched, nil
}

// GetMatchWithProfiles fetches a single match with both participants' display
// data. Raw realtime events carry ids only; this join is the source of truth
// for anything shown to a user.
func (s *MatchService) GetMatchWithProfiles(ctx context.Context, matchID string) (*models.MatchWithProfile, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("match '%s' not found", matchID)
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match '%s': %w", matchID, err)
	}
	return s.enrichMatch(ctx, match)
}

// MarkMatchSeen flips the caller's seen flag on a match. Safe to repeat.
func (s *MatchService) MarkMatchSeen(ctx context.Context, matchID, userID string) error {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("match '%s' not found", matchID)
	}

	var seenField string
	switch userID {
	case utils.ExtractString(item, "user1Id"):
		seenField = "user1Seen"
	case utils.ExtractString(item, "user2Id"):
		seenField = "user2Seen"
	default:
		return fmt.Errorf("user '%s' is not part of match '%s'", userID, matchID)
	}

	updateExpression := "SET #seen = :seen"
	expressionValues := map[string]types.AttributeValue{
		":seen": &types.AttributeValueMemberBOOL{Value: true},
	}
	expressionNames := map[string]string{
		"#seen": seenField,
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return err
	}
	log.Info().Msgf("👀 Match %s marked seen by %s", matchID, userID)
	return nil
}

// enrichMatch joins both participants' profile display data onto a match.
// A missing profile row degrades to id-only display data rather than failing
// the whole fetch.
func (s *MatchService) enrichMatch(ctx context.Context, match models.Match) (*models.MatchWithProfile, error) {
	enriched := models.MatchWithProfile{
		MatchID:   match.MatchID,
		User1ID:   match.User1ID,
		User2ID:   match.User2ID,
		CreatedAt: match.CreatedAt,
		User1:     models.ParticipantProfile{UserID: match.User1ID},
		User2:     models.ParticipantProfile{UserID: match.User2ID},
	}

	for _, slot := range []struct {
		userID string
		target *models.ParticipantProfile
	}{
		{match.User1ID, &enriched.User1},
		{match.User2ID, &enriched.User2},
	} {
		key := map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: slot.userID},
		}
		item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch profile for '%s': %w", slot.userID, err)
		}
		if item == nil {
			log.Warn().Msgf("⚠️ No profile found for match participant: %s", slot.userID)
			continue
		}
		slot.target.Name = utils.ExtractString(item, "name")
		slot.target.Photo = utils.ExtractFirstPhoto(item, "photos")
	}

	return &enriched, nil
}
