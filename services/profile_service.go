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
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// validate is a reusable validator instance for inbound payloads
var validate = validator.New()

type UserProfileService struct {
	Dynamo *DynamoService
}

// CreateProfile validates and stores a new golfer profile
func (ups *UserProfileService) CreateProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if err := validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if profile.CreatedAt == "" {
		profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	log.Info().Msgf("✅ Profile created for user: %s", profile.UserID)
	return &profile, nil
}

// GetProfile retrieves a golfer profile by user ID
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("profile not found")
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile applies a partial update to an existing profile
func (ups *UserProfileService) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return nil, errors.New("no fields to update")
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for k, v := range updates {
		placeholder := ":" + k
		attributeName := "#" + k
		updateExpression += " " + attributeName + " = " + placeholder + ","

		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update field '%s': %w", k, err)
		}
		expressionAttributeValues[placeholder] = av
		expressionAttributeNames[attributeName] = k
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &updatedProfile, nil
}

// DeleteProfile removes a golfer profile
func (ups *UserProfileService) DeleteProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}

// GetCandidates returns profiles the user has not interacted with yet.
// skillLevel, when non-empty, restricts results to that level.
func (ups *UserProfileService) GetCandidates(ctx context.Context, userID, skillLevel string, interactions *InteractionService) ([]models.UserProfile, error) {
	// Everyone the user already liked or passed on is excluded, plus the user
	// themselves.
	sent, err := interactions.ListSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions for '%s': %w", userID, err)
	}

	exclude := map[string]struct{}{userID: {}}
	for _, interaction := range sent {
		exclude[interaction.ReceiverID] = struct{}{}
	}

	var profiles []models.UserProfile
	err = ups.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		candidateID := utils.ExtractString(item, "userId")
		if candidateID == "" {
			return false
		}
		if _, excluded := exclude[candidateID]; excluded {
			return false
		}
		if skillLevel != "" && utils.ExtractString(item, "skillLevel") != skillLevel {
			return false
		}
		return true
	}, nil, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate profiles: %w", err)
	}

	log.Info().Msgf("🔍 Found %d candidates for user: %s", len(profiles), userID)
	return profiles, nil
}
