package services

import (
	"context"
	"fmt"
	"log"

	"thriveup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService reads and writes user profiles.
type UserProfileService struct {
	Dynamo DynamoAPI
}

// GetUserProfile fetches a profile. A missing row or missing name
// field degrades to a stub profile named "Unknown" rather than an
// error, matching how the rest of the app treats profile data as
// decoration.
func (s *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if len(item) == 0 {
		return &models.UserProfile{UserID: userID, Name: "Unknown"}, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if profile.Name == "" {
		profile.Name = "Unknown"
	}
	return &profile, nil
}

// GetUserProfiles fetches several profiles, skipping failures so one
// broken row cannot blank a whole member list.
func (s *UserProfileService) GetUserProfiles(ctx context.Context, userIDs []string) []models.UserProfile {
	profiles := make([]models.UserProfile, 0, len(userIDs))
	for _, id := range userIDs {
		profile, err := s.GetUserProfile(ctx, id)
		if err != nil {
			log.Printf("⚠️ Warning: failed to fetch profile for %s: %v", id, err)
			continue
		}
		profiles = append(profiles, *profile)
	}
	return profiles
}

// PutUserProfile stores or replaces a profile.
func (s *UserProfileService) PutUserProfile(ctx context.Context, profile models.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile is missing userId")
	}
	if err := s.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}
