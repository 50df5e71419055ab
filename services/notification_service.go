package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"thriveup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// NotificationService writes inbox entries for other users as a side
// effect of domain actions.
type NotificationService struct {
	Dynamo DynamoAPI
}

// Notify is fire-and-forget: a failed write is logged and swallowed,
// because the triggering action has already succeeded and must not be
// rolled back over an inbox entry.
func (s *NotificationService) Notify(ctx context.Context, notification models.Notification) {
	notification.NotificationID = uuid.New().String()
	notification.CreatedAt = time.Now().UTC().Format(models.TimeLayout)
	notification.Seen = false

	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, notification); err != nil {
		log.Printf("⚠️ Failed to deliver notification to %s: %v", notification.UserID, err)
	}
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.NotificationsTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	var notifications []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, fmt.Errorf("failed to parse notifications: %w", err)
	}
	return notifications, nil
}

// MarkSeen flags a single notification as seen.
func (s *NotificationService) MarkSeen(ctx context.Context, userID, createdAt string) error {
	key := map[string]types.AttributeValue{
		"userId":    &types.AttributeValueMemberS{Value: userID},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
	updateExpression := "SET seen = :true"
	values := map[string]types.AttributeValue{
		":true": &types.AttributeValueMemberBOOL{Value: true},
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.NotificationsTable, updateExpression, key, values, nil); err != nil {
		return fmt.Errorf("failed to mark notification as seen: %w", err)
	}
	return nil
}
