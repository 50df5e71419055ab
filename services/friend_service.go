package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"thriveup_server/events"
	"thriveup_server/models"
	"thriveup_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// FriendService implements the friend-request lifecycle:
// pending -> accepted | rejected, where both terminal transitions
// delete the request row. Acceptance writes the two directed
// friendship rows and the request delete in one transaction, so a
// one-sided friendship can never be observed.
type FriendService struct {
	Dynamo        DynamoAPI
	Notifications *NotificationService
	Bus           *events.Bus
}

// SendFriendRequest records a pending request from one user to another.
func (s *FriendService) SendFriendRequest(ctx context.Context, fromUserID, toUserID string) (*models.FriendRequest, error) {
	friends, err := s.AreFriends(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	request := models.FriendRequest{
		ToUserID:   toUserID,
		CreatedAt:  time.Now().UTC().Format(models.TimeLayout),
		RequestID:  uuid.New().String(),
		FromUserID: fromUserID,
	}

	if err := s.Dynamo.PutItem(ctx, models.FriendRequestsTable, request); err != nil {
		return nil, fmt.Errorf("failed to store friend request: %w", err)
	}

	log.Printf("✅ Friend request %s -> %s stored", fromUserID, toUserID)
	return &request, nil
}

// GetPendingRequests lists requests awaiting the user's decision.
func (s *FriendService) GetPendingRequests(ctx context.Context, toUserID string) ([]models.FriendRequest, error) {
	keyCondition := "toUserId = :toUserId"
	expressionValues := map[string]types.AttributeValue{
		":toUserId": &types.AttributeValueMemberS{Value: toUserID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.FriendRequestsTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend requests: %w", err)
	}

	var requests []models.FriendRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse friend requests: %w", err)
	}
	return requests, nil
}

// GetSentRequests lists requests the user has sent that are still
// pending.
func (s *FriendService) GetSentRequests(ctx context.Context, fromUserID string) ([]models.FriendRequest, error) {
	keyCondition := "fromUserId = :fromUserId"
	expressionValues := map[string]types.AttributeValue{
		":fromUserId": &types.AttributeValueMemberS{Value: fromUserID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.FriendRequestsTable, models.SentRequestsIndex, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent requests: %w", err)
	}

	var requests []models.FriendRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse sent requests: %w", err)
	}
	return requests, nil
}

// AcceptFriendRequest performs the compound transition atomically:
// create friendship A->B, create friendship B->A, delete the request.
// Either all three writes land or none do.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, toUserID, createdAt string) error {
	request, err := s.getRequest(ctx, toUserID, createdAt)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(models.TimeLayout)
	forward, err := attributevalue.MarshalMap(models.Friendship{
		UserID:    request.FromUserID,
		FriendID:  request.ToUserID,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal friendship: %w", err)
	}
	backward, err := attributevalue.MarshalMap(models.Friendship{
		UserID:    request.ToUserID,
		FriendID:  request.FromUserID,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal friendship: %w", err)
	}

	transaction := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(models.FriendshipsTable), Item: forward}},
		{Put: &types.Put{TableName: aws.String(models.FriendshipsTable), Item: backward}},
		{Delete: &types.Delete{
			TableName: aws.String(models.FriendRequestsTable),
			Key: map[string]types.AttributeValue{
				"toUserId":  &types.AttributeValueMemberS{Value: toUserID},
				"createdAt": &types.AttributeValueMemberS{Value: createdAt},
			},
		}},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, transaction); err != nil {
		log.Printf("❌ Friend accept transaction failed for %s -> %s: %v", request.FromUserID, request.ToUserID, err)
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	log.Printf("✅ %s and %s are now friends", request.FromUserID, request.ToUserID)

	if s.Notifications != nil {
		s.Notifications.Notify(ctx, models.Notification{
			UserID:   request.FromUserID,
			Type:     models.NotificationFriendAccepted,
			Message:  "Your friend request was accepted!",
			SenderID: request.ToUserID,
		})
	}
	if s.Bus != nil {
		s.Bus.Publish(events.FriendshipFormed{UserID: request.FromUserID, FriendID: request.ToUserID})
	}
	return nil
}

// RejectFriendRequest deletes the request; no record of the rejection
// is kept.
func (s *FriendService) RejectFriendRequest(ctx context.Context, toUserID, createdAt string) error {
	if _, err := s.getRequest(ctx, toUserID, createdAt); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"toUserId":  &types.AttributeValueMemberS{Value: toUserID},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
	if err := s.Dynamo.DeleteItem(ctx, models.FriendRequestsTable, key); err != nil {
		return fmt.Errorf("failed to reject friend request: %w", err)
	}
	return nil
}

// ListFriends returns the ids of everyone the user is friends with.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]string, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.FriendshipsTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friendships: %w", err)
	}

	friendIDs := make([]string, 0, len(items))
	for _, item := range items {
		if id := utils.ExtractString(item, "friendId"); id != "" {
			friendIDs = append(friendIDs, id)
		}
	}
	return friendIDs, nil
}

// AreFriends reports whether a directed friendship row exists.
func (s *FriendService) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	key := map[string]types.AttributeValue{
		"userId":   &types.AttributeValueMemberS{Value: userID},
		"friendId": &types.AttributeValueMemberS{Value: friendID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.FriendshipsTable, key)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return len(item) > 0, nil
}

func (s *FriendService) getRequest(ctx context.Context, toUserID, createdAt string) (*models.FriendRequest, error) {
	key := map[string]types.AttributeValue{
		"toUserId":  &types.AttributeValueMemberS{Value: toUserID},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
	item, err := s.Dynamo.GetItem(ctx, models.FriendRequestsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend request: %w", err)
	}
	if len(item) == 0 {
		return nil, ErrRequestNotFound
	}

	var request models.FriendRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to parse friend request: %w", err)
	}
	return &request, nil
}
