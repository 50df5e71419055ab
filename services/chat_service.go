package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"thriveup_server/events"
	"thriveup_server/models"
	"thriveup_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService stores and reads direct-thread messages.
type ChatService struct {
	Dynamo   DynamoAPI
	Threads  *ThreadService
	Bus      *events.Bus
	Presence *PresenceService
}

// SendMessage resolves the thread for the sender/recipient pair (it is
// created on first contact), stores the message and fans the event out
// to live subscribers. Unread counters for the other participant are
// best effort: a counter failure never fails the send.
func (s *ChatService) SendMessage(ctx context.Context, senderID, recipientID string, message models.Message) (*models.Message, error) {
	thread, err := s.Threads.FetchOrCreateThread(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	message.ThreadID = thread.ThreadID
	message.SenderID = senderID
	if message.MessageID == "" {
		message.MessageID = uuid.New().String()
	}
	message.CreatedAt = time.Now().UTC().Format(models.TimeLayout)
	message.IsUnread = true

	log.Printf("📩 Storing message %s in thread %s", message.MessageID, thread.ThreadID)
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		log.Printf("❌ Failed to store message: %v", err)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if s.Presence != nil {
		for _, participant := range thread.Participants {
			if participant == senderID {
				continue
			}
			if err := s.Presence.IncrUnread(ctx, participant, thread.ThreadID); err != nil {
				log.Printf("⚠️ Failed to bump unread counter for %s: %v", participant, err)
			}
		}
	}

	if s.Bus != nil {
		s.Bus.Publish(events.MessageStored{
			ThreadID:     thread.ThreadID,
			Participants: thread.Participants,
			Message:      message,
		})
	}

	return &message, nil
}

// GetMessagesByThreadID fetches the latest messages for a thread,
// newest first from the store, then reverses so the caller renders
// oldest to newest.
func (s *ChatService) GetMessagesByThreadID(ctx context.Context, threadID string, limit int) ([]models.Message, error) {
	log.Printf("🔍 Fetching latest %d messages for thread %s", limit, threadID)

	keyCondition := "threadId = :threadId"
	expressionValues := map[string]types.AttributeValue{
		":threadId": &types.AttributeValueMemberS{Value: threadID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		log.Printf("❌ Error querying messages: %v", err)
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		log.Printf("❌ Error unmarshalling messages: %v", err)
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	// Store order is newest first; enforce it locally as well so a
	// backend that returns unsorted pages cannot break the render
	// invariant, then reverse into ascending order.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.Printf("✅ Found %d messages for thread %s", len(messages), threadID)
	return messages, nil
}

// GetMessagesForUser is the client-facing read path: the caller must
// be a participant of the thread, anyone else gets ErrNotParticipant.
func (s *ChatService) GetMessagesForUser(ctx context.Context, threadID, userID string, limit int) ([]models.Message, error) {
	thread, err := s.Threads.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !IsParticipant(thread, userID) {
		return nil, ErrNotParticipant
	}
	return s.GetMessagesByThreadID(ctx, threadID, limit)
}

// GetLastMessage returns the most recent message of a thread, nil when
// the thread has no messages yet.
func (s *ChatService) GetLastMessage(ctx context.Context, threadID string) (*models.Message, error) {
	keyCondition := "threadId = :threadId"
	expressionValues := map[string]types.AttributeValue{
		":threadId": &types.AttributeValueMemberS{Value: threadID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 1, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last message: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var lastMessage models.Message
	if err := attributevalue.UnmarshalMap(items[0], &lastMessage); err != nil {
		return nil, fmt.Errorf("failed to parse last message: %w", err)
	}
	return &lastMessage, nil
}

// MarkMessagesAsRead flips isUnread on every message the user received
// in the thread and resets the user's unread counter. The caller must
// be a participant of the thread.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, threadID, userID string) error {
	log.Printf("🔄 Marking messages as read for thread %s, reader %s", threadID, userID)

	thread, err := s.Threads.GetThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !IsParticipant(thread, userID) {
		return ErrNotParticipant
	}

	keyCondition := "threadId = :threadId"
	expressionValues := map[string]types.AttributeValue{
		":threadId": &types.AttributeValueMemberS{Value: threadID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 100)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	var writes []types.WriteRequest
	for _, item := range items {
		if utils.ExtractString(item, "senderId") == userID || !utils.ExtractBool(item, "isUnread") {
			continue
		}
		updated := make(map[string]types.AttributeValue, len(item))
		for k, v := range item {
			updated[k] = v
		}
		updated["isUnread"] = &types.AttributeValueMemberBOOL{Value: false}
		writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: updated}})
	}

	// DynamoDB caps batch writes at 25 items.
	for start := 0; start < len(writes); start += 25 {
		end := start + 25
		if end > len(writes) {
			end = len(writes)
		}
		if err := s.Dynamo.BatchWriteItems(ctx, models.MessagesTable, writes[start:end]); err != nil {
			log.Printf("❌ Failed to write read receipts: %v", err)
			return fmt.Errorf("failed to mark messages as read: %w", err)
		}
	}

	if s.Presence != nil {
		if err := s.Presence.ResetUnread(ctx, userID, threadID); err != nil {
			log.Printf("⚠️ Failed to reset unread counter: %v", err)
		}
	}

	log.Printf("✅ Marked messages as read for thread %s", threadID)
	return nil
}

// UnreadCount counts stored messages in the thread the user has not
// read yet.
func (s *ChatService) UnreadCount(ctx context.Context, threadID, userID string) (int, error) {
	keyCondition := "threadId = :threadId"
	expressionValues := map[string]types.AttributeValue{
		":threadId": &types.AttributeValueMemberS{Value: threadID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	count := 0
	for _, item := range items {
		var message models.Message
		if err := attributevalue.UnmarshalMap(item, &message); err != nil {
			continue
		}
		if message.IsUnread && message.SenderID != userID {
			count++
		}
	}
	return count, nil
}
