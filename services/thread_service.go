package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"thriveup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ThreadService resolves and creates direct chat threads.
type ThreadService struct {
	Dynamo DynamoAPI
}

// ResolveThreadID derives the canonical thread id for an unordered
// pair of user ids: the lexicographically smaller id always comes
// first, so ResolveThreadID(a, b) == ResolveThreadID(b, a).
func ResolveThreadID(userA, userB string) string {
	if userA < userB {
		return userA + "_" + userB
	}
	return userB + "_" + userA
}

// FetchOrCreateThread returns the thread shared by two users, creating
// it when absent. Creation is guarded by a conditional put, so two
// clients racing to create the same thread converge on one winner and
// the loser reads the winner's row.
func (s *ThreadService) FetchOrCreateThread(ctx context.Context, userA, userB string) (*models.ChatThread, error) {
	threadID := ResolveThreadID(userA, userB)

	thread, err := s.GetThread(ctx, threadID)
	if err == nil {
		return thread, nil
	}
	if err != ErrThreadNotFound {
		return nil, err
	}

	first, second := userA, userB
	if second < first {
		first, second = second, first
	}
	newThread := models.ChatThread{
		ThreadID:     threadID,
		Participants: []string{first, second},
		CreatedAt:    time.Now().UTC().Format(models.TimeLayout),
	}

	log.Printf("🆕 Creating thread %s", threadID)
	err = s.Dynamo.PutItemWithCondition(ctx, models.ThreadsTable, newThread, "attribute_not_exists(threadId)", nil)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			// Lost the creation race; the other writer's row is the thread.
			return s.GetThread(ctx, threadID)
		}
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	return &newThread, nil
}

// GetThread fetches a thread by id, ErrThreadNotFound when absent.
func (s *ThreadService) GetThread(ctx context.Context, threadID string) (*models.ChatThread, error) {
	key := map[string]types.AttributeValue{
		"threadId": &types.AttributeValueMemberS{Value: threadID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.ThreadsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}
	if len(item) == 0 {
		return nil, ErrThreadNotFound
	}

	var thread models.ChatThread
	if err := attributevalue.UnmarshalMap(item, &thread); err != nil {
		return nil, fmt.Errorf("failed to parse thread: %w", err)
	}
	return &thread, nil
}

// IsParticipant reports whether userID belongs to the thread.
func IsParticipant(thread *models.ChatThread, userID string) bool {
	for _, p := range thread.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
