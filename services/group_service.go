package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"thriveup_server/events"
	"thriveup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// GroupService owns groups, their membership rows and group messages.
type GroupService struct {
	Dynamo DynamoAPI
	Bus    *events.Bus
}

// CreateGroup stores a new group with chat enabled and its creator as
// the first admin member.
func (s *GroupService) CreateGroup(ctx context.Context, name, description, imageURL, creatorID, creatorName string) (*models.Group, error) {
	now := time.Now().UTC().Format(models.TimeLayout)
	group := models.Group{
		GroupID:     uuid.New().String(),
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		ChatEnabled: true,
		CreatedBy:   creatorID,
		CreatedAt:   now,
	}

	if err := s.Dynamo.PutItem(ctx, models.GroupsTable, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	admin := models.GroupMember{
		GroupID:  group.GroupID,
		UserID:   creatorID,
		Name:     creatorName,
		Role:     models.RoleAdmin,
		CanChat:  true,
		JoinedAt: now,
	}
	if err := s.Dynamo.PutItem(ctx, models.GroupMembersTable, admin); err != nil {
		return nil, fmt.Errorf("failed to add group creator: %w", err)
	}

	log.Printf("✅ Created group %s (%s)", group.GroupID, name)
	return &group, nil
}

// GetGroup fetches a group by id, ErrGroupNotFound when absent.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	key := map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.GroupsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group: %w", err)
	}
	if len(item) == 0 {
		return nil, ErrGroupNotFound
	}

	var group models.Group
	if err := attributevalue.UnmarshalMap(item, &group); err != nil {
		return nil, fmt.Errorf("failed to parse group: %w", err)
	}
	return &group, nil
}

// AddMember adds a user to a group with the member role and chat
// allowed. Re-adding an existing member overwrites the same row.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID, name string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}

	member := models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Name:     name,
		Role:     models.RoleMember,
		CanChat:  true,
		JoinedAt: time.Now().UTC().Format(models.TimeLayout),
	}
	if err := s.Dynamo.PutItem(ctx, models.GroupMembersTable, member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// GetMember fetches one membership row, ErrNotMember when absent.
func (s *GroupService) GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	key := map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
		"userId":  &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.GroupMembersTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	if len(item) == 0 {
		return nil, ErrNotMember
	}

	var member models.GroupMember
	if err := attributevalue.UnmarshalMap(item, &member); err != nil {
		return nil, fmt.Errorf("failed to parse member: %w", err)
	}
	return &member, nil
}

// GetMembers lists all membership rows of a group.
func (s *GroupService) GetMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	keyCondition := "groupId = :groupId"
	expressionValues := map[string]types.AttributeValue{
		":groupId": &types.AttributeValueMemberS{Value: groupID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.GroupMembersTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	var members []models.GroupMember
	if err := attributevalue.UnmarshalListOfMaps(items, &members); err != nil {
		return nil, fmt.Errorf("failed to parse members: %w", err)
	}
	return members, nil
}

// CanPost is the posting gate: nil when the user may post, otherwise
// ErrChatDisabled (group-wide), ErrMemberMuted (personal) or
// ErrNotMember. The group flag wins over the member flag so the caller
// can tell "chat is off for everyone" from "you are muted".
func (s *GroupService) CanPost(ctx context.Context, groupID, userID string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	member, err := s.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}

	if !group.ChatEnabled {
		return ErrChatDisabled
	}
	if !member.CanChat {
		return ErrMemberMuted
	}
	return nil
}

// UpdateMemberChatPermission lets an admin mute or unmute a member.
func (s *GroupService) UpdateMemberChatPermission(ctx context.Context, groupID, actorID, userID string, canChat bool) error {
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}
	if _, err := s.GetMember(ctx, groupID, userID); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
		"userId":  &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET canChat = :canChat"
	values := map[string]types.AttributeValue{
		":canChat": &types.AttributeValueMemberBOOL{Value: canChat},
	}

	log.Printf("🔄 Setting canChat=%v for %s in group %s", canChat, userID, groupID)
	_, err := s.Dynamo.UpdateItem(ctx, models.GroupMembersTable, updateExpression, key, values, nil)
	if err != nil {
		return fmt.Errorf("failed to update chat permission: %w", err)
	}
	return nil
}

// UpdateGroupChatSetting lets an admin enable or disable chat for the
// whole group.
func (s *GroupService) UpdateGroupChatSetting(ctx context.Context, groupID, actorID string, chatEnabled bool) error {
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	}
	updateExpression := "SET chatEnabled = :chatEnabled"
	values := map[string]types.AttributeValue{
		":chatEnabled": &types.AttributeValueMemberBOOL{Value: chatEnabled},
	}

	log.Printf("🔄 Setting chatEnabled=%v for group %s", chatEnabled, groupID)
	_, err := s.Dynamo.UpdateItem(ctx, models.GroupsTable, updateExpression, key, values, nil)
	if err != nil {
		return fmt.Errorf("failed to update group chat setting: %w", err)
	}
	return nil
}

// SendGroupMessage gates on CanPost, stores the message and fans it
// out to live subscribers.
func (s *GroupService) SendGroupMessage(ctx context.Context, message models.GroupMessage) (*models.GroupMessage, error) {
	if err := s.CanPost(ctx, message.GroupID, message.SenderID); err != nil {
		return nil, err
	}

	if message.MessageID == "" {
		message.MessageID = uuid.New().String()
	}
	message.CreatedAt = time.Now().UTC().Format(models.TimeLayout)

	log.Printf("📩 Storing group message %s in group %s", message.MessageID, message.GroupID)
	if err := s.Dynamo.PutItem(ctx, models.GroupMessagesTable, message); err != nil {
		log.Printf("❌ Failed to store group message: %v", err)
		return nil, fmt.Errorf("failed to store group message: %w", err)
	}

	if s.Bus != nil {
		s.Bus.Publish(events.GroupMessageStored{GroupID: message.GroupID, Message: message})
	}
	return &message, nil
}

// GetMessagesByGroupID fetches the latest messages for a group in
// ascending render order.
func (s *GroupService) GetMessagesByGroupID(ctx context.Context, groupID string, limit int) ([]models.GroupMessage, error) {
	log.Printf("🔍 Fetching latest %d messages for group %s", limit, groupID)

	keyCondition := "groupId = :groupId"
	expressionValues := map[string]types.AttributeValue{
		":groupId": &types.AttributeValueMemberS{Value: groupID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.GroupMessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		log.Printf("❌ Error querying group messages: %v", err)
		return nil, fmt.Errorf("failed to fetch group messages: %w", err)
	}

	var messages []models.GroupMessage
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		log.Printf("❌ Error unmarshalling group messages: %v", err)
		return nil, fmt.Errorf("failed to parse group messages: %w", err)
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

	log.Printf("✅ Found %d messages for group %s", len(messages), groupID)
	return messages, nil
}

// GetLastGroupMessage fetches the most recent message in a group, nil
// when the group has none.
func (s *GroupService) GetLastGroupMessage(ctx context.Context, groupID string) (*models.GroupMessage, error) {
	keyCondition := "groupId = :groupId"
	expressionValues := map[string]types.AttributeValue{
		":groupId": &types.AttributeValueMemberS{Value: groupID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.GroupMessagesTable, keyCondition, expressionValues, nil, 1, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last message: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var lastMessage models.GroupMessage
	if err := attributevalue.UnmarshalMap(items[0], &lastMessage); err != nil {
		return nil, fmt.Errorf("failed to parse last message: %w", err)
	}
	return &lastMessage, nil
}

func (s *GroupService) requireAdmin(ctx context.Context, groupID, actorID string) error {
	actor, err := s.GetMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin {
		return ErrNotAdmin
	}
	return nil
}
