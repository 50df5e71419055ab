package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"thriveup_server/events"
	"thriveup_server/models"
	"thriveup_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// TeamService owns hackathon teams and their join-request workflow.
// Capacity is enforced where it matters: the accept path is a
// conditional update, so two concurrent accepts cannot push a team
// past maxMembers.
type TeamService struct {
	Dynamo        DynamoAPI
	Notifications *NotificationService
	Bus           *events.Bus
}

// CreateTeam stores a new team. The lead is always member zero and
// counts against maxMembers; a zero cap falls back to the default.
func (s *TeamService) CreateTeam(ctx context.Context, team models.HackathonTeam) (*models.HackathonTeam, error) {
	if team.TeamID == "" {
		team.TeamID = uuid.New().String()
	}
	if team.MaxMembers <= 0 {
		team.MaxMembers = models.DefaultMaxMembers
	}

	memberIDs := []string{team.TeamLeadID}
	memberNames := []string{team.TeamLeadName}
	for i, id := range team.MemberIDs {
		if id == team.TeamLeadID {
			continue
		}
		memberIDs = append(memberIDs, id)
		if i < len(team.MemberNames) {
			memberNames = append(memberNames, team.MemberNames[i])
		} else {
			memberNames = append(memberNames, "Unknown")
		}
	}
	if len(memberIDs) > team.MaxMembers {
		return nil, ErrTeamFull
	}
	team.MemberIDs = memberIDs
	team.MemberNames = memberNames
	team.CreatedAt = time.Now().UTC().Format(models.TimeLayout)

	if err := s.Dynamo.PutItem(ctx, models.HackathonTeamsTable, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	log.Printf("✅ Created team %s (%s) for event %s", team.TeamID, team.Name, team.EventID)
	return &team, nil
}

// GetTeam fetches a team by id, ErrTeamNotFound when absent.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*models.HackathonTeam, error) {
	key := map[string]types.AttributeValue{
		"teamId": &types.AttributeValueMemberS{Value: teamID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.HackathonTeamsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team: %w", err)
	}
	if len(item) == 0 {
		return nil, ErrTeamNotFound
	}

	var team models.HackathonTeam
	if err := attributevalue.UnmarshalMap(item, &team); err != nil {
		return nil, fmt.Errorf("failed to parse team: %w", err)
	}
	return &team, nil
}

// ListTeamsByEvent lists the teams registered for an event.
func (s *TeamService) ListTeamsByEvent(ctx context.Context, eventID string) ([]models.HackathonTeam, error) {
	keyCondition := "eventId = :eventId"
	expressionValues := map[string]types.AttributeValue{
		":eventId": &types.AttributeValueMemberS{Value: eventID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.HackathonTeamsTable, models.TeamsByEventIndex, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	var teams []models.HackathonTeam
	if err := attributevalue.UnmarshalListOfMaps(items, &teams); err != nil {
		return nil, fmt.Errorf("failed to parse teams: %w", err)
	}
	return teams, nil
}

// CreateJoinRequest records a pending request and notifies the team
// lead.
func (s *TeamService) CreateJoinRequest(ctx context.Context, request models.TeamJoinRequest) (*models.TeamJoinRequest, error) {
	team, err := s.GetTeam(ctx, request.TeamID)
	if err != nil {
		return nil, err
	}

	request.RequestID = uuid.New().String()
	request.CreatedAt = time.Now().UTC().Format(models.TimeLayout)
	request.Status = models.StatusPending
	request.ReceiverID = team.TeamLeadID
	request.ReceiverName = team.TeamLeadName
	request.EventID = team.EventID

	if err := s.Dynamo.PutItem(ctx, models.TeamJoinRequestsTable, request); err != nil {
		return nil, fmt.Errorf("failed to store join request: %w", err)
	}

	if s.Notifications != nil {
		s.Notifications.Notify(ctx, models.Notification{
			UserID:   team.TeamLeadID,
			Type:     models.NotificationTeamJoin,
			Message:  fmt.Sprintf("%s wants to join your team %s", request.SenderName, team.Name),
			SenderID: request.SenderID,
			TeamID:   team.TeamID,
		})
	}

	log.Printf("✅ Join request %s for team %s stored", request.RequestID, request.TeamID)
	return &request, nil
}

// ListJoinRequests lists a team's pending join requests.
func (s *TeamService) ListJoinRequests(ctx context.Context, teamID string) ([]models.TeamJoinRequest, error) {
	keyCondition := "teamId = :teamId"
	expressionValues := map[string]types.AttributeValue{
		":teamId": &types.AttributeValueMemberS{Value: teamID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.TeamJoinRequestsTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch join requests: %w", err)
	}

	var requests []models.TeamJoinRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse join requests: %w", err)
	}

	pending := requests[:0]
	for _, r := range requests {
		if r.Status == models.StatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// ListJoinRequestsByLead lists the pending join requests across every
// team the user leads, for the requests inbox.
func (s *TeamService) ListJoinRequestsByLead(ctx context.Context, leadID string) ([]models.TeamJoinRequest, error) {
	keyCondition := "receiverId = :receiverId"
	expressionValues := map[string]types.AttributeValue{
		":receiverId": &types.AttributeValueMemberS{Value: leadID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.TeamJoinRequestsTable, models.RequestsByLeadIndex, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch join requests: %w", err)
	}

	var requests []models.TeamJoinRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse join requests: %w", err)
	}

	pending := requests[:0]
	for _, r := range requests {
		if r.Status == models.StatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// AcceptJoinRequest admits the requester. The member append is guarded
// by a condition expression checking both capacity and membership, so
// concurrent accepts cannot overshoot maxMembers and accepting an
// existing member is a no-op rather than an error.
func (s *TeamService) AcceptJoinRequest(ctx context.Context, teamID, createdAt string) error {
	request, err := s.getJoinRequest(ctx, teamID, createdAt)
	if err != nil {
		return err
	}
	if request.Status != models.StatusPending {
		return ErrRequestNotPending
	}

	key := map[string]types.AttributeValue{
		"teamId": &types.AttributeValueMemberS{Value: teamID},
	}
	updateExpression := "SET memberIds = list_append(memberIds, :newId), memberNames = list_append(memberNames, :newName)"
	condition := "size(memberIds) < maxMembers AND NOT contains(memberIds, :senderId)"
	values := map[string]types.AttributeValue{
		":newId":    &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: request.SenderID}}},
		":newName":  &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: request.SenderName}}},
		":senderId": &types.AttributeValueMemberS{Value: request.SenderID},
	}

	_, err = s.Dynamo.UpdateItemWithCondition(ctx, models.HackathonTeamsTable, updateExpression, condition, key, values, nil)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			item, getErr := s.Dynamo.GetItem(ctx, models.HackathonTeamsTable, key)
			if getErr != nil {
				return fmt.Errorf("failed to fetch team: %w", getErr)
			}
			if len(item) == 0 {
				return ErrTeamNotFound
			}
			for _, id := range utils.ExtractStringList(item, "memberIds") {
				if id == request.SenderID {
					// Already on the team; finish the request anyway.
					return s.finishJoinRequest(ctx, request, models.StatusAccepted)
				}
			}
			log.Printf("❌ Team %s is full, rejecting accept for %s", teamID, request.SenderID)
			return ErrTeamFull
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	if s.Bus != nil {
		s.Bus.Publish(events.TeamMemberJoined{TeamID: teamID, UserID: request.SenderID})
	}
	return s.finishJoinRequest(ctx, request, models.StatusAccepted)
}

// RejectJoinRequest marks the request rejected and notifies the sender.
func (s *TeamService) RejectJoinRequest(ctx context.Context, teamID, createdAt string) error {
	request, err := s.getJoinRequest(ctx, teamID, createdAt)
	if err != nil {
		return err
	}
	if request.Status != models.StatusPending {
		return ErrRequestNotPending
	}
	return s.finishJoinRequest(ctx, request, models.StatusRejected)
}

func (s *TeamService) finishJoinRequest(ctx context.Context, request *models.TeamJoinRequest, status string) error {
	key := map[string]types.AttributeValue{
		"teamId":    &types.AttributeValueMemberS{Value: request.TeamID},
		"createdAt": &types.AttributeValueMemberS{Value: request.CreatedAt},
	}
	updateExpression := "SET #s = :status"
	values := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}
	names := map[string]string{"#s": "status"}

	if _, err := s.Dynamo.UpdateItem(ctx, models.TeamJoinRequestsTable, updateExpression, key, values, names); err != nil {
		return fmt.Errorf("failed to update join request: %w", err)
	}

	if s.Notifications != nil {
		message := "Your team join request has been accepted!"
		notifType := models.NotificationTeamAccepted
		if status == models.StatusRejected {
			message = "Your team join request was declined."
			notifType = models.NotificationTeamRejected
		}
		s.Notifications.Notify(ctx, models.Notification{
			UserID:   request.SenderID,
			Type:     notifType,
			Message:  message,
			SenderID: request.ReceiverID,
			TeamID:   request.TeamID,
		})
	}

	log.Printf("✅ Join request %s resolved as %s", request.RequestID, status)
	return nil
}

func (s *TeamService) getJoinRequest(ctx context.Context, teamID, createdAt string) (*models.TeamJoinRequest, error) {
	key := map[string]types.AttributeValue{
		"teamId":    &types.AttributeValueMemberS{Value: teamID},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
	item, err := s.Dynamo.GetItem(ctx, models.TeamJoinRequestsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch join request: %w", err)
	}
	if len(item) == 0 {
		return nil, ErrRequestNotFound
	}

	var request models.TeamJoinRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to parse join request: %w", err)
	}
	return &request, nil
}
