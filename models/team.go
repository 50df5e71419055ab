package models

// DefaultMaxMembers is applied when a team is created without an
// explicit cap.
const DefaultMaxMembers = 4

// HackathonTeam holds parallel memberIds/memberNames arrays; index 0
// is always the team lead. maxMembers is re-checked atomically when a
// join request is accepted.
type HackathonTeam struct {
	TeamID       string   `dynamodbav:"teamId" json:"teamId"` // ✅ Partition Key
	Name         string   `dynamodbav:"name" json:"name"`
	EventID      string   `dynamodbav:"eventId" json:"eventId"` // ✅ Used in GSI
	TeamLeadID   string   `dynamodbav:"teamLeadId" json:"teamLeadId"`
	TeamLeadName string   `dynamodbav:"teamLeadName" json:"teamLeadName"`
	MemberIDs    []string `dynamodbav:"memberIds" json:"memberIds"`
	MemberNames  []string `dynamodbav:"memberNames" json:"memberNames"`
	MaxMembers   int      `dynamodbav:"maxMembers" json:"maxMembers"`
	CreatedAt    string   `dynamodbav:"createdAt" json:"createdAt"`
}

// TeamJoinRequest asks a team lead (receiver) to admit the sender.
type TeamJoinRequest struct {
	TeamID       string `dynamodbav:"teamId" json:"teamId"`       // ✅ Partition Key
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key
	RequestID    string `dynamodbav:"requestId" json:"requestId"`
	SenderID     string `dynamodbav:"senderId" json:"senderId"`
	SenderName   string `dynamodbav:"senderName" json:"senderName"`
	ReceiverID   string `dynamodbav:"receiverId" json:"receiverId"` // ✅ Used in GSI
	ReceiverName string `dynamodbav:"receiverName" json:"receiverName"`
	EventID      string `dynamodbav:"eventId" json:"eventId"`
	Status       string `dynamodbav:"status" json:"status"` // "pending", "accepted", "rejected"
}

// Table names for hackathon teams and join requests
const (
	HackathonTeamsTable   = "HackathonTeams"
	TeamJoinRequestsTable = "TeamJoinRequests"
)

// GSI names for team queries
const (
	TeamsByEventIndex   = "eventId-index"
	RequestsByLeadIndex = "receiverId-index"
)
