package models

// Group represents a named multi-user conversation. Posting is gated
// by the group-level chatEnabled flag and each member's canChat flag.
type Group struct {
	GroupID     string `dynamodbav:"groupId" json:"groupId"` // ✅ Partition Key
	Name        string `dynamodbav:"name" json:"name"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	ImageURL    string `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ChatEnabled bool   `dynamodbav:"chatEnabled" json:"chatEnabled"`
	CreatedBy   string `dynamodbav:"createdBy" json:"createdBy"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// GroupMember is one membership row per (group, user) pair.
type GroupMember struct {
	GroupID         string `dynamodbav:"groupId" json:"groupId"` // ✅ Partition Key
	UserID          string `dynamodbav:"userId" json:"userId"`   // ✅ Sort Key
	Name            string `dynamodbav:"name" json:"name"`
	Role            string `dynamodbav:"role" json:"role"` // "admin" or "member"
	CanChat         bool   `dynamodbav:"canChat" json:"canChat"`
	JoinedAt        string `dynamodbav:"joinedAt" json:"joinedAt"`
	ProfileImageURL string `dynamodbav:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
}

// Table names for groups and their membership rows
const (
	GroupsTable       = "Groups"
	GroupMembersTable = "GroupMembers"
)
