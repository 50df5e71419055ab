package models

// TimeLayout is the timestamp format used for every createdAt sort key.
// Fixed-width millisecond precision so lexicographic order matches
// chronological order when DynamoDB compares keys byte-wise.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// ✅ Request / join statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ✅ Group member roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ✅ Media kinds accepted by the upload endpoint
const (
	MediaKindImage      = "image"
	MediaKindVideo      = "video"
	MediaKindAudio      = "audio"
	MediaKindDocument   = "document"
	MediaKindGroupImage = "groupImage"
)

// ✅ Notification types
const (
	NotificationFriendAccepted = "friend_accepted"
	NotificationTeamJoin       = "team_join_request"
	NotificationTeamAccepted   = "team_request_accepted"
	NotificationTeamRejected   = "team_request_rejected"
)
