package models

// Notification is a fire-and-forget inbox entry written as a side
// effect of another user's action. There is no delivery confirmation.
type Notification struct {
	UserID         string `dynamodbav:"userId" json:"userId"`       // ✅ Partition Key (inbox owner)
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key
	NotificationID string `dynamodbav:"notificationId" json:"notificationId"`
	Type           string `dynamodbav:"type" json:"type"`
	Message        string `dynamodbav:"message" json:"message"`
	SenderID       string `dynamodbav:"senderId,omitempty" json:"senderId,omitempty"`
	TeamID         string `dynamodbav:"teamId,omitempty" json:"teamId,omitempty"`
	Seen           bool   `dynamodbav:"seen" json:"seen"`
}

// NotificationsTable is the DynamoDB table name for user notifications
const NotificationsTable = "Notifications"
