package models

// GroupMessage represents a group chat message stored in DynamoDB
type GroupMessage struct {
	GroupID         string  `dynamodbav:"groupId" json:"groupId"`     // ✅ Partition Key
	CreatedAt       string  `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key (TimeLayout)
	MessageID       string  `dynamodbav:"messageId" json:"messageId"`
	SenderID        string  `dynamodbav:"senderId" json:"senderId"`
	SenderName      string  `dynamodbav:"senderName" json:"senderName"`
	Content         string  `dynamodbav:"content,omitempty" json:"content,omitempty"`
	ImageURL        *string `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ProfileImageURL string  `dynamodbav:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
}

// GroupMessagesTable is the DynamoDB table name for group chat messages
const GroupMessagesTable = "GroupMessages"
