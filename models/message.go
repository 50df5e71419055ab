package models

// Message is a single direct-chat message. Immutable once stored;
// content may be empty for media-only messages.
type Message struct {
	ThreadID  string  `dynamodbav:"threadId" json:"threadId"`   // ✅ Partition Key
	CreatedAt string  `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key (TimeLayout)
	MessageID string  `dynamodbav:"messageId" json:"messageId"`
	SenderID  string  `dynamodbav:"senderId" json:"senderId"`
	Content   string  `dynamodbav:"content,omitempty" json:"content,omitempty"`
	MediaURL  *string `dynamodbav:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	IsUnread  bool    `dynamodbav:"isUnread" json:"isUnread"`
}

// MessagesTable is the DynamoDB table name for direct chat messages
const MessagesTable = "Messages"
