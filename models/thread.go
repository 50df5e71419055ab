package models

// ChatThread represents a direct conversation between exactly two users.
// The threadId is derived from the sorted pair of user ids, so both
// participants resolve the same thread without coordination.
type ChatThread struct {
	ThreadID     string   `dynamodbav:"threadId" json:"threadId"`         // ✅ Partition Key ("<userA>_<userB>", sorted)
	Participants []string `dynamodbav:"participants" json:"participants"` // Always two entries, sorted
	CreatedAt    string   `dynamodbav:"createdAt" json:"createdAt"`
}

// ThreadsTable is the DynamoDB table name for direct chat threads
const ThreadsTable = "ChatThreads"
