package models

// FriendRequest is a directed request from one user to another. It has
// no stored status: acceptance and rejection both delete the row, so a
// present row always means "pending".
type FriendRequest struct {
	ToUserID   string `dynamodbav:"toUserId" json:"toUserId"`   // ✅ Partition Key (receiver approves)
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key
	RequestID  string `dynamodbav:"requestId" json:"requestId"`
	FromUserID string `dynamodbav:"fromUserId" json:"fromUserId"` // ✅ Used in GSI
}

// Friendship is one row per direction of an accepted friendship:
// accepting a request writes both (A,B) and (B,A) in one transaction.
type Friendship struct {
	UserID    string `dynamodbav:"userId" json:"userId"`     // ✅ Partition Key
	FriendID  string `dynamodbav:"friendId" json:"friendId"` // ✅ Sort Key
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// Table names for friend requests and friendships
const (
	FriendRequestsTable = "FriendRequests"
	FriendshipsTable    = "Friendships"
)

// SentRequestsIndex is the GSI for querying requests a user has sent
const SentRequestsIndex = "fromUserId-index"
