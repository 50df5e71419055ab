package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID          string `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	Name            string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Email           string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Bio             string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	ProfileImageURL string `dynamodbav:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	GithubURL       string `dynamodbav:"githubUrl,omitempty" json:"githubUrl,omitempty"`
	LinkedinURL     string `dynamodbav:"linkedinUrl,omitempty" json:"linkedinUrl,omitempty"`
	IsOrganizer     bool   `dynamodbav:"isOrganizer,omitempty" json:"isOrganizer,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
