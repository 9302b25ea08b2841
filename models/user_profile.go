package models

// UserProfile defines the structure for golfer profiles
type UserProfile struct {
	UserID        string   `dynamodbav:"userId" json:"userId" validate:"required"` // Partition Key
	Name          string   `dynamodbav:"name,omitempty" json:"name,omitempty" validate:"required"`
	Age           int      `dynamodbav:"age,omitempty" json:"age,omitempty" validate:"omitempty,gte=18"`
	Gender        string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Handicap      float64  `dynamodbav:"handicap,omitempty" json:"handicap,omitempty" validate:"omitempty,gte=-10,lte=54"`
	HomeCourse    string   `dynamodbav:"homeCourse,omitempty" json:"homeCourse,omitempty"`
	SkillLevel    string   `dynamodbav:"skillLevel,omitempty" json:"skillLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced scratch"`
	PlayFrequency string   `dynamodbav:"playFrequency,omitempty" json:"playFrequency,omitempty"`
	Bio           string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Photos        []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	CreatedAt     string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// PrimaryPhoto returns the first photo URL, the one shown on match popups.
func (p *UserProfile) PrimaryPhoto() string {
	if len(p.Photos) > 0 {
		return p.Photos[0]
	}
	return ""
}

// UserProfilesTable is the DynamoDB table name for golfer profiles
const UserProfilesTable = "UserProfiles"
