package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the single public profile a user may own
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_profiles_user_id"`
	Name      string    `json:"name" gorm:"not null"`
	Bio       string    `json:"bio" gorm:"type:text;not null;default:''"`
	Headline  string    `json:"headline" gorm:"not null;default:''"`
	PhotoURL  *string   `json:"photoUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Interests []Interest `json:"interests" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// Interest is a free-text tag owned by exactly one profile
type Interest struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID uuid.UUID `json:"profileId" gorm:"type:uuid;not null;index"`
	Label     string    `json:"label" gorm:"not null"`
	Position  int       `json:"-" gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Interest) TableName() string {
	return "interests"
}

// NewInterests builds one Interest per label, in order.
func NewInterests(profileID uuid.UUID, labels []string) []Interest {
	interests := make([]Interest, 0, len(labels))
	for i, label := range labels {
		interests = append(interests, Interest{
			ID:        uuid.New(),
			ProfileID: profileID,
			Label:     label,
			Position:  i,
		})
	}
	return interests
}

// Labels returns the interest labels in stored order
func (p *Profile) Labels() []string {
	labels := make([]string, 0, len(p.Interests))
	for _, i := range p.Interests {
		labels = append(labels, i.Label)
	}
	return labels
}

// FeedOptions filters and pages the public feed
type FeedOptions struct {
	ExcludeUserID *uuid.UUID
	Limit         int
	Offset        int
}
