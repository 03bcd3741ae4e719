package models

import "time"

// ReactionType is the kind of reaction a profile can leave on a post.
type ReactionType string

const (
	// ReactionLike marks a positive reaction.
	ReactionLike ReactionType = "LIKE"
	// ReactionDislike marks a negative reaction.
	ReactionDislike ReactionType = "DISLIKE"
)

// Valid reports whether t is one of the known reaction types.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// Reaction is a profile's like/dislike on a post. The combination of
// ProfileID and PostID must be unique; a later reaction from the same
// profile on the same post overwrites Type in place. Rows are hard
// deleted so the unique index never collides with a tombstone.
type Reaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ProfileID uint         `gorm:"not null;uniqueIndex:idx_reactions_profile_post" json:"profile_id"`
	PostID    uint         `gorm:"not null;uniqueIndex:idx_reactions_profile_post" json:"post_id"`
	Type      ReactionType `gorm:"column:reaction_type;type:varchar(10);not null" json:"reaction_type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Post    Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
