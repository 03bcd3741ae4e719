package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post authored by a profile. CreatedAt doubles as the
// publication date and is never updated after the initial insert.
type Post struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	AuthorID    uint    `gorm:"not null;index" json:"author_id"`
	Author      Profile `gorm:"foreignKey:AuthorID" json:"author"`
	Description string  `gorm:"type:text;not null" json:"description"`
	ImageURL    string  `json:"image_url"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	Tags          []Tag          `gorm:"many2many:post_tags;" json:"tags"`
	Comments      []Comment      `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt     time.Time      `json:"pub_date"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tag is an entry in the shared free-form tag vocabulary.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}
