package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Each comment belongs to exactly
// one post (one-to-many, post_id foreign key).
type Comment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Author      Profile        `gorm:"foreignKey:AuthorID" json:"author"`
	PostID      uint           `gorm:"not null;index" json:"post_id"`
	Post        Post           `gorm:"foreignKey:PostID" json:"-"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
