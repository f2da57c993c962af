package models

import (
	"time"

	"gorm.io/gorm"
)

// Post variant discriminators. A post row is exactly one of these; anything
// else in the type column is a data-integrity failure, not a silent default.
const (
	PostTypeText  = "text"
	PostTypeMedia = "media"
)

// Post represents a text or media post stored as a single flat row.
// Description is set for text posts, MediaSrc for media posts.
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Type        string         `gorm:"not null;index" json:"type"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	MediaSrc    string         `json:"media_src,omitempty"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CommunityID uint           `gorm:"not null;index" json:"community_id"`
	Community   *Community     `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// SavedPost bookmarks a post for a user.
type SavedPost struct {
	UserID  uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID  uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	SavedAt time.Time `gorm:"autoCreateTime" json:"saved_at"`
}
