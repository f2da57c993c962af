package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents one entry of a post's discussion thread. Comments are
// stored flat; ParentID is a nullable self-reference and the nested tree is
// reconstructed in memory per request, never in SQL.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ParentID  *uint          `gorm:"index" json:"parent_comment_id,omitempty"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
