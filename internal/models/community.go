package models

import (
	"time"

	"gorm.io/gorm"
)

// Community types. Public communities accept any member; restricted ones
// only show content to members.
const (
	CommunityPublic     = "public"
	CommunityRestricted = "restricted"
)

// Community represents a topic-scoped posting space.
type Community struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Type        string         `gorm:"not null;default:'public'" json:"type"`
	LogoSrc     string         `json:"logo_src,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Member links a user to a community they joined.
type Member struct {
	CommunityID uint      `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	UserID      uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// Moderator links a user to a community they moderate.
type Moderator struct {
	CommunityID uint `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	UserID      uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
}
