package models

import "time"

// Reaction kinds persisted in the type column. Rows with unrecognized kinds
// are tolerated by the aggregator so a future kind does not break tallies.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction is one user's reaction to either a post or a comment (exactly one
// of PostID/CommentID is set). A user holds at most one reaction per target;
// changing a reaction updates the row in place.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_reaction;uniqueIndex:idx_comment_reaction" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_post_reaction" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_comment_reaction" json:"comment_id,omitempty"`
	Type      string    `gorm:"not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
