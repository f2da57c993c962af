// Package content holds the pure in-memory assembly core: reaction
// aggregation, comment thread reconstruction and feed composition. Nothing
// in this package performs I/O; callers fetch flat rows through the
// repository layer and hand them in.
package content

import (
	"fmt"
	"time"
)

// ReactionNone is reported when the viewer authored no reaction in a set.
const ReactionNone = "none"

// ReactionRow is one flat reaction row as fetched from storage.
type ReactionRow struct {
	UserID uint
	Type   string
}

// ReactionSummary is the derived per-entity tally. Never persisted.
type ReactionSummary struct {
	Likes          int    `json:"likes"`
	Dislikes       int    `json:"dislikes"`
	Total          int    `json:"total"`
	ViewerReaction string `json:"auth_user_reaction"`
}

// UserRef identifies an author without dragging the full account row along.
type UserRef struct {
	ID       uint   `json:"user_id"`
	Username string `json:"username"`
}

// CommunityRef identifies the community a post belongs to.
type CommunityRef struct {
	ID   uint   `json:"community_id"`
	Name string `json:"name"`
}

// CommentRow is one flat comment row. ParentID is nil for top-level comments.
type CommentRow struct {
	ID        uint
	ParentID  *uint
	PostID    uint
	Author    UserRef
	Message   string
	CreatedAt time.Time
}

// CommentNode is a comment with its aggregated reactions and nested replies.
// Built once per request and discarded after serialization.
type CommentNode struct {
	ID           uint            `json:"comment_id"`
	ParentID     *uint           `json:"parent_comment_id,omitempty"`
	PostID       uint            `json:"post_id"`
	Author       UserRef         `json:"commenter"`
	Message      string          `json:"message"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedSince string          `json:"created_since"`
	Reactions    ReactionSummary `json:"reactions"`
	Children     []*CommentNode  `json:"child_comments"`
}

// PostRow is one flat post row; Type discriminates the variant.
type PostRow struct {
	ID          uint
	Type        string
	Title       string
	Description string
	MediaSrc    string
	Author      UserRef
	Community   CommunityRef
	CreatedAt   time.Time
}

// CommentsInfo is the comment tally attached to a feed entry. Ids only;
// full trees are fetched per post, not inline in feeds.
type CommentsInfo struct {
	Total      int    `json:"total"`
	CommentIDs []uint `json:"comment_ids"`
}

// PostSummary is the composed feed entry, a tagged variant over text and
// media posts. Kind matches the row discriminator.
type PostSummary struct {
	Kind         string          `json:"kind"`
	ID           uint            `json:"post_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	MediaSrc     string          `json:"media_src,omitempty"`
	Author       UserRef         `json:"poster"`
	Community    CommunityRef    `json:"community"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedSince string          `json:"created_since"`
	Reactions    ReactionSummary `json:"reactions"`
	Comments     CommentsInfo    `json:"comments_info"`
}

// FeedMode selects the feed ordering.
type FeedMode string

const (
	FeedNew FeedMode = "new"
	FeedTop FeedMode = "top"
)

// ParseFeedMode maps a sort query parameter onto a FeedMode. Anything
// unrecognized falls back to chronological, matching the API default.
func ParseFeedMode(s string) FeedMode {
	if s == string(FeedTop) {
		return FeedTop
	}
	return FeedNew
}

// CreatedSince renders the age of an entity relative to now.
func CreatedSince(createdAt, now time.Time) string {
	d := now.Sub(createdAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%d years ago", int(d.Hours()/(24*365)))
	}
}
