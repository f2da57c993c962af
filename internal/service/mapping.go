package service

import (
	"cirqls/internal/content"
	"cirqls/internal/models"
)

// Mapping between persistence models and the pure content-domain rows. The
// content package never sees gorm types.

func toUserRef(u *models.User) content.UserRef {
	return content.UserRef{ID: u.ID, Username: u.Username}
}

func toCommunityRef(c *models.Community) content.CommunityRef {
	return content.CommunityRef{ID: c.ID, Name: c.Name}
}

func toPostRow(p *models.Post) content.PostRow {
	return content.PostRow{
		ID:          p.ID,
		Type:        p.Type,
		Title:       p.Title,
		Description: p.Description,
		MediaSrc:    p.MediaSrc,
		Author:      toUserRef(p.User),
		Community:   toCommunityRef(p.Community),
		CreatedAt:   p.CreatedAt,
	}
}

func toPostRows(posts []*models.Post) []content.PostRow {
	rows := make([]content.PostRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, toPostRow(p))
	}
	return rows
}

func toCommentRow(c *models.Comment) content.CommentRow {
	return content.CommentRow{
		ID:        c.ID,
		ParentID:  c.ParentID,
		PostID:    c.PostID,
		Author:    toUserRef(c.User),
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentRows(comments []*models.Comment) []content.CommentRow {
	rows := make([]content.CommentRow, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, toCommentRow(c))
	}
	return rows
}

func toReactionRows(reactions []models.Reaction) []content.ReactionRow {
	rows := make([]content.ReactionRow, 0, len(reactions))
	for _, r := range reactions {
		rows = append(rows, content.ReactionRow{UserID: r.UserID, Type: r.Type})
	}
	return rows
}

func toReactionRowMap(grouped map[uint][]models.Reaction) map[uint][]content.ReactionRow {
	result := make(map[uint][]content.ReactionRow, len(grouped))
	for id, reactions := range grouped {
		result[id] = toReactionRows(reactions)
	}
	return result
}
