package content

import "cirqls/internal/models"

// Aggregate tallies like and dislike rows and reports the viewer's own
// reaction. A viewerID of zero means anonymous. Rows with unknown types are
// skipped, not fatal, so a future reaction kind cannot break aggregation.
func Aggregate(rows []ReactionRow, viewerID uint) ReactionSummary {
	summary := ReactionSummary{ViewerReaction: ReactionNone}

	for _, row := range rows {
		switch row.Type {
		case models.ReactionLike:
			summary.Likes++
		case models.ReactionDislike:
			summary.Dislikes++
		default:
			continue
		}
		if viewerID != 0 && row.UserID == viewerID {
			summary.ViewerReaction = row.Type
		}
	}

	summary.Total = summary.Likes + summary.Dislikes
	return summary
}
