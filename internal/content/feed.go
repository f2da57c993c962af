package content

import (
	"fmt"
	"sort"
	"time"

	"cirqls/internal/models"
)

// ComposeFeed maps flat post rows into tagged PostSummary variants, attaches
// reaction and comment tallies, orders them by the requested mode and
// truncates to limit (limit <= 0 means no truncation). Pagination cursoring
// beyond that is the gateway's concern.
//
// An unknown type discriminator is surfaced as a data-integrity failure; the
// row is never silently dropped.
func ComposeFeed(
	rows []PostRow,
	reactions map[uint][]ReactionRow,
	commentIDs map[uint][]uint,
	mode FeedMode,
	limit int,
	viewerID uint,
) ([]PostSummary, error) {
	now := time.Now()

	feed := make([]PostSummary, 0, len(rows))
	for _, row := range rows {
		if row.Type != models.PostTypeText && row.Type != models.PostTypeMedia {
			return nil, models.NewDataIntegrityError(
				fmt.Sprintf("post %d has unknown type %q", row.ID, row.Type))
		}

		ids := commentIDs[row.ID]
		feed = append(feed, PostSummary{
			Kind:         row.Type,
			ID:           row.ID,
			Title:        row.Title,
			Description:  row.Description,
			MediaSrc:     row.MediaSrc,
			Author:       row.Author,
			Community:    row.Community,
			CreatedAt:    row.CreatedAt,
			CreatedSince: CreatedSince(row.CreatedAt, now),
			Reactions:    Aggregate(reactions[row.ID], viewerID),
			Comments:     CommentsInfo{Total: len(ids), CommentIDs: ids},
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		if mode == FeedTop && feed[i].Reactions.Total != feed[j].Reactions.Total {
			return feed[i].Reactions.Total > feed[j].Reactions.Total
		}
		// Chronological order; ties broken by id so output is deterministic.
		if !feed[i].CreatedAt.Equal(feed[j].CreatedAt) {
			return feed[i].CreatedAt.After(feed[j].CreatedAt)
		}
		return feed[i].ID > feed[j].ID
	})

	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}
