package content

import (
	"fmt"
	"time"

	"cirqls/internal/models"
)

// BuildForest converts a flat batch of comment rows into an ordered forest of
// nested nodes, each annotated with its aggregated reactions. Reaction rows
// must be pre-grouped by comment id by the caller; this function fetches
// nothing.
//
// A row whose parent id does not resolve within the batch is treated as a
// root, so a deleted parent cannot break assembly. Each row is inserted into
// exactly one parent's list in a single pass, which makes cycles impossible
// by construction rather than by a runtime check. Relative input order is
// preserved for both roots and siblings.
func BuildForest(
	rows []CommentRow,
	reactions map[uint][]ReactionRow,
	viewerID uint,
) ([]*CommentNode, error) {
	if len(rows) == 0 {
		return []*CommentNode{}, nil
	}

	now := time.Now()

	index := make(map[uint]*CommentNode, len(rows))
	for _, row := range rows {
		if _, exists := index[row.ID]; exists {
			return nil, models.NewDataIntegrityError(
				fmt.Sprintf("duplicate comment id %d in batch", row.ID))
		}
		index[row.ID] = &CommentNode{
			ID:           row.ID,
			ParentID:     row.ParentID,
			PostID:       row.PostID,
			Author:       row.Author,
			Message:      row.Message,
			CreatedAt:    row.CreatedAt,
			CreatedSince: CreatedSince(row.CreatedAt, now),
			Reactions:    Aggregate(reactions[row.ID], viewerID),
			Children:     []*CommentNode{},
		}
	}

	roots := make([]*CommentNode, 0, len(rows))
	for _, row := range rows {
		node := index[row.ID]
		if row.ParentID != nil {
			if parent, ok := index[*row.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots, nil
}
