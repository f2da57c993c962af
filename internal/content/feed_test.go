package content

import (
	"testing"
	"time"

	"cirqls/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRow(id uint, typ string, createdAt time.Time) PostRow {
	return PostRow{
		ID:        id,
		Type:      typ,
		Title:     "t",
		Author:    UserRef{ID: 1, Username: "u"},
		Community: CommunityRef{ID: 1, Name: "c"},
		CreatedAt: createdAt,
	}
}

func likes(n int) []ReactionRow {
	rows := make([]ReactionRow, n)
	for i := range rows {
		rows[i] = ReactionRow{UserID: uint(100 + i), Type: "like"}
	}
	return rows
}

func TestComposeFeed_NewModeChronological(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []PostRow{
		postRow(1, "text", base),
		postRow(2, "media", base.Add(time.Hour)),
		postRow(3, "text", base.Add(30*time.Minute)),
	}

	feed, err := ComposeFeed(rows, nil, nil, FeedNew, 0, 0)
	require.NoError(t, err)

	require.Len(t, feed, 3)
	assert.Equal(t, uint(2), feed[0].ID)
	assert.Equal(t, uint(3), feed[1].ID)
	assert.Equal(t, uint(1), feed[2].ID)
}

func TestComposeFeed_NewModeTimestampTieBrokenByID(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []PostRow{
		postRow(4, "text", ts),
		postRow(9, "text", ts),
		postRow(7, "text", ts),
	}

	feed, err := ComposeFeed(rows, nil, nil, FeedNew, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, uint(9), feed[0].ID)
	assert.Equal(t, uint(7), feed[1].ID)
	assert.Equal(t, uint(4), feed[2].ID)
}

func TestComposeFeed_TopModeReactionTotalDominatesTimestamp(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []PostRow{
		postRow(1, "text", base),               // older, 5 reactions
		postRow(2, "text", base.Add(time.Hour)), // newer, 3 reactions
	}
	reactions := map[uint][]ReactionRow{
		1: likes(5),
		2: likes(3),
	}

	feed, err := ComposeFeed(rows, reactions, nil, FeedTop, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, uint(1), feed[0].ID)
	assert.Equal(t, uint(2), feed[1].ID)
}

func TestComposeFeed_TopModeTiesFallBackToNewOrder(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []PostRow{
		postRow(1, "text", base),
		postRow(2, "text", base.Add(time.Hour)),
		postRow(3, "text", base.Add(2*time.Hour)),
	}
	reactions := map[uint][]ReactionRow{
		1: likes(2),
		2: likes(2),
		3: likes(2),
	}

	feed, err := ComposeFeed(rows, reactions, nil, FeedTop, 0, 0)
	require.NoError(t, err)

	// Equal totals everywhere, so ordering equals new mode.
	assert.Equal(t, uint(3), feed[0].ID)
	assert.Equal(t, uint(2), feed[1].ID)
	assert.Equal(t, uint(1), feed[2].ID)
}

func TestComposeFeed_VariantsAndCommentsInfo(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	text := postRow(1, "text", base)
	text.Description = "hello"
	media := postRow(2, "media", base.Add(time.Minute))
	media.MediaSrc = "media/abc123"

	commentIDs := map[uint][]uint{1: {10, 11, 12}}

	feed, err := ComposeFeed([]PostRow{text, media}, nil, commentIDs, FeedNew, 0, 0)
	require.NoError(t, err)

	require.Len(t, feed, 2)
	assert.Equal(t, "media", feed[0].Kind)
	assert.Equal(t, "media/abc123", feed[0].MediaSrc)
	assert.Empty(t, feed[0].Description)
	assert.Equal(t, 0, feed[0].Comments.Total)

	assert.Equal(t, "text", feed[1].Kind)
	assert.Equal(t, "hello", feed[1].Description)
	assert.Equal(t, 3, feed[1].Comments.Total)
	assert.Equal(t, []uint{10, 11, 12}, feed[1].Comments.CommentIDs)
}

func TestComposeFeed_UnknownDiscriminatorSurfaced(t *testing.T) {
	t.Parallel()

	rows := []PostRow{postRow(1, "poll", time.Now())}

	feed, err := ComposeFeed(rows, nil, nil, FeedNew, 0, 0)
	require.Error(t, err)
	assert.Nil(t, feed)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeDataIntegrity, appErr.Code)
}

func TestComposeFeed_LimitTruncates(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []PostRow{
		postRow(1, "text", base),
		postRow(2, "text", base.Add(time.Minute)),
		postRow(3, "text", base.Add(2*time.Minute)),
	}

	feed, err := ComposeFeed(rows, nil, nil, FeedNew, 2, 0)
	require.NoError(t, err)

	require.Len(t, feed, 2)
	assert.Equal(t, uint(3), feed[0].ID)
	assert.Equal(t, uint(2), feed[1].ID)
}

func TestParseFeedMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FeedTop, ParseFeedMode("top"))
	assert.Equal(t, FeedNew, ParseFeedMode("new"))
	assert.Equal(t, FeedNew, ParseFeedMode(""))
	assert.Equal(t, FeedNew, ParseFeedMode("hot"))
}
