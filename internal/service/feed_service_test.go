package service

import (
	"context"
	"testing"
	"time"

	"cirqls/internal/content"
	"cirqls/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedPosts(now time.Time) []*models.Post {
	return []*models.Post{
		{ID: 1, Type: models.PostTypeText, Title: "older", CreatedAt: now.Add(-2 * time.Hour),
			User: &models.User{ID: 10, Username: "alice"}, Community: &models.Community{ID: 1, Name: "go"}},
		{ID: 2, Type: models.PostTypeMedia, Title: "newer", MediaSrc: "/m/2.png", CreatedAt: now.Add(-time.Hour),
			User: &models.User{ID: 11, Username: "bob"}, Community: &models.Community{ID: 1, Name: "go"}},
	}
}

func TestFeedService_HomeFeed_EmptyMembershipYieldsEmptyFeed(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.listByCommunitiesFn = func(_ context.Context, ids []uint, _ int) ([]*models.Post, error) {
		assert.Empty(t, ids)
		return []*models.Post{}, nil
	}

	svc := NewFeedService(postRepo, noopCommentRepo(), noopReactionRepo(), noopCommunityRepo())
	feed, err := svc.HomeFeed(context.Background(), FeedInput{ViewerID: 1, Mode: content.FeedNew, Limit: 25})
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFeedService_HomeFeed_ScopesToMemberships(t *testing.T) {
	t.Parallel()
	now := time.Now()

	communityRepo := noopCommunityRepo()
	communityRepo.getMemberCommunityIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{1}, nil
	}

	postRepo := noopPostRepo()
	postRepo.listByCommunitiesFn = func(_ context.Context, ids []uint, _ int) ([]*models.Post, error) {
		assert.Equal(t, []uint{1}, ids)
		return feedPosts(now), nil
	}

	svc := NewFeedService(postRepo, noopCommentRepo(), noopReactionRepo(), communityRepo)
	feed, err := svc.HomeFeed(context.Background(), FeedInput{ViewerID: 1, Mode: content.FeedNew, Limit: 25})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "newer", feed[0].Title)
	assert.Equal(t, "media", feed[0].Kind)
	assert.Equal(t, "older", feed[1].Title)
}

func TestFeedService_ExploreFeed_TopModeRanksByEngagement(t *testing.T) {
	t.Parallel()
	now := time.Now()

	postRepo := noopPostRepo()
	postRepo.listAllFn = func(_ context.Context, _ int) ([]*models.Post, error) {
		return feedPosts(now), nil
	}

	reactionRepo := noopReactionRepo()
	reactionRepo.getForPostsFn = func(_ context.Context, _ []uint) (map[uint][]models.Reaction, error) {
		// The older post carries the engagement.
		return map[uint][]models.Reaction{
			1: {{UserID: 5, Type: models.ReactionLike}, {UserID: 6, Type: models.ReactionDislike}},
		}, nil
	}

	svc := NewFeedService(postRepo, noopCommentRepo(), reactionRepo, noopCommunityRepo())
	feed, err := svc.ExploreFeed(context.Background(), FeedInput{ViewerID: 1, Mode: content.FeedTop, Limit: 25})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "older", feed[0].Title)
	assert.Equal(t, 2, feed[0].Reactions.Total)
}

func TestFeedService_CommunityFeed_UnknownCommunity(t *testing.T) {
	t.Parallel()

	communityRepo := noopCommunityRepo()
	communityRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Community, error) {
		return nil, assert.AnError
	}

	svc := NewFeedService(noopPostRepo(), noopCommentRepo(), noopReactionRepo(), communityRepo)
	_, err := svc.CommunityFeed(context.Background(), 99, FeedInput{Mode: content.FeedNew})
	assertErrorCode(t, err, models.CodeNotFound)
}
