package service

import (
	"context"

	"cirqls/internal/cache"
	"cirqls/internal/content"
	"cirqls/internal/models"
	"cirqls/internal/observability"
	"cirqls/internal/repository"
)

// feedCandidateLimit caps how many rows are pulled from storage before
// composition. Top-ranked feeds need a wider candidate set than the page
// they return.
const feedCandidateLimit = 200

type FeedService struct {
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	reactionRepo  repository.ReactionRepository
	communityRepo repository.CommunityRepository
}

type FeedInput struct {
	ViewerID uint
	Mode     content.FeedMode
	Limit    int
}

func NewFeedService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
	communityRepo repository.CommunityRepository,
) *FeedService {
	return &FeedService{
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		reactionRepo:  reactionRepo,
		communityRepo: communityRepo,
	}
}

// HomeFeed composes the feed of posts from communities the viewer belongs
// to. A viewer with no memberships gets an empty feed, not an error.
func (s *FeedService) HomeFeed(ctx context.Context, in FeedInput) ([]content.PostSummary, error) {
	done := observability.TrackFeedComposition("home")
	defer done()

	communityIDs, err := s.communityRepo.GetMemberCommunityIDs(ctx, in.ViewerID)
	if err != nil {
		return nil, models.NewUpstreamError("feed", err)
	}

	posts, err := s.postRepo.ListByCommunities(ctx, communityIDs, feedCandidateLimit)
	if err != nil {
		return nil, models.NewUpstreamError("feed", err)
	}

	return s.compose(ctx, posts, in)
}

// ExploreFeed composes the global feed across all communities. Anonymous
// explore pages are cached briefly; authenticated views carry the viewer's
// own reactions and are always composed fresh.
func (s *FeedService) ExploreFeed(ctx context.Context, in FeedInput) ([]content.PostSummary, error) {
	done := observability.TrackFeedComposition("explore")
	defer done()

	key := cache.FeedKey("explore", 0, string(in.Mode))
	if in.ViewerID == 0 {
		var cached []content.PostSummary
		if cache.GetJSON(ctx, key, &cached) {
			if in.Limit > 0 && len(cached) > in.Limit {
				cached = cached[:in.Limit]
			}
			return cached, nil
		}
	}

	posts, err := s.postRepo.ListAll(ctx, feedCandidateLimit)
	if err != nil {
		return nil, models.NewUpstreamError("feed", err)
	}

	summaries, err := s.compose(ctx, posts, in)
	if err != nil {
		return nil, err
	}

	if in.ViewerID == 0 {
		cache.SetJSON(ctx, key, summaries, cache.FeedTTL)
	}
	return summaries, nil
}

// CommunityFeed composes the feed for a single community page.
func (s *FeedService) CommunityFeed(ctx context.Context, communityID uint, in FeedInput) ([]content.PostSummary, error) {
	done := observability.TrackFeedComposition("community")
	defer done()

	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, models.NewNotFoundError("community", communityID)
	}

	posts, err := s.postRepo.GetByCommunityID(ctx, communityID, feedCandidateLimit, 0)
	if err != nil {
		return nil, models.NewUpstreamError("feed", err)
	}

	return s.compose(ctx, posts, in)
}

func (s *FeedService) compose(ctx context.Context, posts []*models.Post, in FeedInput) ([]content.PostSummary, error) {
	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	reactions, err := s.reactionRepo.GetForPosts(ctx, postIDs)
	if err != nil {
		return nil, models.NewUpstreamError("feed", err)
	}

	commentIDs, err := s.commentRepo.GetIDsForPosts(ctx, postIDs)
	if err != nil {
		return nil, models.NewUpstreamError("feed", err)
	}

	return content.ComposeFeed(toPostRows(posts), toReactionRowMap(reactions), commentIDs, in.Mode, in.Limit, in.ViewerID)
}
