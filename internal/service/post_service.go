package service

import (
	"context"
	"errors"

	"cirqls/internal/content"
	"cirqls/internal/models"
	"cirqls/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen       = 300
	maxDescriptionLen = 40000
)

type PostService struct {
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	reactionRepo  repository.ReactionRepository
	communityRepo repository.CommunityRepository
}

type CreatePostInput struct {
	UserID      uint
	CommunityID uint
	Type        string
	Title       string
	Description string
	MediaSrc    string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
	communityRepo repository.CommunityRepository,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		reactionRepo:  reactionRepo,
		communityRepo: communityRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long")
	}

	switch in.Type {
	case models.PostTypeText:
		if in.MediaSrc != "" {
			return nil, models.NewValidationError("Text posts cannot carry media")
		}
	case models.PostTypeMedia:
		if in.MediaSrc == "" {
			return nil, models.NewValidationError("Media posts require a media source")
		}
	default:
		return nil, models.NewValidationError("Post type must be text or media")
	}

	member, err := s.communityRepo.IsMember(ctx, in.CommunityID, in.UserID)
	if err != nil {
		return nil, models.NewUpstreamError("posts", err)
	}
	if !member {
		return nil, models.NewForbiddenError("Join the community before posting")
	}

	post := &models.Post{
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		MediaSrc:    in.MediaSrc,
		UserID:      in.UserID,
		CommunityID: in.CommunityID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewUpstreamError("posts", err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, models.NewUpstreamError("posts", err)
	}
	return created, nil
}

// GetPost returns a single post as a composed summary with its reaction
// aggregate and comment tally.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*content.PostSummary, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, models.NewUpstreamError("posts", err)
	}

	reactions, err := s.reactionRepo.GetForPost(ctx, postID)
	if err != nil {
		return nil, models.NewUpstreamError("posts", err)
	}

	commentIDs, err := s.commentRepo.GetIDsForPosts(ctx, []uint{postID})
	if err != nil {
		return nil, models.NewUpstreamError("posts", err)
	}

	summaries, err := content.ComposeFeed(
		[]content.PostRow{toPostRow(post)},
		map[uint][]content.ReactionRow{postID: toReactionRows(reactions)},
		commentIDs,
		content.FeedNew,
		1,
		viewerID,
	)
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("post", in.PostID)
		}
		return models.NewUpstreamError("posts", err)
	}

	if post.UserID != in.UserID {
		mod, err := s.communityRepo.IsModerator(ctx, post.CommunityID, in.UserID)
		if err != nil {
			return models.NewUpstreamError("posts", err)
		}
		if !mod {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return models.NewUpstreamError("posts", err)
	}
	return nil
}

func (s *PostService) SavePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("post", postID)
		}
		return models.NewUpstreamError("posts", err)
	}
	if err := s.postRepo.Save(ctx, userID, postID); err != nil {
		return models.NewUpstreamError("posts", err)
	}
	return nil
}

func (s *PostService) UnsavePost(ctx context.Context, userID, postID uint) error {
	if err := s.postRepo.Unsave(ctx, userID, postID); err != nil {
		return models.NewUpstreamError("posts", err)
	}
	return nil
}

func (s *PostService) GetSavedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.GetSaved(ctx, userID, limit, offset)
	if err != nil {
		return nil, models.NewUpstreamError("posts", err)
	}
	return posts, nil
}
