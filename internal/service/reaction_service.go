package service

import (
	"context"
	"errors"

	"cirqls/internal/content"
	"cirqls/internal/models"
	"cirqls/internal/repository"

	"gorm.io/gorm"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
}

type ReactInput struct {
	UserID   uint
	TargetID uint
	Type     string
}

// ReactResult reports the summary after a toggle plus who should be told.
type ReactResult struct {
	Summary content.ReactionSummary
	// AuthorID is the owner of the reacted-to entity; zero when the viewer
	// reacted to their own content and no notification is due.
	AuthorID uint
	// Removed is true when the toggle cleared an existing reaction.
	Removed bool
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
	}
}

func validReactionType(t string) bool {
	return t == models.ReactionLike || t == models.ReactionDislike
}

// ReactToPost toggles the user's reaction on a post and returns the fresh
// aggregate for that post.
func (s *ReactionService) ReactToPost(ctx context.Context, in ReactInput) (*ReactResult, error) {
	if !validReactionType(in.Type) {
		return nil, models.NewValidationError("Reaction type must be like or dislike")
	}

	post, err := s.postRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", in.TargetID)
		}
		return nil, models.NewUpstreamError("reactions", err)
	}

	set, err := s.reactionRepo.SetForPost(ctx, in.UserID, in.TargetID, in.Type)
	if err != nil {
		return nil, models.NewUpstreamError("reactions", err)
	}

	rows, err := s.reactionRepo.GetForPost(ctx, in.TargetID)
	if err != nil {
		return nil, models.NewUpstreamError("reactions", err)
	}

	result := &ReactResult{
		Summary: content.Aggregate(toReactionRows(rows), in.UserID),
		Removed: set == nil,
	}
	if set != nil && post.UserID != in.UserID {
		result.AuthorID = post.UserID
	}
	return result, nil
}

// ReactToComment toggles the user's reaction on a comment.
func (s *ReactionService) ReactToComment(ctx context.Context, in ReactInput) (*ReactResult, error) {
	if !validReactionType(in.Type) {
		return nil, models.NewValidationError("Reaction type must be like or dislike")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", in.TargetID)
		}
		return nil, models.NewUpstreamError("reactions", err)
	}

	set, err := s.reactionRepo.SetForComment(ctx, in.UserID, in.TargetID, in.Type)
	if err != nil {
		return nil, models.NewUpstreamError("reactions", err)
	}

	grouped, err := s.reactionRepo.GetForComments(ctx, []uint{in.TargetID})
	if err != nil {
		return nil, models.NewUpstreamError("reactions", err)
	}

	result := &ReactResult{
		Summary: content.Aggregate(toReactionRows(grouped[in.TargetID]), in.UserID),
		Removed: set == nil,
	}
	if set != nil && comment.UserID != in.UserID {
		result.AuthorID = comment.UserID
	}
	return result, nil
}
