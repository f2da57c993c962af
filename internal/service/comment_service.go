package service

import (
	"context"
	"errors"

	"cirqls/internal/content"
	"cirqls/internal/models"
	"cirqls/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo  repository.CommentRepository
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	ParentID *uint
	Message  string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	reactionRepo repository.ReactionRepository,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Message == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(in.Message) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", in.PostID)
		}
		return nil, models.NewUpstreamError("comments", err)
	}

	// A reply must target a comment on the same post; cross-post threading
	// would corrupt the tree.
	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("comment", *in.ParentID)
			}
			return nil, models.NewUpstreamError("comments", err)
		}
		if parent.PostID != post.ID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		ParentID: in.ParentID,
		PostID:   in.PostID,
		UserID:   in.UserID,
		Message:  in.Message,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewUpstreamError("comments", err)
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, models.NewUpstreamError("comments", err)
	}
	return created, nil
}

// GetThread rebuilds the nested comment tree for a post, with per-comment
// reaction summaries relative to the viewer.
func (s *CommentService) GetThread(ctx context.Context, postID, viewerID uint) ([]*content.CommentNode, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, models.NewUpstreamError("comments", err)
	}

	comments, err := s.commentRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, models.NewUpstreamError("comments", err)
	}

	commentIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
	}

	reactions, err := s.reactionRepo.GetForComments(ctx, commentIDs)
	if err != nil {
		return nil, models.NewUpstreamError("comments", err)
	}

	return content.BuildForest(toCommentRows(comments), toReactionRowMap(reactions), viewerID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", in.CommentID)
		}
		return nil, models.NewUpstreamError("comments", err)
	}

	if comment.UserID != in.UserID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return nil, models.NewUpstreamError("comments", err)
		}
		if post.UserID != in.UserID {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, models.NewUpstreamError("comments", err)
	}
	return comment, nil
}

// MarkRead marks every unread comment on the user's posts as read.
func (s *CommentService) MarkRead(ctx context.Context, userID uint) error {
	if err := s.commentRepo.MarkReadForAuthor(ctx, userID); err != nil {
		return models.NewUpstreamError("comments", err)
	}
	return nil
}
