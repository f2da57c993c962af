package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"cirqls/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopReactionRepo())
	ctx := context.Background()

	t.Run("empty message", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("message too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Message: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("post not found", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc2 := NewCommentService(noopCommentRepo(), postRepo, noopReactionRepo())
		_, err := svc2.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Message: "hi"})
		assertErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_CreateComment_ParentMustSharePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}

	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		// The parent lives on post 7, not the post being commented on.
		return &models.Comment{ID: id, PostID: 7}, nil
	}

	svc := NewCommentService(commentRepo, postRepo, noopReactionRepo())

	parentID := uint(3)
	_, err := svc.CreateComment(ctx, CreateCommentInput{
		UserID:   1,
		PostID:   5,
		ParentID: &parentID,
		Message:  "reply",
	})
	assertValidationError(t, err)
}

func TestCommentService_GetThread_BuildsNestedTree(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Now()
	parentID := uint(1)

	commentRepo := noopCommentRepo()
	commentRepo.getByPostIDFn = func(_ context.Context, _ uint) ([]*models.Comment, error) {
		return []*models.Comment{
			{ID: 1, PostID: 5, UserID: 10, Message: "root", CreatedAt: now},
			{ID: 2, PostID: 5, UserID: 11, ParentID: &parentID, Message: "reply", CreatedAt: now.Add(time.Minute)},
		}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), noopReactionRepo())

	roots, err := svc.GetThread(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "reply", roots[0].Children[0].Message)
}

func TestCommentService_DeleteComment_Authorization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 10, PostID: 5}, nil
	}

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 20}, nil
		}
		svc := NewCommentService(commentRepo, postRepo, noopReactionRepo())
		_, err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 99, CommentID: 1})
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("post author may moderate their thread", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 20}, nil
		}
		svc := NewCommentService(commentRepo, postRepo, noopReactionRepo())
		deleted, err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 20, CommentID: 1})
		require.NoError(t, err)
		assert.Equal(t, uint(1), deleted.ID)
	})

	t.Run("owner may delete", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(commentRepo, noopPostRepo(), noopReactionRepo())
		_, err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 10, CommentID: 1})
		assert.NoError(t, err)
	})
}
