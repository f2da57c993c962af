package repository

import (
	"context"

	"cirqls/internal/cache"
	"cirqls/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// GetByPostID returns the flat comment set for a post in insertion order.
	GetByPostID(ctx context.Context, postID uint) ([]*models.Comment, error)
	GetIDsForPosts(ctx context.Context, postIDs []uint) (map[uint][]uint, error)
	Delete(ctx context.Context, id uint) error
	// GetUnreadForAuthor returns unread comments left by others on posts the
	// given user authored.
	GetUnreadForAuthor(ctx context.Context, authorID uint) ([]*models.Comment, error)
	// MarkReadForAuthor marks every unread comment on the author's posts read.
	MarkReadForAuthor(ctx context.Context, authorID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CommentsKey(comment.PostID))
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) GetByPostID(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) GetIDsForPosts(ctx context.Context, postIDs []uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ID     uint
		PostID uint
	}
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("id, post_id").
		Where("post_id IN ?", postIDs).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.ID)
	}
	return result, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CommentsKey(comment.PostID))
	return nil
}

func (r *commentRepository) GetUnreadForAuthor(ctx context.Context, authorID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.user_id = ? AND comments.user_id <> ? AND comments.is_read = ?", authorID, authorID, false).
		Order("comments.created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) MarkReadForAuthor(ctx context.Context, authorID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id IN (?)", r.db.
			Model(&models.Comment{}).
			Select("comments.id").
			Joins("JOIN posts ON posts.id = comments.post_id").
			Where("posts.user_id = ? AND comments.user_id <> ? AND comments.is_read = ?", authorID, authorID, false),
		).
		Update("is_read", true).Error
}
