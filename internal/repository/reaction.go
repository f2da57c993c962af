package repository

import (
	"context"
	"errors"

	"cirqls/internal/cache"
	"cirqls/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	// SetForPost toggles the user's reaction on a post: a repeated reaction of
	// the same type removes it, a different type replaces it. Returns the
	// resulting reaction, or nil when the toggle removed it.
	SetForPost(ctx context.Context, userID, postID uint, reactionType string) (*models.Reaction, error)
	SetForComment(ctx context.Context, userID, commentID uint, reactionType string) (*models.Reaction, error)
	GetForPost(ctx context.Context, postID uint) ([]models.Reaction, error)
	GetForPosts(ctx context.Context, postIDs []uint) (map[uint][]models.Reaction, error)
	GetForComments(ctx context.Context, commentIDs []uint) (map[uint][]models.Reaction, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) SetForPost(ctx context.Context, userID, postID uint, reactionType string) (*models.Reaction, error) {
	reaction, err := r.set(ctx, userID, reactionType, &postID, nil)
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return reaction, err
}

func (r *reactionRepository) SetForComment(ctx context.Context, userID, commentID uint, reactionType string) (*models.Reaction, error) {
	return r.set(ctx, userID, reactionType, nil, &commentID)
}

// set runs the toggle inside a transaction so concurrent reactions from the
// same user cannot leave two rows on one target.
func (r *reactionRepository) set(ctx context.Context, userID uint, reactionType string, postID, commentID *uint) (*models.Reaction, error) {
	var result *models.Reaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", userID)
		if postID != nil {
			query = query.Where("post_id = ?", *postID)
		} else {
			query = query.Where("comment_id = ?", *commentID)
		}

		var existing models.Reaction
		err := query.First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := models.Reaction{
				UserID:    userID,
				PostID:    postID,
				CommentID: commentID,
				Type:      reactionType,
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			result = &created
			return nil
		case err != nil:
			return err
		}

		if existing.Type == reactionType {
			result = nil
			return tx.Delete(&existing).Error
		}

		existing.Type = reactionType
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		result = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *reactionRepository) GetForPost(ctx context.Context, postID uint) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Find(&reactions).Error
	return reactions, err
}

func (r *reactionRepository) GetForPosts(ctx context.Context, postIDs []uint) (map[uint][]models.Reaction, error) {
	result := make(map[uint][]models.Reaction, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}

	for _, reaction := range reactions {
		result[*reaction.PostID] = append(result[*reaction.PostID], reaction)
	}
	return result, nil
}

func (r *reactionRepository) GetForComments(ctx context.Context, commentIDs []uint) (map[uint][]models.Reaction, error) {
	result := make(map[uint][]models.Reaction, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}

	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("comment_id IN ?", commentIDs).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}

	for _, reaction := range reactions {
		result[*reaction.CommentID] = append(result[*reaction.CommentID], reaction)
	}
	return result, nil
}
