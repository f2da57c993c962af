package repository

import (
	"context"

	"cirqls/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines the interface for community data operations
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	GetByName(ctx context.Context, name string) (*models.Community, error)
	List(ctx context.Context, limit, offset int) ([]*models.Community, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Community, error)
	Update(ctx context.Context, community *models.Community) error
	Join(ctx context.Context, communityID, userID uint) error
	Leave(ctx context.Context, communityID, userID uint) error
	IsMember(ctx context.Context, communityID, userID uint) (bool, error)
	GetMemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error)
	AddModerator(ctx context.Context, communityID, userID uint) error
	IsModerator(ctx context.Context, communityID, userID uint) (bool, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Create(community).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) GetByName(ctx context.Context, name string) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	var communities []*models.Community
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error
	return communities, err
}

func (r *communityRepository) Search(ctx context.Context, query string, limit int) ([]*models.Community, error) {
	var communities []*models.Community
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR title LIKE ?", like, like).
		Order("name ASC").
		Limit(limit).
		Find(&communities).Error
	return communities, err
}

func (r *communityRepository) Update(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Save(community).Error
}

func (r *communityRepository) Join(ctx context.Context, communityID, userID uint) error {
	return r.db.WithContext(ctx).
		Where(models.Member{CommunityID: communityID, UserID: userID}).
		FirstOrCreate(&models.Member{CommunityID: communityID, UserID: userID}).Error
}

func (r *communityRepository) Leave(ctx context.Context, communityID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.Member{}).Error
}

func (r *communityRepository) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *communityRepository) GetMemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error
	return ids, err
}

func (r *communityRepository) AddModerator(ctx context.Context, communityID, userID uint) error {
	return r.db.WithContext(ctx).
		Where(models.Moderator{CommunityID: communityID, UserID: userID}).
		FirstOrCreate(&models.Moderator{CommunityID: communityID, UserID: userID}).Error
}

func (r *communityRepository) IsModerator(ctx context.Context, communityID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Moderator{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}
